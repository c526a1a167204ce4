package domain

import "fmt"

// Cabin is a fixed-capacity shared room. The catalog is static configuration
// and never persisted.
type Cabin struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type Catalog struct {
	cabins []Cabin
	byID   map[string]Cabin
}

func NewCatalog(cabins []Cabin) *Catalog {
	c := &Catalog{
		cabins: append([]Cabin(nil), cabins...),
		byID:   make(map[string]Cabin, len(cabins)),
	}
	for _, cabin := range cabins {
		c.byID[cabin.ID] = cabin
	}
	return c
}

// DefaultCatalog builds count cabins C1..Cn whose capacities cycle through
// capacities.
func DefaultCatalog(count int, capacities []int) *Catalog {
	if len(capacities) == 0 {
		capacities = []int{4, 5, 6}
	}
	cabins := make([]Cabin, 0, count)
	for i := 0; i < count; i++ {
		cabins = append(cabins, Cabin{
			ID:       fmt.Sprintf("C%d", i+1),
			Name:     fmt.Sprintf("Cabin %d", i+1),
			Capacity: capacities[i%len(capacities)],
		})
	}
	return NewCatalog(cabins)
}

func (c *Catalog) Get(id string) (Cabin, bool) {
	cabin, ok := c.byID[id]
	return cabin, ok
}

// All returns the cabins in catalog order.
func (c *Catalog) All() []Cabin {
	return append([]Cabin(nil), c.cabins...)
}

// FilterByCapacity returns the cabins of exactly the given capacity, or all
// cabins when capacity is zero.
func (c *Catalog) FilterByCapacity(capacity int) []Cabin {
	if capacity == 0 {
		return c.All()
	}
	out := make([]Cabin, 0, len(c.cabins))
	for _, cabin := range c.cabins {
		if cabin.Capacity == capacity {
			out = append(out, cabin)
		}
	}
	return out
}
