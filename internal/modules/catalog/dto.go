package catalog

// CapacityOption is one selectable group size with the cabins offering it.
type CapacityOption struct {
	Capacity int      `json:"capacity"`
	CabinIDs []string `json:"cabin_ids"`
}
