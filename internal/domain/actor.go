package domain

type ActorRole string

const (
	RoleMember ActorRole = "member"
	RoleAdmin  ActorRole = "admin"
	RoleSystem ActorRole = "system"
)

// Actor is the principal on whose behalf a lifecycle call is made.
type Actor struct {
	ID   string    `json:"id"`
	Name string    `json:"name,omitempty"`
	Role ActorRole `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

func (a Actor) IsSystem() bool { return a.Role == RoleSystem }

// WatchdogActor is the principal used for automatic expiry.
var WatchdogActor = Actor{ID: "expiry-watchdog", Name: "Expiry Watchdog", Role: RoleSystem}
