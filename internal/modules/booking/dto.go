package booking

type CreateBookingRequest struct {
	CabinID      string   `json:"cabin_id" validate:"required"`
	GroupMembers []string `json:"group_members" validate:"required,min=1,dive,max=120"`
}

type CabinStatusResponse struct {
	Cabins   []CabinView `json:"cabins"`
	Degraded bool        `json:"degraded"`
}
