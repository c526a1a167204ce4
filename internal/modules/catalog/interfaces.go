package catalog

import (
	"cabinbooking/internal/domain"
	"cabinbooking/internal/modules/booking"
)

// CabinSource is the subset of the booking service the catalog reads.
type CabinSource interface {
	Catalog() *domain.Catalog
	CabinStatus(cabinID string) (booking.CabinView, bool)
	SyncErr() error
}
