package catalog

import (
	"net/http"
	"sort"

	"cabinbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	cabins CabinSource
}

func NewHandler(cabins CabinSource) *Handler {
	return &Handler{cabins: cabins}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/cabins/capacities", h.GetCapacities)
	r.GET("/cabins/:id", h.GetCabinByID)
}

// GetCapacities lists the distinct group sizes, smallest first.
// @Summary		List cabin capacities
// @Tags		Catalog
// @Security	BearerAuth
// @Success		200	{object}		map[string]interface{} "Capacities with the cabin IDs offering each"
// @Router		/cabins/capacities [GET]
func (h *Handler) GetCapacities(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"capacities": Capacities(h.cabins)})
}

// GetCabinByID returns one cabin with its current state.
// @Summary		Get cabin
// @Tags		Catalog
// @Security	BearerAuth
// @Param		id	path	string	true	"Cabin ID, e.g. C1"
// @Success		200	{object}		map[string]interface{} "Cabin with state"
// @Failure		404	{object}		map[string]interface{} "Cabin not found"
// @Router		/cabins/:id [GET]
func (h *Handler) GetCabinByID(c *gin.Context) {
	view, ok := h.cabins.CabinStatus(c.Param("id"))
	if !ok {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Cabin not found")
		return
	}
	if h.cabins.SyncErr() != nil {
		c.Header("X-Data-Degraded", "true")
	}
	response.Success(c, http.StatusOK, gin.H{"cabin": view})
}

// Capacities groups catalog cabins by capacity.
func Capacities(cabins CabinSource) []CapacityOption {
	byCap := map[int][]string{}
	for _, cabin := range cabins.Catalog().All() {
		byCap[cabin.Capacity] = append(byCap[cabin.Capacity], cabin.ID)
	}

	out := make([]CapacityOption, 0, len(byCap))
	for capacity, ids := range byCap {
		out = append(out, CapacityOption{Capacity: capacity, CabinIDs: ids})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Capacity < out[j].Capacity })
	return out
}
