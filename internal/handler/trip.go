package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tripflow/internal/domain"
	"tripflow/internal/sim"
)

// TripHandler serves the simulated marketplace trip API.
type TripHandler struct {
	registry *sim.Registry
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(registry *sim.Registry) *TripHandler {
	return &TripHandler{registry: registry}
}

// LocationBody is one trip endpoint in a request body.
type LocationBody struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// CreateTripRequest is the HTTP request body for creating a trip.
type CreateTripRequest struct {
	Kind        string       `json:"kind"`
	Tier        string       `json:"tier"`
	Pickup      LocationBody `json:"pickup"`
	Destination LocationBody `json:"destination"`
	QuotedFare  int64        `json:"quoted_fare"`
}

// CreateTripResponse carries the identifiers assigned to a new trip.
type CreateTripResponse struct {
	ID           string `json:"id"`
	TrackingCode string `json:"tracking_code"`
}

// PartnerBody is the assigned partner in a status response.
type PartnerBody struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Vehicle string  `json:"vehicle"`
	Rating  float64 `json:"rating"`
}

// StatusResponse is the HTTP response for a status fetch.
type StatusResponse struct {
	Status     string       `json:"status"`
	Partner    *PartnerBody `json:"partner,omitempty"`
	FinalFare  int64        `json:"final_fare,omitempty"`
	ObservedAt time.Time    `json:"observed_at"`
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	cat := domain.Category{
		Kind: domain.CategoryKind(req.Kind),
		Tier: domain.CategoryTier(req.Tier),
	}
	if !cat.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown category"})
		return
	}
	if req.QuotedFare <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quoted fare must be positive"})
		return
	}
	pickup := domain.GeoPoint{Latitude: req.Pickup.Lat, Longitude: req.Pickup.Lng}
	destination := domain.GeoPoint{Latitude: req.Destination.Lat, Longitude: req.Destination.Lng}
	if !pickup.Valid() || !destination.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid coordinates"})
		return
	}

	id, trackingCode := h.registry.CreateTrip(cat, req.QuotedFare)

	c.JSON(http.StatusCreated, CreateTripResponse{ID: id, TrackingCode: trackingCode})
}

// GetStatus handles GET /v1/trips/:id/status
func (h *TripHandler) GetStatus(c *gin.Context) {
	ev, err := h.registry.Status(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := StatusResponse{
		Status:     string(ev.Status),
		FinalFare:  ev.FinalFare,
		ObservedAt: ev.ObservedAt,
	}
	if ev.Partner != nil {
		resp.Partner = &PartnerBody{
			Name:    ev.Partner.Name,
			Phone:   ev.Partner.Phone,
			Vehicle: ev.Partner.Vehicle,
			Rating:  ev.Partner.Rating,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// CancelTrip handles POST /v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	if err := h.registry.Cancel(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.StatusCancelled)})
}
