package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tripflow/internal/domain"
)

// HTTPClient implements Client over the marketplace HTTP API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient for the given base URL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Wire DTOs.

type locationDTO struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

type createTripDTO struct {
	Kind        string      `json:"kind"`
	Tier        string      `json:"tier"`
	Pickup      locationDTO `json:"pickup"`
	Destination locationDTO `json:"destination"`
	QuotedFare  int64       `json:"quoted_fare"`
}

type createTripRespDTO struct {
	ID           string `json:"id"`
	TrackingCode string `json:"tracking_code"`
}

type partnerDTO struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Vehicle string  `json:"vehicle"`
	Rating  float64 `json:"rating"`
}

type statusRespDTO struct {
	Status     string      `json:"status"`
	Partner    *partnerDTO `json:"partner,omitempty"`
	FinalFare  int64       `json:"final_fare,omitempty"`
	ObservedAt time.Time   `json:"observed_at"`
}

// CreateTrip submits a confirmed quote and returns the assigned identifiers.
func (c *HTTPClient) CreateTrip(ctx context.Context, req CreateTripRequest) (*CreateTripResponse, error) {
	body := createTripDTO{
		Kind: string(req.Category.Kind),
		Tier: string(req.Category.Tier),
		Pickup: locationDTO{
			Lat:     req.Pickup.Point.Latitude,
			Lng:     req.Pickup.Point.Longitude,
			Address: req.Pickup.Address,
		},
		Destination: locationDTO{
			Lat:     req.Destination.Point.Latitude,
			Lng:     req.Destination.Point.Longitude,
			Address: req.Destination.Address,
		},
		QuotedFare: req.QuotedFare,
	}

	var resp createTripRespDTO
	if err := c.do(ctx, http.MethodPost, "/v1/trips", body, &resp); err != nil {
		return nil, err
	}
	return &CreateTripResponse{ID: resp.ID, TrackingCode: resp.TrackingCode}, nil
}

// FetchStatus retrieves the remote's current view of the trip.
func (c *HTTPClient) FetchStatus(ctx context.Context, tripID string) (*domain.StatusEvent, error) {
	var resp statusRespDTO
	if err := c.do(ctx, http.MethodGet, "/v1/trips/"+tripID+"/status", nil, &resp); err != nil {
		return nil, err
	}

	ev := &domain.StatusEvent{
		Status:     domain.TripStatus(resp.Status),
		FinalFare:  resp.FinalFare,
		ObservedAt: resp.ObservedAt,
	}
	if resp.Partner != nil {
		ev.Partner = &domain.Partner{
			Name:    resp.Partner.Name,
			Phone:   resp.Partner.Phone,
			Vehicle: resp.Partner.Vehicle,
			Rating:  resp.Partner.Rating,
		}
	}
	return ev, nil
}

// RequestCancel asks the remote to cancel the trip.
func (c *HTTPClient) RequestCancel(ctx context.Context, tripID string) error {
	return c.do(ctx, http.MethodPost, "/v1/trips/"+tripID+"/cancel", nil, nil)
}

// do performs one request and classifies failures into the package's error
// taxonomy: transport/5xx failures wrap ErrNetwork, 404 maps to ErrNotFound
// and any other non-2xx to ErrServerRejected.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Fall through to decode.
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: remote returned %d", ErrNetwork, resp.StatusCode)
	default:
		return fmt.Errorf("%w: %d on %s %s", ErrServerRejected, resp.StatusCode, method, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	return nil
}
