// Package redis caches the last-known state of active trips so a recreated
// view can re-render without waiting for the next poll. Trip state lives
// only here and in memory; there is no durable store.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"tripflow/internal/domain"
)

// SnapshotTTL bounds how long a stale snapshot survives. Active trips are
// re-saved on every status change, so the TTL only has to outlive the
// longest poll interval.
const SnapshotTTL = 5 * time.Minute

const snapshotPrefix = "snapshot:trip:"

// snapshotDTO is the cached wire shape of a trip.
type snapshotDTO struct {
	ID           string           `json:"id"`
	TrackingCode string           `json:"tracking_code"`
	Kind         string           `json:"kind"`
	Tier         string           `json:"tier"`
	Status       string           `json:"status"`
	QuotedFare   int64            `json:"quoted_fare"`
	FinalFare    int64            `json:"final_fare,omitempty"`
	Partner      *partnerDTO      `json:"partner,omitempty"`
	Pickup       locationDTO      `json:"pickup"`
	Destination  locationDTO      `json:"destination"`
	History      []statusChangeDTO `json:"history"`
	CreatedAt    time.Time        `json:"created_at"`
	LastChangeAt time.Time        `json:"last_change_at"`
}

type partnerDTO struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Vehicle string  `json:"vehicle"`
	Rating  float64 `json:"rating"`
}

type locationDTO struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Address     string  `json:"address,omitempty"`
	Approximate bool    `json:"approximate,omitempty"`
}

type statusChangeDTO struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// SnapshotStore stores trip snapshots in Redis.
type SnapshotStore struct {
	client *redis.Client
}

// NewSnapshotStore creates a SnapshotStore.
func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

// SaveTrip stores the trip's current state under its tracking code.
func (s *SnapshotStore) SaveTrip(ctx context.Context, trip *domain.Trip) error {
	data, err := json.Marshal(toDTO(trip))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotPrefix+trip.TrackingCode, data, SnapshotTTL).Err()
}

// GetTrip retrieves a snapshot by tracking code. Returns nil on a cache
// miss.
func (s *SnapshotStore) GetTrip(ctx context.Context, trackingCode string) (*domain.Trip, error) {
	data, err := s.client.Get(ctx, snapshotPrefix+trackingCode).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var dto snapshotDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	return fromDTO(&dto), nil
}

// DeleteTrip removes a snapshot once the trip has been acknowledged.
func (s *SnapshotStore) DeleteTrip(ctx context.Context, trackingCode string) error {
	return s.client.Del(ctx, snapshotPrefix+trackingCode).Err()
}

func toDTO(t *domain.Trip) *snapshotDTO {
	dto := &snapshotDTO{
		ID:           t.ID,
		TrackingCode: t.TrackingCode,
		Kind:         string(t.Category.Kind),
		Tier:         string(t.Category.Tier),
		Status:       string(t.Status),
		QuotedFare:   t.QuotedFare,
		FinalFare:    t.FinalFare,
		Pickup:       toLocationDTO(t.Pickup),
		Destination:  toLocationDTO(t.Destination),
		CreatedAt:    t.CreatedAt,
		LastChangeAt: t.LastStatusChangeAt,
	}
	if t.Partner != nil {
		dto.Partner = &partnerDTO{
			Name:    t.Partner.Name,
			Phone:   t.Partner.Phone,
			Vehicle: t.Partner.Vehicle,
			Rating:  t.Partner.Rating,
		}
	}
	for _, ch := range t.History {
		dto.History = append(dto.History, statusChangeDTO{Status: string(ch.Status), At: ch.At})
	}
	return dto
}

func toLocationDTO(l domain.Location) locationDTO {
	return locationDTO{
		Lat:         l.Point.Latitude,
		Lng:         l.Point.Longitude,
		Address:     l.Address,
		Approximate: l.Approximate,
	}
}

func fromDTO(dto *snapshotDTO) *domain.Trip {
	t := &domain.Trip{
		ID:           dto.ID,
		TrackingCode: dto.TrackingCode,
		Category: domain.Category{
			Kind: domain.CategoryKind(dto.Kind),
			Tier: domain.CategoryTier(dto.Tier),
		},
		Status:             domain.TripStatus(dto.Status),
		QuotedFare:         dto.QuotedFare,
		FinalFare:          dto.FinalFare,
		Pickup:             fromLocationDTO(dto.Pickup),
		Destination:        fromLocationDTO(dto.Destination),
		CreatedAt:          dto.CreatedAt,
		LastStatusChangeAt: dto.LastChangeAt,
	}
	if dto.Partner != nil {
		t.Partner = &domain.Partner{
			Name:    dto.Partner.Name,
			Phone:   dto.Partner.Phone,
			Vehicle: dto.Partner.Vehicle,
			Rating:  dto.Partner.Rating,
		}
	}
	for _, ch := range dto.History {
		t.History = append(t.History, domain.StatusChange{
			Status: domain.TripStatus(ch.Status),
			At:     ch.At,
		})
	}
	return t
}

func fromLocationDTO(dto locationDTO) domain.Location {
	return domain.Location{
		Point:       domain.GeoPoint{Latitude: dto.Lat, Longitude: dto.Lng},
		Address:     dto.Address,
		Approximate: dto.Approximate,
	}
}
