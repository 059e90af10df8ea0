package sim

import (
	"errors"
	"testing"
	"time"

	"tripflow/internal/domain"
)

func waitForStatus(t *testing.T, r *Registry, id string, want domain.TripStatus) *domain.StatusEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev, err := r.Status(id)
		if err != nil {
			t.Fatalf("Status(%s): %v", id, err)
		}
		if ev.Status == want {
			return ev
		}
		time.Sleep(2 * time.Millisecond)
	}
	ev, _ := r.Status(id)
	t.Fatalf("trip never reached %s, stuck at %s", want, ev.Status)
	return nil
}

func TestRegistry_RideProgressesToCompletion(t *testing.T) {
	t.Parallel()

	r := NewRegistry(5 * time.Millisecond)
	defer r.Close()

	id, trackingCode := r.CreateTrip(domain.RideEconomy, 61600)
	if id == "" || trackingCode == "" {
		t.Fatal("empty identifiers from CreateTrip")
	}

	ev, err := r.Status(id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if ev.Status != domain.StatusRequested {
		t.Errorf("initial status = %s, want REQUESTED", ev.Status)
	}

	assigned := waitForStatus(t, r, id, domain.StatusAssigned)
	if assigned.Partner == nil || assigned.Partner.Name == "" {
		t.Error("no partner data at ASSIGNED")
	}

	completed := waitForStatus(t, r, id, domain.StatusCompleted)
	if completed.FinalFare != 61600 {
		t.Errorf("final fare = %d, want 61600", completed.FinalFare)
	}
}

func TestRegistry_DeliveryUsesDeliveryPath(t *testing.T) {
	t.Parallel()

	r := NewRegistry(5 * time.Millisecond)
	defer r.Close()

	id, _ := r.CreateTrip(domain.DeliverySmall, 30000)

	seen := map[domain.TripStatus]bool{}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev, err := r.Status(id)
		if err != nil {
			t.Fatalf("Status: %v", err)
		}
		seen[ev.Status] = true
		if ev.Status == domain.StatusCompleted {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	if !seen[domain.StatusCompleted] {
		t.Fatal("delivery never completed")
	}
	if seen[domain.StatusArrived] || seen[domain.StatusInProgress] {
		t.Error("delivery passed through ride-only statuses")
	}
}

func TestRegistry_Cancel(t *testing.T) {
	t.Parallel()

	r := NewRegistry(time.Hour)
	defer r.Close()

	id, _ := r.CreateTrip(domain.RideEconomy, 50000)
	if err := r.Cancel(id); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	ev, err := r.Status(id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if ev.Status != domain.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", ev.Status)
	}

	if err := r.Cancel(id); !errors.Is(err, ErrNotCancellable) {
		t.Errorf("second cancel: error = %v, want ErrNotCancellable", err)
	}
}

func TestRegistry_UnknownTrip(t *testing.T) {
	t.Parallel()

	r := NewRegistry(time.Hour)
	defer r.Close()

	if _, err := r.Status("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Status: error = %v, want ErrNotFound", err)
	}
	if err := r.Cancel("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Cancel: error = %v, want ErrNotFound", err)
	}
}

func TestRegistry_CloseFreezesTrips(t *testing.T) {
	t.Parallel()

	r := NewRegistry(5 * time.Millisecond)
	id, _ := r.CreateTrip(domain.RideEconomy, 50000)
	r.Close()

	// Let any in-flight tick drain before sampling.
	time.Sleep(20 * time.Millisecond)

	before, err := r.Status(id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	after, err := r.Status(id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if after.Status != before.Status {
		t.Errorf("trip advanced after Close: %s -> %s", before.Status, after.Status)
	}
}
