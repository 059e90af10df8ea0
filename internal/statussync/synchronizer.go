// Package statussync keeps the local view of an active trip consistent
// with the remote status source by polling on a fixed interval.
package statussync

import (
	"context"
	"sync"
	"time"

	"tripflow/internal/domain"
	"tripflow/internal/transport"
)

// ApplyFunc feeds one observed status event into the trip core. It returns
// true once the trip is in a terminal state, which stops the loop.
type ApplyFunc func(ev domain.StatusEvent) (terminal bool, err error)

// Callbacks are optional hooks for observing the loop. Nil fields are
// skipped. OnFetchError fires per failed fetch with the consecutive-failure
// count; OnDegraded/OnRecovered fire on threshold crossings; OnApplyError
// fires when the fetched event could not be applied (the loop keeps the
// last-known state and retries next tick).
type Callbacks struct {
	OnFetchError func(err error, consecutive int)
	OnDegraded   func()
	OnRecovered  func()
	OnApplyError func(err error)
	OnStopped    func()
}

// Synchronizer polls the remote status source for one trip and feeds
// observed statuses into the state machine via the apply function. The loop
// stops itself on a terminal state and can be stopped explicitly; either
// way the timer is released exactly once.
type Synchronizer struct {
	tripID    string
	interval  time.Duration
	threshold int
	client    transport.Client
	apply     ApplyFunc
	callbacks Callbacks

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu       sync.Mutex
	failures int
	degraded bool
}

// New creates a Synchronizer for the given trip. threshold is the number of
// consecutive fetch failures after which Degraded reports true.
func New(tripID string, interval time.Duration, threshold int, client transport.Client, apply ApplyFunc, callbacks Callbacks) *Synchronizer {
	if threshold <= 0 {
		threshold = 3
	}
	return &Synchronizer{
		tripID:    tripID,
		interval:  interval,
		threshold: threshold,
		client:    client,
		apply:     apply,
		callbacks: callbacks,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start launches the polling loop. The first fetch happens immediately,
// then every interval. ctx cancellation stops the loop like Stop does.
func (s *Synchronizer) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop halts the loop. Safe to call multiple times and after the loop has
// already stopped itself.
func (s *Synchronizer) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Done is closed once the loop has fully exited. Useful for teardown tests.
func (s *Synchronizer) Done() <-chan struct{} {
	return s.doneCh
}

// Degraded reports whether the consecutive fetch failure count has reached
// the threshold, so the view can show a connection-degraded indicator.
func (s *Synchronizer) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Failures returns the current consecutive fetch failure count.
func (s *Synchronizer) Failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

func (s *Synchronizer) run(ctx context.Context) {
	defer close(s.doneCh)
	defer func() {
		if s.callbacks.OnStopped != nil {
			s.callbacks.OnStopped()
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if s.tick(ctx) {
		return
	}

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.tick(ctx) {
				return
			}
		}
	}
}

// tick performs one fetch-and-apply cycle. It returns true when the loop
// should stop: the trip reached a terminal state.
func (s *Synchronizer) tick(ctx context.Context) bool {
	ev, err := s.client.FetchStatus(ctx, s.tripID)
	if err != nil {
		s.recordFailure(err)
		return false
	}
	s.recordSuccess()

	terminal, err := s.apply(*ev)
	if err != nil {
		// Keep last-known state; the remote may re-send a consistent
		// payload on the next tick.
		if s.callbacks.OnApplyError != nil {
			s.callbacks.OnApplyError(err)
		}
		return false
	}
	return terminal
}

func (s *Synchronizer) recordFailure(err error) {
	s.mu.Lock()
	s.failures++
	crossed := !s.degraded && s.failures >= s.threshold
	if crossed {
		s.degraded = true
	}
	consecutive := s.failures
	s.mu.Unlock()

	if s.callbacks.OnFetchError != nil {
		s.callbacks.OnFetchError(err, consecutive)
	}
	if crossed && s.callbacks.OnDegraded != nil {
		s.callbacks.OnDegraded()
	}
}

func (s *Synchronizer) recordSuccess() {
	s.mu.Lock()
	recovered := s.degraded
	s.failures = 0
	s.degraded = false
	s.mu.Unlock()

	if recovered && s.callbacks.OnRecovered != nil {
		s.callbacks.OnRecovered()
	}
}
