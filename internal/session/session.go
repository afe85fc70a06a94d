// Package session holds the single parking lot a process serves. The shell and
// the HTTP server share one Session so that a lot can be created only once.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/base-14/examples/go/parking-allocator/internal/logging"
	"github.com/base-14/examples/go/parking-allocator/internal/parking"
	"github.com/base-14/examples/go/parking-allocator/internal/telemetry"
)

var (
	ErrAlreadyCreated = errors.New("parking lot already created")
	ErrNotCreated     = errors.New("parking lot not created")
)

type Session struct {
	mu         sync.RWMutex
	lot        *parking.InstrumentedParkingLot
	telemetry  *telemetry.Provider
	registerer prometheus.Registerer
}

// New returns an empty session. When registerer is non-nil the lot's
// occupancy collector is registered with it on Create.
func New(provider *telemetry.Provider, registerer prometheus.Registerer) *Session {
	return &Session{
		telemetry:  provider,
		registerer: registerer,
	}
}

func (s *Session) Create(ctx context.Context, capacity int) (*parking.InstrumentedParkingLot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lot != nil {
		return nil, ErrAlreadyCreated
	}

	base, err := parking.NewParkingLot(capacity)
	if err != nil {
		return nil, err
	}

	var collector prometheus.Collector
	if s.registerer != nil {
		collector = parking.NewCollector(base, nil)
		if err := s.registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	lot, err := parking.Instrument(base, s.telemetry)
	if err != nil {
		if collector != nil {
			s.registerer.Unregister(collector)
		}
		return nil, err
	}

	s.lot = lot
	logging.Info(ctx, "parking lot created", slog.Int("capacity", capacity))
	return lot, nil
}

func (s *Session) Lot() (*parking.InstrumentedParkingLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lot == nil {
		return nil, ErrNotCreated
	}
	return s.lot, nil
}
