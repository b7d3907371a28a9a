package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ksnll/mithrilforge/internal/events"
	"github.com/ksnll/mithrilforge/internal/models"
)

// mockService stubs Create and List. Subscribe goes to a real bus.
type mockService struct {
	mock.Mock
	bus *events.Bus
	// subs are handed out by Subscribe before falling back to the bus.
	subs []*events.Subscription
}

func newMockService(opts ...events.BusOption) *mockService {
	return &mockService{bus: events.NewBus(opts...)}
}

func (m *mockService) Create(ctx context.Context, req models.CreateWebsiteRequest) (*models.Website, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Website), args.Error(1)
}

func (m *mockService) List(ctx context.Context) ([]models.Website, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Website), args.Error(1)
}

func (m *mockService) Subscribe() *events.Subscription {
	if len(m.subs) > 0 {
		sub := m.subs[0]
		m.subs = m.subs[1:]
		return sub
	}
	return m.bus.Subscribe()
}
