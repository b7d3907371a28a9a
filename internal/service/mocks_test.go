package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ksnll/mithrilforge/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, req models.CreateWebsiteRequest) (*models.Website, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Website), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]models.Website, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Website), args.Error(1)
}

func (m *MockRepository) UpdateContact(ctx context.Context, id int64, contact models.Contact) error {
	return m.Called(ctx, id, contact).Error(0)
}

func (m *MockRepository) UpdateGeneratedWebsite(ctx context.Context, id int64, page models.GeneratedWebsite) error {
	return m.Called(ctx, id, page).Error(0)
}

type MockEnrichmentClient struct {
	mock.Mock
}

func (m *MockEnrichmentClient) FetchSiteContent(ctx context.Context, address string) (string, error) {
	args := m.Called(ctx, address)
	return args.String(0), args.Error(1)
}

func (m *MockEnrichmentClient) ExtractContact(ctx context.Context, content string) (models.Contact, error) {
	args := m.Called(ctx, content)
	return args.Get(0).(models.Contact), args.Error(1)
}

func (m *MockEnrichmentClient) GeneratePage(ctx context.Context, address string) (models.GeneratedWebsite, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(models.GeneratedWebsite), args.Error(1)
}

// deferredSpawner holds pipelines until the test runs them.
type deferredSpawner struct {
	pending []func()
}

func (d *deferredSpawner) spawn(f func()) {
	d.pending = append(d.pending, f)
}

func (d *deferredSpawner) runAll() {
	for _, f := range d.pending {
		f()
	}
	d.pending = nil
}

type fakeMetrics struct {
	failedStages []string
}

func (f *fakeMetrics) PipelineFinished(failedStage string, _ time.Duration) {
	f.failedStages = append(f.failedStages, failedStage)
}
