package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educonnectt/educonnect-api/internal/dto"
	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
)

type overviewRepoStub struct {
	overview *dto.AdminOverviewResponse
	calls    int
}

func (s *overviewRepoStub) Overview(ctx context.Context) (*dto.AdminOverviewResponse, error) {
	s.calls++
	return s.overview, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	delete(m.entries, pattern)
	return nil
}

type exportStudentsStub struct {
	students []models.Student
}

func (s exportStudentsStub) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return s.students, len(s.students), nil
}

type exportPaymentsStub struct {
	payments []models.PaymentDetail
}

func (s exportPaymentsStub) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error) {
	return s.payments, len(s.payments), nil
}

func sampleOverview() *dto.AdminOverviewResponse {
	overview := &dto.AdminOverviewResponse{}
	overview.Students.Total = 12
	overview.Students.ByCurriculum = map[string]int{"GES": 8, "CAMBRIDGE": 4}
	overview.Teachers.Total = 3
	overview.Teachers.Active = 2
	overview.Teachers.Pending = 1
	overview.Payments.Total = 5
	overview.Payments.ByStatus = map[string]int{"pending": 2, "confirmed": 3}
	return overview
}

func newDashboardService(repo *overviewRepoStub, cacheRepo CacheRepository) *DashboardService {
	return NewDashboardService(DashboardServiceParams{
		Repo:     repo,
		Students: exportStudentsStub{students: []models.Student{{FullName: "Ama Mensah", Email: "ama@example.com", Amount: 400}}},
		Payments: exportPaymentsStub{},
		Cache:    NewCacheService(cacheRepo, nil, time.Minute, nil, cacheRepo != nil),
		CacheTTL: time.Minute,
	})
}

func TestOverviewCachesSecondRead(t *testing.T) {
	repo := &overviewRepoStub{overview: sampleOverview()}
	service := newDashboardService(repo, &memoryCacheRepo{})

	first, cached, err := service.Overview(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 12, first.Students.Total)

	second, cached, err := service.Overview(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 12, second.Students.Total)
	assert.Equal(t, 1, repo.calls)
}

func TestOverviewWorksWithoutCache(t *testing.T) {
	repo := &overviewRepoStub{overview: sampleOverview()}
	service := newDashboardService(repo, nil)

	_, cached, err := service.Overview(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)

	_, cached, err = service.Overview(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, repo.calls)
}

func TestInvalidateOverviewForcesRefresh(t *testing.T) {
	repo := &overviewRepoStub{overview: sampleOverview()}
	service := newDashboardService(repo, &memoryCacheRepo{})

	_, _, err := service.Overview(context.Background())
	require.NoError(t, err)

	service.InvalidateOverview(context.Background())

	_, cached, err := service.Overview(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, repo.calls)
}

func TestExportStudentsCSV(t *testing.T) {
	service := newDashboardService(&overviewRepoStub{overview: sampleOverview()}, nil)

	content, contentType, err := service.ExportReport(context.Background(), "students", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(content), "Ama Mensah")
	assert.Contains(t, string(content), "400.00")
}

func TestExportPaymentsPDF(t *testing.T) {
	service := newDashboardService(&overviewRepoStub{overview: sampleOverview()}, nil)

	content, contentType, err := service.ExportReport(context.Background(), "payments", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.NotEmpty(t, content)
}

func TestExportUnknownReport(t *testing.T) {
	service := newDashboardService(&overviewRepoStub{}, nil)

	_, _, err := service.ExportReport(context.Background(), "grades", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportUnknownFormat(t *testing.T) {
	service := newDashboardService(&overviewRepoStub{overview: sampleOverview()}, nil)

	_, _, err := service.ExportReport(context.Background(), "students", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
