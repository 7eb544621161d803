package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/educonnectt/educonnect-api/internal/dto"
	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
	"github.com/educonnectt/educonnect-api/pkg/export"
)

const overviewCacheKey = "dashboard:overview"

type overviewRepository interface {
	Overview(ctx context.Context) (*dto.AdminOverviewResponse, error)
}

type exportStudentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

type exportPaymentLister interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error)
}

// DashboardService composes the read-only admin overview and its exports.
// The overview is cached with a TTL; a cache failure degrades to a direct
// read, never to an error.
type DashboardService struct {
	repo     overviewRepository
	students exportStudentLister
	payments exportPaymentLister
	cache    *CacheService
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	cacheTTL time.Duration
	logger   *zap.Logger
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Repo     overviewRepository
	Students exportStudentLister
	Payments exportPaymentLister
	Cache    *CacheService
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{
		repo:     params.Repo,
		students: params.Students,
		payments: params.Payments,
		cache:    params.Cache,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		cacheTTL: ttl,
		logger:   logger,
	}
}

// Overview returns the aggregated counts and indicates cache utilisation.
func (s *DashboardService) Overview(ctx context.Context) (*dto.AdminOverviewResponse, bool, error) {
	var cached dto.AdminOverviewResponse
	if hit, err := s.cache.Get(ctx, overviewCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	overview, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, false, appErrors.FromError(err)
	}

	if err := s.cache.Set(ctx, overviewCacheKey, overview, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard overview", zap.Error(err))
	}
	return overview, false, nil
}

// InvalidateOverview drops the cached overview after writes that change it.
func (s *DashboardService) InvalidateOverview(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, overviewCacheKey); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

// ExportReport renders the named report ("students" | "payments") in the
// requested format ("csv" | "pdf") and returns content plus content type.
func (s *DashboardService) ExportReport(ctx context.Context, report, format string) ([]byte, string, error) {
	var data export.Dataset
	var title string

	switch report {
	case "students":
		students, _, err := s.students.List(ctx, models.StudentFilter{PageSize: 100})
		if err != nil {
			return nil, "", appErrors.FromError(err)
		}
		data = studentDataset(students)
		title = "Student Roster"
	case "payments":
		payments, _, err := s.payments.List(ctx, models.PaymentFilter{Status: string(models.PaymentStatusPending), PageSize: 100})
		if err != nil {
			return nil, "", appErrors.FromError(err)
		}
		data = paymentDataset(payments)
		title = "Pending Payments"
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unknown report")
	}

	switch format {
	case "csv":
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to render csv")
		}
		return content, "text/csv", nil
	case "pdf":
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to render pdf")
		}
		return content, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func studentDataset(students []models.Student) export.Dataset {
	data := export.Dataset{Headers: []string{"Name", "Email", "Curriculum", "Package", "Grade", "Amount", "Registered"}}
	for _, st := range students {
		data.Rows = append(data.Rows, map[string]string{
			"Name":       st.FullName,
			"Email":      st.Email,
			"Curriculum": string(st.Curriculum),
			"Package":    st.Package,
			"Grade":      st.Grade,
			"Amount":     fmt.Sprintf("%.2f", st.Amount),
			"Registered": st.CreatedAt.Format("2006-01-02"),
		})
	}
	return data
}

func paymentDataset(payments []models.PaymentDetail) export.Dataset {
	data := export.Dataset{Headers: []string{"Student", "Package", "Amount", "Reference", "Status", "Submitted"}}
	for _, p := range payments {
		name := ""
		if p.StudentName != nil {
			name = *p.StudentName
		}
		data.Rows = append(data.Rows, map[string]string{
			"Student":   name,
			"Package":   p.Package,
			"Amount":    fmt.Sprintf("%.2f", p.Amount),
			"Reference": p.ReferenceName,
			"Status":    string(p.Status),
			"Submitted": p.CreatedAt.Format("2006-01-02"),
		})
	}
	return data
}
