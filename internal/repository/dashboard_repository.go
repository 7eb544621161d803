package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/educonnectt/educonnect-api/internal/dto"
)

// DashboardRepository aggregates counts for the admin overview.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

type countRow struct {
	Key   string `db:"key"`
	Count int    `db:"count"`
}

// Overview collects all dashboard aggregates with direct reads. Callers are
// expected to cache the result.
func (r *DashboardRepository) Overview(ctx context.Context) (*dto.AdminOverviewResponse, error) {
	overview := &dto.AdminOverviewResponse{
		Students: dto.StudentsSection{ByCurriculum: map[string]int{}},
		Subjects: dto.SubjectsSection{ByCurriculum: map[string]int{}},
		Payments: dto.PaymentsSection{ByStatus: map[string]int{}},
	}

	var studentRows []countRow
	if err := r.db.SelectContext(ctx, &studentRows, `SELECT curriculum AS key, COUNT(*) AS count FROM students GROUP BY curriculum`); err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	for _, row := range studentRows {
		overview.Students.ByCurriculum[row.Key] = row.Count
		overview.Students.Total += row.Count
	}

	var teacherRows []struct {
		Active bool `db:"active"`
		Count  int  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &teacherRows, `SELECT active, COUNT(*) AS count FROM teachers GROUP BY active`); err != nil {
		return nil, fmt.Errorf("count teachers: %w", err)
	}
	for _, row := range teacherRows {
		overview.Teachers.Total += row.Count
		if row.Active {
			overview.Teachers.Active = row.Count
		} else {
			overview.Teachers.Pending = row.Count
		}
	}

	var subjectRows []countRow
	if err := r.db.SelectContext(ctx, &subjectRows, `SELECT curriculum AS key, COUNT(*) AS count FROM subjects WHERE exam_prep = false GROUP BY curriculum`); err != nil {
		return nil, fmt.Errorf("count subjects: %w", err)
	}
	for _, row := range subjectRows {
		overview.Subjects.ByCurriculum[row.Key] = row.Count
		overview.Subjects.Total += row.Count
	}
	if err := r.db.GetContext(ctx, &overview.Subjects.ExamPrep, `SELECT COUNT(*) FROM subjects WHERE exam_prep = true`); err != nil {
		return nil, fmt.Errorf("count exam prep subjects: %w", err)
	}
	overview.Subjects.Total += overview.Subjects.ExamPrep

	var paymentRows []countRow
	if err := r.db.SelectContext(ctx, &paymentRows, `SELECT status AS key, COUNT(*) AS count FROM payments GROUP BY status`); err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}
	for _, row := range paymentRows {
		overview.Payments.ByStatus[row.Key] = row.Count
		overview.Payments.Total += row.Count
	}

	var pending []struct {
		ID          string  `db:"id"`
		StudentName string  `db:"student_name"`
		Package     string  `db:"package"`
		Amount      float64 `db:"amount"`
		SubmittedAt string  `db:"submitted_at"`
	}
	const pendingQuery = `SELECT p.id, COALESCE(s.full_name, '') AS student_name, p.package, p.amount,
        to_char(p.created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"') AS submitted_at
        FROM payments p
        LEFT JOIN students s ON s.id = p.student_id
        WHERE p.status = 'pending'
        ORDER BY p.created_at DESC LIMIT 10`
	if err := r.db.SelectContext(ctx, &pending, pendingQuery); err != nil {
		return nil, fmt.Errorf("recent pending payments: %w", err)
	}
	for _, row := range pending {
		overview.Payments.RecentPending = append(overview.Payments.RecentPending, dto.PendingPaymentItem{
			ID:          row.ID,
			StudentName: row.StudentName,
			Package:     row.Package,
			Amount:      row.Amount,
			SubmittedAt: row.SubmittedAt,
		})
	}

	return overview, nil
}
