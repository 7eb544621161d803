package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/educonnectt/educonnect-api/internal/models"
)

// SubjectRepository manages persistence for the subject catalog and its
// membership relation.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// Create inserts a new catalog subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, name, curriculum, teacher_id, class_time, progress, exam_prep, created_at, updated_at)
        VALUES (:id, :name, :curriculum, :teacher_id, :class_time, :progress, :exam_prep, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// FindByID fetches a subject with teacher name and enrolled count.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.SubjectDetail, error) {
	const query = `SELECT s.*, t.full_name AS teacher_name,
        (SELECT COUNT(*) FROM subject_enrollments se WHERE se.subject_id = s.id) AS enrolled_count
        FROM subjects s
        LEFT JOIN teachers t ON t.id = s.teacher_id
        WHERE s.id = $1`
	var detail models.SubjectDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByNames resolves requested subject names against the catalog for one
// curriculum and catalog kind. Matching is whole-string and case-insensitive.
func (r *SubjectRepository) FindByNames(ctx context.Context, curriculum models.Curriculum, names []string, examPrep bool) ([]models.Subject, error) {
	lowered := make([]string, 0, len(names))
	for _, name := range names {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(name)))
	}

	const query = `SELECT * FROM subjects
        WHERE curriculum = $1 AND exam_prep = $2 AND LOWER(name) = ANY($3)
        ORDER BY name ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, curriculum, examPrep, pq.Array(lowered)); err != nil {
		return nil, fmt.Errorf("match subjects: %w", err)
	}
	return subjects, nil
}

// List returns catalog subjects matching the provided filters.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Curriculum != "" {
		conditions = append(conditions, fmt.Sprintf("s.curriculum = $%d", len(args)+1))
		args = append(args, strings.ToUpper(filter.Curriculum))
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("s.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.ExamPrep != nil {
		conditions = append(conditions, fmt.Sprintf("s.exam_prep = $%d", len(args)+1))
		args = append(args, *filter.ExamPrep)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(s.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")
	_, size, offset := normalizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`SELECT s.*, t.full_name AS teacher_name,
        (SELECT COUNT(*) FROM subject_enrollments se WHERE se.subject_id = s.id) AS enrolled_count
        FROM subjects s
        LEFT JOIN teachers t ON t.id = s.teacher_id
        WHERE %s ORDER BY s.name ASC LIMIT %d OFFSET %d`, where, size, offset)
	var subjects []models.SubjectDetail
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM subjects s WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// Members returns the enrolled students of a subject, read from the
// membership relation.
func (r *SubjectRepository) Members(ctx context.Context, subjectID string) ([]models.SubjectMember, error) {
	const query = `SELECT se.student_id, st.full_name, st.email, se.enrolled_at
        FROM subject_enrollments se
        JOIN students st ON st.id = se.student_id
        WHERE se.subject_id = $1
        ORDER BY se.enrolled_at ASC`
	var members []models.SubjectMember
	if err := r.db.SelectContext(ctx, &members, query, subjectID); err != nil {
		return nil, fmt.Errorf("list subject members: %w", err)
	}
	return members, nil
}

// Update modifies an existing subject's editable fields.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET name = :name, curriculum = :curriculum, teacher_id = :teacher_id,
        class_time = :class_time, exam_prep = :exam_prep, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, subject)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subject result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateProgress records the teaching progress note for a subject.
func (r *SubjectRepository) UpdateProgress(ctx context.Context, id, progress string) error {
	const query = `UPDATE subjects SET progress = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, progress, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update subject progress: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subject progress result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCascade removes a subject and its membership rows in one
// transaction, so no student keeps a reference to a vanished subject.
func (r *SubjectRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin subject delete tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM subject_enrollments WHERE subject_id = $1`, id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete subject memberships: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete subject: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete subject result: %w", err)
	}
	if affected == 0 {
		tx.Rollback() //nolint:errcheck
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit subject delete tx: %w", err)
	}
	return nil
}
