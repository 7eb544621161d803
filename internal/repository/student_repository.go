package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
)

// StudentRepository manages persistence for student accounts and their
// subject memberships.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByEmail fetches a student by email, case-insensitively.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	const query = `SELECT * FROM students WHERE LOWER(email) = LOWER($1)`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT * FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmail checks whether a student with the email already exists.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM students WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student email: %w", err)
	}
	return true, nil
}

// CreateWithEnrollments inserts the student row and one membership row per
// matched subject in a single transaction. Both sides of the link commit or
// neither does.
func (r *StudentRepository) CreateWithEnrollments(ctx context.Context, student *models.Student, subjectIDs []string) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registration tx: %w", err)
	}

	const insertStudent = `INSERT INTO students (id, full_name, email, phone, password_hash, curriculum, package, grade, amount, active, created_at, updated_at)
        VALUES (:id, :full_name, :email, :phone, :password_hash, :curriculum, :package, :grade, :amount, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertStudent, student); err != nil {
		tx.Rollback() //nolint:errcheck
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrDuplicateEmail, "")
		}
		return fmt.Errorf("create student: %w", err)
	}

	const insertEnrollment = `INSERT INTO subject_enrollments (subject_id, student_id, enrolled_at) VALUES ($1, $2, $3)`
	for _, subjectID := range subjectIDs {
		if _, err := tx.ExecContext(ctx, insertEnrollment, subjectID, student.ID, now); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("enroll student in subject %s: %w", subjectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit registration tx: %w", err)
	}
	return nil
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Curriculum != "" {
		conditions = append(conditions, fmt.Sprintf("curriculum = $%d", len(args)+1))
		args = append(args, strings.ToUpper(filter.Curriculum))
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")
	_, size, offset := normalizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`SELECT * FROM students WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, where, size, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListSubjects returns the subjects a student is enrolled in, read from the
// membership relation.
func (r *StudentRepository) ListSubjects(ctx context.Context, studentID string) ([]models.Subject, error) {
	const query = `SELECT s.* FROM subjects s
        JOIN subject_enrollments se ON se.subject_id = s.id
        WHERE se.student_id = $1
        ORDER BY s.name ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, studentID); err != nil {
		return nil, fmt.Errorf("list student subjects: %w", err)
	}
	return subjects, nil
}

// Delete removes a student account. Payments, memberships and assignments
// are removed by foreign-key cascades in the same statement.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM students WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
