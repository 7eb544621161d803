package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
)

// StaffRepository manages persistence for internal operator accounts.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// FindByEmail fetches a staff member by email, case-insensitively.
func (r *StaffRepository) FindByEmail(ctx context.Context, email string) (*models.Staff, error) {
	const query = `SELECT * FROM staff WHERE LOWER(email) = LOWER($1)`
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, email); err != nil {
		return nil, err
	}
	return &staff, nil
}

// FindByID fetches a staff member by ID.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	const query = `SELECT * FROM staff WHERE id = $1`
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		return nil, err
	}
	return &staff, nil
}

// Create inserts a new staff record. Used by seeding and admin provisioning.
func (r *StaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = now
	}
	staff.UpdatedAt = now

	const query = `INSERT INTO staff (id, full_name, email, password_hash, role, created_at, updated_at)
        VALUES (:id, :full_name, :email, :password_hash, :role, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, staff); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrDuplicateEmail, "")
		}
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

// ListByRole returns all staff members holding the given role.
func (r *StaffRepository) ListByRole(ctx context.Context, role models.Role) ([]models.Staff, error) {
	const query = `SELECT * FROM staff WHERE role = $1 ORDER BY created_at ASC`
	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query, role); err != nil {
		return nil, fmt.Errorf("list staff by role: %w", err)
	}
	return staff, nil
}
