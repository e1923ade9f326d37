package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushmansingh2512/AI-intervewer/internal/models"
)

type CompanyRepo struct {
	pool *pgxpool.Pool
}

func NewCompanyRepo(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

func (r *CompanyRepo) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (id, email, company_name, password_hash, is_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	company.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		company.ID, company.Email, company.CompanyName, company.PasswordHash, company.IsVerified,
	).Scan(&company.CreatedAt)
}

func (r *CompanyRepo) GetByEmail(ctx context.Context, email string) (*models.Company, error) {
	company := &models.Company{}
	query := `SELECT id, email, company_name, password_hash, is_verified, created_at
		FROM companies WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&company.ID, &company.Email, &company.CompanyName, &company.PasswordHash,
		&company.IsVerified, &company.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company := &models.Company{}
	query := `SELECT id, email, company_name, password_hash, is_verified, created_at
		FROM companies WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&company.ID, &company.Email, &company.CompanyName, &company.PasswordHash,
		&company.IsVerified, &company.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *CompanyRepo) MarkVerified(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE companies SET is_verified = TRUE WHERE id = $1", id)
	return err
}
