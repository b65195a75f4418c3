package postgres

import (
	"context"
	"database/sql"
	"errors"

	"roadside/internal/domain"
	"roadside/internal/repository"
)

// ProviderRepository is a PostgreSQL implementation of repository.ProviderRepository.
type ProviderRepository struct {
	q Querier
}

// NewProviderRepository creates a new PostgreSQL provider repository.
func NewProviderRepository(db *sql.DB) *ProviderRepository {
	return &ProviderRepository{q: db}
}

// NewProviderRepositoryWithTx creates a provider repository using a transaction.
func NewProviderRepositoryWithTx(tx *sql.Tx) *ProviderRepository {
	return &ProviderRepository{q: tx}
}

// Create adds a new provider to the roster.
func (r *ProviderRepository) Create(ctx context.Context, provider *domain.Provider) error {
	query := `
		INSERT INTO providers (id, name, phone, service_type, status, plate)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		provider.ID,
		provider.Name,
		provider.Phone,
		provider.ServiceType,
		provider.Status,
		provider.Plate,
	)
	return err
}

// GetByID retrieves a provider by ID.
func (r *ProviderRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	query := `SELECT id, name, phone, service_type, status, plate FROM providers WHERE id = $1`

	var p domain.Provider
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Phone, &p.ServiceType, &p.Status, &p.Plate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByPhone retrieves a provider by phone number.
func (r *ProviderRepository) GetByPhone(ctx context.Context, phone string) (*domain.Provider, error) {
	query := `SELECT id, name, phone, service_type, status, plate FROM providers WHERE phone = $1`

	var p domain.Provider
	err := r.q.QueryRowContext(ctx, query, phone).Scan(
		&p.ID, &p.Name, &p.Phone, &p.ServiceType, &p.Status, &p.Plate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetAvailableByServiceType retrieves AVAILABLE providers with the given specialty.
func (r *ProviderRepository) GetAvailableByServiceType(ctx context.Context, serviceType domain.ServiceType) ([]*domain.Provider, error) {
	query := `
		SELECT id, name, phone, service_type, status, plate
		FROM providers
		WHERE service_type = $1 AND status = $2
		ORDER BY id ASC
	`

	rows, err := r.q.QueryContext(ctx, query, serviceType, domain.ProviderStatusAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProviders(rows)
}

// GetAll retrieves the full roster.
func (r *ProviderRepository) GetAll(ctx context.Context) ([]*domain.Provider, error) {
	query := `SELECT id, name, phone, service_type, status, plate FROM providers ORDER BY id ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProviders(rows)
}

// UpdateStatus updates the status of a provider.
func (r *ProviderRepository) UpdateStatus(ctx context.Context, id string, status domain.ProviderStatus) error {
	result, err := r.q.ExecContext(ctx, `UPDATE providers SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func collectProviders(rows *sql.Rows) ([]*domain.Provider, error) {
	var providers []*domain.Provider
	for rows.Next() {
		var p domain.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.ServiceType, &p.Status, &p.Plate); err != nil {
			return nil, err
		}
		providers = append(providers, &p)
	}
	return providers, rows.Err()
}
