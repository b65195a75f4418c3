package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"roadside/internal/domain"
	"roadside/internal/repository"
)

// RequestRepository is a PostgreSQL implementation of repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

// NewRequestRepositoryWithTx creates a request repository using a transaction.
func NewRequestRepositoryWithTx(tx *sql.Tx) *RequestRepository {
	return &RequestRepository{q: tx}
}

const requestColumns = `
	id, customer_id, service_type, location, status, provider_id, provider_name,
	price, eta_minutes, service_notes, created_at, accepted_at, en_route_at,
	completed_at, paid_at, cancelled_at, cancel_reason
`

// Create persists a new service request. A unique-violation (the partial
// index allowing one live request per customer) maps to ErrDuplicate.
func (r *RequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	query := `
		INSERT INTO service_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.q.ExecContext(ctx, query,
		req.ID,
		req.CustomerID,
		req.ServiceType,
		req.Location,
		req.Status,
		nullString(req.ProviderID),
		nullString(req.ProviderName),
		req.Price,
		req.ETAMinutes,
		nullString(req.ServiceNotes),
		req.CreatedAt,
		nullTime(req.AcceptedAt),
		nullTime(req.EnRouteAt),
		nullTime(req.CompletedAt),
		nullTime(req.PaidAt),
		nullTime(req.CancelledAt),
		nullString(req.CancelReason),
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

// GetByID retrieves a request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE id = $1`

	req, err := r.scanRequest(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// GetActiveByCustomerID retrieves the customer's live request, if any.
func (r *RequestRepository) GetActiveByCustomerID(ctx context.Context, customerID string) (*domain.ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests
		WHERE customer_id = $1 AND status NOT IN ($2, $3)
		ORDER BY created_at DESC
		LIMIT 1
	`

	req, err := r.scanRequest(r.q.QueryRowContext(ctx, query, customerID, domain.StatusPaid, domain.StatusCancelled))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

// GetOpen retrieves all non-terminal requests, newest first.
func (r *RequestRepository) GetOpen(ctx context.Context) ([]*domain.ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests
		WHERE status NOT IN ($1, $2)
		ORDER BY created_at DESC
		LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query, domain.StatusPaid, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectRequests(rows)
}

// GetByStatus retrieves all requests currently in the given status.
func (r *RequestRepository) GetByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectRequests(rows)
}

// Update updates an existing request.
func (r *RequestRepository) Update(ctx context.Context, req *domain.ServiceRequest) error {
	query := `
		UPDATE service_requests
		SET status = $1, provider_id = $2, provider_name = $3, eta_minutes = $4,
		    service_notes = $5, accepted_at = $6, en_route_at = $7, completed_at = $8,
		    paid_at = $9, cancelled_at = $10, cancel_reason = $11
		WHERE id = $12
	`

	result, err := r.q.ExecContext(ctx, query,
		req.Status,
		nullString(req.ProviderID),
		nullString(req.ProviderName),
		req.ETAMinutes,
		nullString(req.ServiceNotes),
		nullTime(req.AcceptedAt),
		nullTime(req.EnRouteAt),
		nullTime(req.CompletedAt),
		nullTime(req.PaidAt),
		nullTime(req.CancelledAt),
		nullString(req.CancelReason),
		req.ID,
	)
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

// UpdateFromStatus updates an existing request only while its stored status
// still equals from. A zero-row result means a concurrent writer moved the
// request on; the transition the caller checked is no longer valid.
func (r *RequestRepository) UpdateFromStatus(ctx context.Context, req *domain.ServiceRequest, from domain.RequestStatus) error {
	query := `
		UPDATE service_requests
		SET status = $1, provider_id = $2, provider_name = $3, eta_minutes = $4,
		    service_notes = $5, accepted_at = $6, en_route_at = $7, completed_at = $8,
		    paid_at = $9, cancelled_at = $10, cancel_reason = $11
		WHERE id = $12 AND status = $13
	`

	result, err := r.q.ExecContext(ctx, query,
		req.Status,
		nullString(req.ProviderID),
		nullString(req.ProviderName),
		req.ETAMinutes,
		nullString(req.ServiceNotes),
		nullTime(req.AcceptedAt),
		nullTime(req.EnRouteAt),
		nullTime(req.CompletedAt),
		nullTime(req.PaidAt),
		nullTime(req.CancelledAt),
		nullString(req.CancelReason),
		req.ID,
		from,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrStatusConflict
	}
	return nil
}

// Delete removes a request.
func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM service_requests WHERE id = $1`, id)
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

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RequestRepository) scanRequest(row rowScanner) (*domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	var providerID, providerName, serviceNotes, cancelReason sql.NullString
	var acceptedAt, enRouteAt, completedAt, paidAt, cancelledAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.CustomerID,
		&req.ServiceType,
		&req.Location,
		&req.Status,
		&providerID,
		&providerName,
		&req.Price,
		&req.ETAMinutes,
		&serviceNotes,
		&req.CreatedAt,
		&acceptedAt,
		&enRouteAt,
		&completedAt,
		&paidAt,
		&cancelledAt,
		&cancelReason,
	)
	if err != nil {
		return nil, err
	}

	req.ProviderID = providerID.String
	req.ProviderName = providerName.String
	req.ServiceNotes = serviceNotes.String
	req.CancelReason = cancelReason.String
	req.AcceptedAt = acceptedAt.Time
	req.EnRouteAt = enRouteAt.Time
	req.CompletedAt = completedAt.Time
	req.PaidAt = paidAt.Time
	req.CancelledAt = cancelledAt.Time

	return &req, nil
}

func (r *RequestRepository) collectRequests(rows *sql.Rows) ([]*domain.ServiceRequest, error) {
	var requests []*domain.ServiceRequest
	for rows.Next() {
		req, err := r.scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
