package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ease-up/auth-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WaitlistRepository struct {
	pool *pgxpool.Pool
}

func NewWaitlistRepository(pool *pgxpool.Pool) *WaitlistRepository {
	return &WaitlistRepository{pool: pool}
}

func (r *WaitlistRepository) Add(ctx context.Context, platform domain.Platform, email string) (*domain.WaitlistSignup, error) {
	query := `
		INSERT INTO waitlist_signups (platform, email)
		VALUES ($1, $2)
		RETURNING id, platform, email, created_at`

	row := r.pool.QueryRow(ctx, query, platform, email)

	var s domain.WaitlistSignup
	if err := row.Scan(&s.ID, &s.Platform, &s.Email, &s.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateSignup
		}
		return nil, fmt.Errorf("insert waitlist signup: %w", err)
	}
	return &s, nil
}

func (r *WaitlistRepository) Count(ctx context.Context, platform domain.Platform) (int, error) {
	query := `SELECT COUNT(*) FROM waitlist_signups WHERE platform = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, platform).Scan(&count); err != nil {
		return 0, fmt.Errorf("count waitlist signups: %w", err)
	}
	return count, nil
}

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Save(ctx context.Context, msg domain.ContactMessage) (*domain.ContactMessage, error) {
	query := `
		INSERT INTO contact_messages (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, message, created_at`

	row := r.pool.QueryRow(ctx, query, msg.Name, msg.Email, msg.Message)

	var saved domain.ContactMessage
	if err := scanContact(row, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func scanContact(row pgx.Row, m *domain.ContactMessage) error {
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
		return fmt.Errorf("scan contact message: %w", err)
	}
	return nil
}
