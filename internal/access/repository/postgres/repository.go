package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/PepeePB/proyecto-asee/internal/access/domain"
)

// Querier is the subset of pgxpool.Pool the repository needs, so tests can
// substitute a pgxmock pool.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db Querier
}

func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, password_hash, name, surname, phone, role, verified, is_artist, created_at, updated_at`

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1;`
	return r.scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Name, user.Surname,
		user.Phone, user.Role, user.Verified, user.IsArtist, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, username string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET verified = TRUE, updated_at = now() WHERE username = $1
	`, username)

	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE username = $1
	`, username, passwordHash)

	return err
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User

	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Name,
		&user.Surname, &user.Phone, &user.Role, &user.Verified, &user.IsArtist,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &user, nil
}
