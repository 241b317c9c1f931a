package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PepeePB/proyecto-asee/internal/access/domain"
	repo "github.com/PepeePB/proyecto-asee/internal/access/repository/postgres"
)

var userColumns = []string{
	"id", "username", "email", "password_hash", "name", "surname", "phone",
	"role", "verified", "is_artist", "created_at", "updated_at",
}

func userRow(user *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumns).AddRow(
		user.ID, user.Username, user.Email, user.PasswordHash, user.Name, user.Surname,
		user.Phone, user.Role, user.Verified, user.IsArtist, user.CreatedAt, user.UpdatedAt)
}

func TestGetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	expected := &domain.User{
		ID:        "user-123",
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      "ROLE_USER",
		Verified:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
			WithArgs("alice").
			WillReturnRows(userRow(expected))

		user, err := r.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, expected.ID, user.ID)
		assert.Equal(t, expected.Username, user.Username)
		assert.True(t, user.Verified)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
			WithArgs("alice").
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByUsername(ctx, "alice")
		assert.Error(t, err)
	})
}

func TestGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	expected := &domain.User{ID: "user-123", Username: "alice", Email: "alice@example.com"}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("alice@example.com").
			WillReturnRows(userRow(expected))

		user, err := r.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("ghost@example.com").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByEmail(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	user := &domain.User{
		ID:           "user-123",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Name:         "Alice",
		Surname:      "Doe",
		Phone:        "600000000",
		Role:         "ROLE_USER",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, user.Name,
				user.Surname, user.Phone, user.Role, user.Verified, user.IsArtist,
				user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, r.Create(ctx, user))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, user.Name,
				user.Surname, user.Phone, user.Role, user.Verified, user.IsArtist,
				user.CreatedAt, user.UpdatedAt).
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.Create(ctx, user))
	})
}

func TestMarkVerified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET verified").
			WithArgs("alice").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, r.MarkVerified(ctx, "alice"))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET verified").
			WithArgs("alice").
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.MarkVerified(ctx, "alice"))
	})
}

func TestUpdatePassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET password_hash").
			WithArgs("alice", "new-hash").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, r.UpdatePassword(ctx, "alice", "new-hash"))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET password_hash").
			WithArgs("alice", "new-hash").
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.UpdatePassword(ctx, "alice", "new-hash"))
	})
}
