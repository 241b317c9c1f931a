package domain

import "context"

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/PepeePB/proyecto-asee/internal/access/domain UserRepository

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	MarkVerified(ctx context.Context, username string) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}
