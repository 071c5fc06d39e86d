package users

import "context"

type Repository interface {
	Upsert(ctx context.Context, u User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
