package users

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

var (
	ErrEmailTaken   = errors.New("user with this email already exists")
	ErrInvalidInput = errors.New("invalid input")
)

type Repo interface {
	Create(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	TouchLogin(ctx context.Context, userID string, at time.Time) error
	List(ctx context.Context, limit int) ([]User, error)
}
