package repository

import (
	"context"

	"github.com/sakif/landing-auth/internal/model"
)

// UserRepository persists the whole user table at once.
//
// There is no per-row API: the backing store is a flat file that is read
// completely and rewritten completely. Lookups and uniqueness checks are
// done by the caller over the slice returned by ReadAll.
type UserRepository interface {
	ReadAll(ctx context.Context) ([]model.User, error)
	WriteAll(ctx context.Context, users []model.User) error
}
