package csvfile

import (
	"context"

	"github.com/sakif/landing-auth/internal/metrics"
	"github.com/sakif/landing-auth/internal/model"
	"github.com/sakif/landing-auth/internal/repository"
)

// DefaultUserTablePath is where the user table lives relative to the
// working directory when no path is configured.
const DefaultUserTablePath = "db/user.csv"

// UserHeaders is the fixed column order of the user table.
var UserHeaders = []string{"id", "name", "email", "password", "created_at", "updated_at"}

// UserStore is the user table. It holds no state besides the path: every
// call goes to disk, so several stores on the same path agree with each other.
type UserStore struct {
	path string
}

// Compile-time check that UserStore satisfies the repository interface.
var _ repository.UserRepository = (*UserStore)(nil)

func NewUserStore(path string) *UserStore {
	if path == "" {
		path = DefaultUserTablePath
	}
	return &UserStore{path: path}
}

// Path returns the location of the backing file.
func (s *UserStore) Path() string {
	return s.path
}

// Ensure creates the table with its header row if it does not exist yet.
// The server calls it at startup so a bad path fails before serving.
func (s *UserStore) Ensure() error {
	return Ensure(s.path, UserHeaders)
}

// ReadAll returns every user in file order. Adapter errors (io_error,
// invalid_header) are returned unchanged.
func (s *UserStore) ReadAll(ctx context.Context) ([]model.User, error) {
	records, err := Read(s.path, UserHeaders)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(records))
	for _, rec := range records {
		users = append(users, model.User{
			ID:        rec["id"],
			Name:      rec["name"],
			Email:     rec["email"],
			Password:  rec["password"],
			CreatedAt: rec["created_at"],
			UpdatedAt: rec["updated_at"],
		})
	}

	metrics.SetUserTableRows(len(users))
	return users, nil
}

// WriteAll replaces the table with users, in the given order.
func (s *UserStore) WriteAll(ctx context.Context, users []model.User) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, u.Email, u.Password, u.CreatedAt, u.UpdatedAt})
	}

	if err := Write(s.path, UserHeaders, rows); err != nil {
		return err
	}

	metrics.SetUserTableRows(len(users))
	return nil
}
