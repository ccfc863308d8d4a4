package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/jobboard/internal/database"
	"github.com/forgo/jobboard/internal/model"
)

// UserRepository stores user accounts in SurrealDB
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. The unique index on username turns a taken
// name into database.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	tb := database.NewTxBuilder()
	tb.Add(nextIDStatement("user"), nil)
	tb.Add(`
		CREATE type::thing('user', $next) CONTENT {
			username: $username,
			hash: $hash,
			name: $name,
			contacts: $contacts,
			role: $role,
			created_on: time::now(),
			updated_on: time::now()
		}
	`, map[string]interface{}{
		"username": user.Username,
		"hash":     user.Hash,
		"name":     user.Name,
		"contacts": user.Contacts,
		"role":     string(user.Role),
	})

	result, err := database.ExecuteTransaction(ctx, r.db, tb)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: username already exists", database.ErrDuplicate)
		}
		return err
	}

	data, err := lastRecord(result)
	if err != nil {
		return fmt.Errorf("%w: create user: %v", database.ErrQuery, err)
	}

	created := parseUser(data)
	user.ID = created.ID
	user.CreatedOn = created.CreatedOn
	user.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT * FROM type::thing('user', $id)`
	vars := map[string]interface{}{"id": id}

	return r.getOne(ctx, query, vars)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT * FROM user WHERE username = $username LIMIT 1`
	vars := map[string]interface{}{"username": username}

	return r.getOne(ctx, query, vars)
}

func (r *UserRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return parseUser(data), nil
}

func parseUser(data map[string]interface{}) *model.User {
	return &model.User{
		ID:        recordNumber(data["id"]),
		Username:  getString(data, "username"),
		Hash:      getString(data, "hash"),
		Name:      getString(data, "name"),
		Contacts:  getString(data, "contacts"),
		Role:      model.UserRole(getString(data, "role")),
		CreatedOn: parseTime(data["created_on"]),
		UpdatedOn: parseTime(data["updated_on"]),
	}
}
