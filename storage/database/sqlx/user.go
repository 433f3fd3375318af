package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core/user"
	"github.com/coursehub/backend/storage/database"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := psql.Insert("users").
		Columns("id", "email", "full_name", "role", "created_at", "updated_at").
		Values(usr.ID, usr.Email, usr.FullName, usr.Role, usr.CreatedAt, usr.UpdatedAt).
		Suffix("RETURNING *")

	var created user.User
	if err := get(ctx, repo.db, &created, q); err != nil {
		if database.IsUniqueViolation(err, "") { // email or id
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return created, nil
}

func (repo *userRepository) GetUser(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	err := get(ctx, repo.db, &usr, psql.Select("*").From("users").Where(sq.Eq{"id": id}))
	return usr, notFound(err, user.ErrNotFound)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := get(ctx, repo.db, &usr, psql.Select("*").From("users").Where(sq.Eq{"email": email}))
	return usr, notFound(err, user.ErrNotFound)
}

func (repo *userRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	users := make([]user.User, 0, len(ids))
	err := selectAll(ctx, repo.db, &users, psql.Select("*").From("users").Where(sq.Eq{"id": ids}))
	return users, errors.Wrap(err, "selecting users")
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	q := psql.Select("*").From("users").OrderBy("full_name", "id")
	if filter.Role != "" {
		q = q.Where(sq.Eq{"role": filter.Role})
	}
	if filter.Search != "" {
		q = q.Where(sq.Or{ilike("full_name", filter.Search), ilike("email", filter.Search)})
	}

	users := make([]user.User, 0)
	err := selectAll(ctx, repo.db, &users, q)
	return users, errors.Wrap(err, "selecting users")
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := psql.Update("users").
		SetMap(map[string]interface{}{
			"email":      usr.Email,
			"full_name":  usr.FullName,
			"role":       usr.Role,
			"updated_at": usr.UpdatedAt,
		}).
		Where(sq.Eq{"id": usr.ID}).
		Suffix("RETURNING *")

	var updated user.User
	if err := get(ctx, repo.db, &updated, q); err != nil {
		if database.IsUniqueViolation(err, database.UniqueUserEmail) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, notFound(err, user.ErrNotFound)
	}
	return updated, nil
}

func (repo *userRepository) DeleteUser(ctx context.Context, id string) error {
	n, err := exec(ctx, repo.db, psql.Delete("users").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}
