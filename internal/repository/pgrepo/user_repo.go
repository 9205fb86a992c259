package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/repository/repoargs"
	"github.com/fsdevblog/groph-orders/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, created_at, updated_at, username, encrypted_password, role`

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

// CreateUser создает юзера в базе данных. Уникальность юзернейма гарантирует ограничение в схеме:
// при конфликте вернется domain.ErrDuplicateKey, во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error) {
	row := u.conn.QueryRow(ctx,
		`INSERT INTO users (username, encrypted_password, role) VALUES ($1, $2, $3) RETURNING `+userColumns,
		user.Username, user.Password, string(user.Role),
	)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return dbUser, nil
}

// FindUserByUsername ищет юзера по юзернейму. Возвращает domain.ErrRecordNotFound если запись не найдена.
func (u *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username %s", username)
	}
	return dbUser, nil
}

// UpdateRole меняет роль юзера. Уже выданные токены продолжают нести старую роль до истечения срока.
func (u *UserRepository) UpdateRole(ctx context.Context, username string, role domain.Role) (*domain.User, error) {
	row := u.conn.QueryRow(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE username = $1 RETURNING `+userColumns,
		username, string(role),
	)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "updating role of user %s", username)
	}
	return dbUser, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Username,
		&user.EncryptedPassword,
		&role,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	user.Role = domain.Role(role)
	return &user, nil
}
