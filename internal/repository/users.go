package repository

import (
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

func (r *Repository) CreateUser(user *domain.User) error {
	query := `
		INSERT INTO users (username, password_hash, full_name, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.FullName, user.Email, user.Role,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.Version)
}

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, is_active, created_at, version
		FROM users WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	user := &domain.User{ID: id}
	err := r.dbpool.QueryRowContext(ctx, query, id).Scan(
		&user.Username, &user.PasswordHash, &user.FullName, &user.Email,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.Version,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByUsername(username string) (*domain.User, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, is_active, created_at, version
		FROM users WHERE username = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	user := &domain.User{Username: username}
	err := r.dbpool.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.PasswordHash, &user.FullName, &user.Email,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.Version,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUser は楽観ロック付きで更新する。version が一致しない場合は sql.ErrNoRows を返す
func (r *Repository) UpdateUser(user *domain.User) error {
	query := `
		UPDATE users
		SET
			password_hash = $1,
			email = $2,
			role = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING username, full_name, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query,
		user.PasswordHash, user.Email, user.Role, user.IsActive, user.ID, user.Version,
	).Scan(&user.Username, &user.FullName, &user.CreatedAt, &user.Version)
}
