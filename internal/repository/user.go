package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowmart/beauty-shop-api/internal/model"
)

type UserFilter struct {
	Role   string
	Search string
	Status string // all | active | blocked
	Limit  int
	Offset int
}

type UserStats struct {
	Total   int
	Active  int
	Blocked int
	Super   int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filter UserFilter) ([]model.User, int, error)
	Stats(ctx context.Context, role string) (*UserStats, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdateAdmin(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	AddStatusNote(ctx context.Context, note *model.StatusNote) error
	SetLastLogin(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error
}

const userFields = `id, email, password_hash, first_name, last_name, role, profile_pic,
	is_blocked, is_super_admin, permissions, created_by, last_login,
	is_deleted, deleted_at, deleted_by, created_at, updated_at`

type pgUserRepo struct{ pool *pgxpool.Pool }

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepo{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Role, &u.ProfilePic,
		&u.IsBlocked, &u.IsSuperAdmin, &u.Permissions, &u.CreatedBy, &u.LastLogin,
		&u.IsDeleted, &u.DeletedAt, &u.DeletedBy, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *pgUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	if user.Permissions == nil {
		user.Permissions = []string{}
	}
	query := `INSERT INTO users
		(id, email, password_hash, first_name, last_name, role, profile_pic,
		 is_super_admin, permissions, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.Password, user.FirstName, user.LastName, user.Role,
		user.ProfilePic, user.IsSuperAdmin, user.Permissions, user.CreatedBy,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userFields+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, date, action, reason, performed_by
		 FROM user_status_notes WHERE user_id = $1 ORDER BY date`, id)
	if err != nil {
		return nil, fmt.Errorf("get status notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n model.StatusNote
		if err := rows.Scan(&n.ID, &n.UserID, &n.Date, &n.Action, &n.Reason, &n.PerformedBy); err != nil {
			return nil, fmt.Errorf("scan status note: %w", err)
		}
		user.StatusNotes = append(user.StatusNotes, n)
	}
	return user, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userFields+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *pgUserRepo) List(ctx context.Context, filter UserFilter) ([]model.User, int, error) {
	conds := []string{"NOT is_deleted"}
	args := []any{}

	if filter.Role != "" {
		args = append(args, filter.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(first_name ILIKE '%%' || $%d || '%%' OR last_name ILIKE '%%' || $%d || '%%' OR email ILIKE '%%' || $%d || '%%')",
			n, n, n))
	}
	switch filter.Status {
	case "active":
		conds = append(conds, "NOT is_blocked")
	case "blocked":
		conds = append(conds, "is_blocked")
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userFields, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, total, nil
}

func (r *pgUserRepo) Stats(ctx context.Context, role string) (*UserStats, error) {
	stats := &UserStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
				COUNT(*) FILTER (WHERE NOT is_blocked),
				COUNT(*) FILTER (WHERE is_blocked),
				COUNT(*) FILTER (WHERE is_super_admin)
		 FROM users WHERE role = $1 AND NOT is_deleted`, role,
	).Scan(&stats.Total, &stats.Active, &stats.Blocked, &stats.Super)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return stats, nil
}

func (r *pgUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET first_name=$2, last_name=$3, email=$4, profile_pic=$5, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		user.ID, user.FirstName, user.LastName, user.Email, user.ProfilePic,
	).Scan(&user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (r *pgUserRepo) UpdateAdmin(ctx context.Context, user *model.User) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET first_name=$2, last_name=$3, email=$4,
			permissions=$5, is_super_admin=$6, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		user.ID, user.FirstName, user.LastName, user.Email, user.Permissions, user.IsSuperAdmin,
	).Scan(&user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("update admin: %w", err)
	}
	return nil
}

func (r *pgUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1`, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *pgUserRepo) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET is_blocked=$2, updated_at=NOW() WHERE id=$1`, id, blocked)
	if err != nil {
		return fmt.Errorf("set blocked: %w", err)
	}
	return nil
}

func (r *pgUserRepo) AddStatusNote(ctx context.Context, note *model.StatusNote) error {
	note.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_status_notes (id, user_id, date, action, reason, performed_by)
		 VALUES ($1, $2, NOW(), $3, $4, $5) RETURNING date`,
		note.ID, note.UserID, note.Action, note.Reason, note.PerformedBy,
	).Scan(&note.Date)
	if err != nil {
		return fmt.Errorf("add status note: %w", err)
	}
	return nil
}

func (r *pgUserRepo) SetLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login=NOW() WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("set last login: %w", err)
	}
	return nil
}

func (r *pgUserRepo) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE users SET is_deleted=TRUE, deleted_at=NOW(), deleted_by=$2, updated_at=NOW()
		 WHERE id=$1 AND NOT is_deleted`, id, deletedBy)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
