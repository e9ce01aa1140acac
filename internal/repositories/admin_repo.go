package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intdb "seatbooking/internal/db"
	"seatbooking/internal/domain"
	"seatbooking/internal/domain/models"
)

type AdminRepo struct{}

func (r AdminRepo) GetActiveByUsername(ctx context.Context, q intdb.Queryer, username string) (models.Admin, error) {
	var a models.Admin
	err := q.QueryRowContext(ctx, `
		SELECT admin_id, full_name, username, password_hash, role
		FROM admins
		WHERE username=? AND active=1
		LIMIT 1`, strings.TrimSpace(username),
	).Scan(&a.ID, &a.FullName, &a.Username, &a.PasswordHash, &a.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Admin{}, domain.NotFoundError{Resource: "admin", Err: err}
		}
		return models.Admin{}, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}
