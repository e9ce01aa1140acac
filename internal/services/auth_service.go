package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intdb "seatbooking/internal/db"
	"seatbooking/internal/domain"
	"seatbooking/internal/domain/models"
	"seatbooking/internal/repositories"
	"seatbooking/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 8 * time.Hour

var errBadCredentials = domain.UnauthorizedError{Msg: "invalid username or password"}

// AuthService checks admin credentials and issues HS256 tokens carrying
// admin_id and role.
type AuthService struct {
	DB     *sql.DB
	Admins repositories.AdminRepo
	Secret []byte
	Clock  clockwork.Clock

	LockTimeout time.Duration
	RequestID   string
}

type adminClaims struct {
	AdminID int64  `json:"admin_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

func (s AuthService) Login(ctx context.Context, username, password string) (string, models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", models.Admin{}, domain.ValidationError{Field: "credentials", Msg: "username and password are required"}
	}

	var admin models.Admin
	err := runRead(ctx, s.DB, s.LockTimeout, s.RequestID, "admin_login", func(ctx context.Context, q intdb.Queryer) error {
		a, err := s.Admins.GetActiveByUsername(ctx, q, username)
		admin = a
		return err
	})
	if err != nil {
		if domain.IsNotFound(err) {
			return "", models.Admin{}, errBadCredentials
		}
		return "", models.Admin{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", models.Admin{}, errBadCredentials
	}

	token, err := s.Issue(admin)
	if err != nil {
		return "", models.Admin{}, domain.InternalError{Msg: "issue token failed", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "admin_login", fmt.Sprintf("admin %d signed in", admin.ID))
	return token, admin, nil
}

func (s AuthService) Issue(admin models.Admin) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := clockOrReal(s.Clock).Now()
	claims := adminClaims{
		AdminID: admin.ID,
		Role:    admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// ParseToken verifies signature and expiry and returns the caller identity.
func (s AuthService) ParseToken(raw string) (domain.RequestContext, error) {
	if len(s.Secret) == 0 {
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "auth not configured"}
	}
	claims := &adminClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims,
		func(*jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(clockOrReal(s.Clock).Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "invalid token"}
	}
	if claims.AdminID <= 0 {
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "invalid token"}
	}
	return domain.RequestContext{AdminID: claims.AdminID, Role: claims.Role}, nil
}
