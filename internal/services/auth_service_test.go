package services

import (
	"context"
	"testing"
	"time"

	"seatbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

func expectAdmin(t *testing.T, mock sqlmock.Sqlmock, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	mock.ExpectQuery(`FROM admins`).WithArgs("staff1").
		WillReturnRows(sqlmock.NewRows([]string{"admin_id", "full_name", "username", "password_hash", "role"}).
			AddRow(3, "Front Desk", "staff1", string(hash), "STAFF"))
}

func TestLoginIssuesToken(t *testing.T) {
	db, mock := newMock(t)
	clock := fakeClock()
	svc := AuthService{DB: db, Secret: []byte("test-secret"), Clock: clock}
	expectAdmin(t, mock, "s3cret")

	token, admin, err := svc.Login(context.Background(), " staff1 ", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if admin.ID != 3 || token == "" {
		t.Fatalf("unexpected login result %+v %q", admin, token)
	}

	rc, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if rc.AdminID != 3 || rc.Role != domain.RoleStaff {
		t.Fatalf("unexpected claims %+v", rc)
	}

	clock.Advance(tokenTTL + time.Minute)
	if _, err := svc.ParseToken(token); !domain.IsUnauthorized(err) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock := newMock(t)
	svc := AuthService{DB: db, Secret: []byte("test-secret"), Clock: fakeClock()}
	expectAdmin(t, mock, "s3cret")

	if _, _, err := svc.Login(context.Background(), "staff1", "nope"); !domain.IsUnauthorized(err) {
		t.Fatalf("expected UnauthorizedError, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	db, mock := newMock(t)
	svc := AuthService{DB: db, Secret: []byte("test-secret"), Clock: fakeClock()}
	mock.ExpectQuery(`FROM admins`).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"admin_id", "full_name", "username", "password_hash", "role"}))

	if _, _, err := svc.Login(context.Background(), "ghost", "x"); !domain.IsUnauthorized(err) {
		t.Fatalf("expected UnauthorizedError, got %v", err)
	}
}

func TestParseTokenRejectsOtherSecret(t *testing.T) {
	issuer := AuthService{Secret: []byte("one"), Clock: fakeClock()}
	verifier := AuthService{Secret: []byte("two"), Clock: fakeClock()}

	token, err := issuer.Issue(adminFixture())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := verifier.ParseToken(token); !domain.IsUnauthorized(err) {
		t.Fatalf("expected UnauthorizedError, got %v", err)
	}
}
