package auth

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leadforge/site/internal/config"
	"github.com/leadforge/site/internal/models"
	jwtpkg "github.com/leadforge/site/internal/pkg/jwt"
	"github.com/leadforge/site/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func userRows(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "username", "password", "role"}).
		AddRow("u-1", "editor", string(hash), "editor")
}

func TestLoginIssuesSessionToken(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE username = \\?").WillReturnRows(userRows(t, "correct horse"))
	mock.ExpectExec("INSERT INTO `user_sessions`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `users` SET").WillReturnResult(sqlmock.NewResult(0, 1))

	token, u, err := NewService(db).Login(context.Background(), &LoginDTO{Username: "editor", Password: "correct horse"}, "10.0.0.1", "test")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	claims, err := jwtpkg.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.NotEmpty(t, claims.SessionID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows(t, "correct horse"))

	_, _, err := NewService(db).Login(context.Background(), &LoginDTO{Username: "editor", Password: "battery staple"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownUserLooksTheSame(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := NewService(db).Login(context.Background(), &LoginDTO{Username: "ghost", Password: "x"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureAdmin(t *testing.T) {
	cfg := config.AdminBootstrapConfig{Username: "root", Password: "s3cret-pass"}

	t.Run("skips when an admin exists", func(t *testing.T) {
		db, mock := testutil.MockDB(t)
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		require.NoError(t, NewService(db).EnsureAdmin(context.Background(), cfg, zap.NewNop()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates the first admin", func(t *testing.T) {
		db, mock := testutil.MockDB(t)
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, NewService(db).EnsureAdmin(context.Background(), cfg, zap.NewNop()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no config is a no-op", func(t *testing.T) {
		db, mock := testutil.MockDB(t)
		require.NoError(t, NewService(db).EnsureAdmin(context.Background(), config.AdminBootstrapConfig{}, zap.NewNop()))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateUserValidatesRole(t *testing.T) {
	db, _ := testutil.MockDB(t)
	_, err := NewService(db).CreateUser(context.Background(), &CreateUserDTO{Username: "x", Password: "12345678", Role: models.Role("owner")})
	assert.ErrorIs(t, err, ErrInvalidRole)
}
