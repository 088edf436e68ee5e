package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/basar-api/internal/application/auth"
	"github.com/jhoicas/basar-api/internal/application/dto"
	"github.com/jhoicas/basar-api/internal/domain"
	pkgjwt "github.com/jhoicas/basar-api/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("geheim"), bcrypt.MinCost)
	require.NoError(t, err)
	return auth.NewAuthUseCase(
		auth.AdminConfig{Username: "basar", PasswordHash: string(hash)},
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "basar-api-test"},
	)
}

func TestLogin_CredencialesCorrectas(t *testing.T) {
	uc := newAuth(t)

	out, err := uc.Login(dto.LoginRequest{Username: "basar", Password: "geheim"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, out.Role)

	subject, role, err := pkgjwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "basar", subject)
	assert.Equal(t, auth.RoleAdmin, role)
}

func TestLogin_CredencialesIncorrectas(t *testing.T) {
	uc := newAuth(t)

	_, err := uc.Login(dto.LoginRequest{Username: "basar", Password: "falsch"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(dto.LoginRequest{Username: "otro", Password: "geheim"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_SinAdminConfigurado(t *testing.T) {
	uc := auth.NewAuthUseCase(auth.AdminConfig{}, auth.JWTConfig{Secret: secret})

	_, err := uc.Login(dto.LoginRequest{Username: "", Password: ""})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestConfirmation(t *testing.T) {
	uc := newAuth(t)

	tok, _, err := uc.IssueConfirmation("basar", "reset-status", time.Minute)
	require.NoError(t, err)

	assert.NoError(t, uc.VerifyConfirmation(tok, "basar", "reset-status"))
	assert.True(t, errors.Is(uc.VerifyConfirmation(tok, "otro", "reset-status"), domain.ErrForbidden))
	assert.True(t, errors.Is(uc.VerifyConfirmation(tok, "basar", "delete"), domain.ErrForbidden))
	assert.True(t, errors.Is(uc.VerifyConfirmation("basura", "basar", "reset-status"), domain.ErrForbidden))
}
