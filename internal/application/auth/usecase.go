package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/basar-api/internal/application/dto"
	"github.com/jhoicas/basar-api/internal/domain"
	"github.com/jhoicas/basar-api/pkg/jwt"
)

// RoleAdmin único rol con acceso al panel.
const RoleAdmin = "admin"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminConfig credenciales del administrador (hash bcrypt, nunca la contraseña en claro).
type AdminConfig struct {
	Username     string
	PasswordHash string
}

// AuthUseCase login del administrador y tokens de confirmación para acciones destructivas.
type AuthUseCase struct {
	admin  AdminConfig
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(admin AdminConfig, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{admin: admin, jwtCfg: jwtCfg}
}

// Login verifica usuario/password y genera el JWT de administrador.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if uc.admin.Username == "" || uc.admin.PasswordHash == "" {
		return nil, fmt.Errorf("%w: administrador no configurado", domain.ErrForbidden)
	}
	userOK := subtle.ConstantTimeCompare([]byte(in.Username), []byte(uc.admin.Username)) == 1
	// bcrypt siempre se evalúa para no revelar por tiempos si el usuario existe.
	passErr := bcrypt.CompareHashAndPassword([]byte(uc.admin.PasswordHash), []byte(in.Password))
	if !userOK || passErr != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.admin.Username, RoleAdmin, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Role: RoleAdmin}, nil
}

// IssueConfirmation primer paso de una acción destructiva: token corto atado a quien la pide.
func (uc *AuthUseCase) IssueConfirmation(subject, purpose string, ttl time.Duration) (string, time.Time, error) {
	return jwt.GenerateConfirmation(uc.jwtCfg.Secret, subject, purpose, uc.jwtCfg.Issuer, ttl)
}

// VerifyConfirmation segundo paso: el token debe ser válido, del mismo propósito y del mismo admin.
func (uc *AuthUseCase) VerifyConfirmation(token, subject, purpose string) error {
	owner, err := jwt.ParseConfirmation(uc.jwtCfg.Secret, token, purpose)
	if err != nil {
		return fmt.Errorf("%w: confirmación inválida o expirada", domain.ErrForbidden)
	}
	if subtle.ConstantTimeCompare([]byte(owner), []byte(subject)) != 1 {
		return fmt.Errorf("%w: confirmación de otro usuario", domain.ErrForbidden)
	}
	return nil
}
