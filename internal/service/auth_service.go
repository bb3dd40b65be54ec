package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Servicio que consulta al microservicio externo de autenticación.
type AuthService struct {
	authURL string
	client  *resty.Client
}

type AuthUser struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	Login       string   `json:"login"`
	Enabled     bool     `json:"enabled"`
}

// Crea el servicio de autenticación contra la URL configurada.
func NewAuthService(authURL string) *AuthService {
	return &AuthService{
		authURL: authURL,
		client: resty.New().
			SetTimeout(5 * time.Second).
			SetRetryCount(0),
	}
}

// Verifica si el usuario tiene permiso de administrador.
func (a *AuthService) IsAdmin(user *AuthUser) bool {
	for _, perm := range user.Permissions {
		if perm == "admin" {
			return true
		}
	}
	return false
}

// Valida el token consultando a /users/current del microservicio de auth.
func (a *AuthService) ValidateToken(token string) (*AuthUser, error) {
	var user AuthUser
	resp, err := a.client.R().
		SetHeader("Authorization", "Bearer "+token).
		SetResult(&user).
		Get(fmt.Sprintf("%s/users/current", a.authURL))
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, errors.New("invalid token")
	}

	if !user.Enabled {
		return nil, errors.New("user disabled")
	}

	return &user, nil
}
