package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase struct {
	admins   repo.AdminRepository
	sessions repo.SessionRepository
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthUsecase(admins repo.AdminRepository, sessions repo.SessionRepository, ttl time.Duration) *AuthUsecase {
	return &AuthUsecase{admins: admins, sessions: sessions, ttl: ttl, now: time.Now}
}

type AdminOutput struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  model.AdminRole `json:"role"`
}

type LoginOutput struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Admin     AdminOutput `json:"admin"`
}

// Login はメール＋パスワードで不透明なセッショントークンを発行する。
func (u *AuthUsecase) Login(ctx context.Context, email string, password string) (LoginOutput, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	admin, err := u.admins.FindByEmail(ctx, email)
	if err == repo.ErrNotFound {
		//存在しないメールとパスワード不一致は同じ応答にする
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !admin.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusForbidden, "account disabled")
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := u.now()
	session := model.AdminSession{
		Token:     uuid.NewString(),
		AdminID:   admin.ID,
		ExpiresAt: now.Add(u.ttl),
		CreatedAt: now,
	}
	if err := u.sessions.Create(ctx, &session); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return LoginOutput{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Admin: AdminOutput{
			ID:    admin.ID,
			Name:  admin.Name,
			Email: admin.Email,
			Role:  admin.Role,
		},
	}, nil
}

// Logout はセッションを破棄する。既に無いトークンでもエラーにしない。
func (u *AuthUsecase) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid token")
	}
	if err := u.sessions.Delete(ctx, token); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
