package services

import (
	"context"
	"log/slog"
	"strings"

	"shopadmin/internal/audit"
	"shopadmin/internal/auth"
	"shopadmin/internal/domain"
	"shopadmin/internal/domain/models"
	"shopadmin/internal/repositories"
	"shopadmin/internal/utils"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=120"`
	Username string `json:"username" binding:"required,min=3,max=60,alphanum"`
	Email    string `json:"email" binding:"required,email,max=160"`
	Phone    string `json:"phone" binding:"omitempty,max=40"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresIn int64             `json:"expiresIn"`
	User      models.PublicUser `json:"user"`
}

// AuthService handles self-registration and credential login.
type AuthService struct {
	Users  repositories.UserRepository
	Hasher *auth.PasswordHasher
	Tokens *auth.TokenManager
	Audit  *audit.Recorder
	Log    *slog.Logger
}

// Register creates an active account with the user role.
func (s AuthService) Register(ctx context.Context, rc domain.RequestContext, in RegisterInput) (models.PublicUser, error) {
	u := models.User{
		Name:     utils.NormalizeSpace(in.Name),
		Username: utils.LowerTrim(in.Username),
		Email:    utils.LowerTrim(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     domain.RoleUser,
		Status:   domain.StatusActive,
	}
	if err := ensureUnique(ctx, s.Users, u.Username, u.Email, 0); err != nil {
		return models.PublicUser{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return models.PublicUser{}, domain.InternalError{Msg: "password hashing failed", Err: err}
	}
	u.PasswordHash = hash

	if err := s.Users.Create(ctx, &u); err != nil {
		return models.PublicUser{}, err
	}

	utils.LogEvent(s.Log, rc.RequestID, "auth", "register", idField(u.ID))
	if rc.UserID == 0 {
		rc.UserID = u.ID
	}
	s.Audit.Record(ctx, rc, audit.ActionCreate, "user", u.ID)
	return u.ToPublic(), nil
}

// Login accepts either the email or the username.
func (s AuthService) Login(ctx context.Context, rc domain.RequestContext, in LoginInput) (LoginResult, error) {
	invalid := domain.UnauthorizedError{Msg: "invalid credentials"}

	u, err := s.Users.GetByLogin(ctx, in.Login)
	if err != nil {
		if domain.IsNotFound(err) {
			return LoginResult{}, invalid
		}
		return LoginResult{}, err
	}
	if !s.Hasher.Verify(in.Password, u.PasswordHash) {
		utils.LogEvent(s.Log, rc.RequestID, "auth", "login_failed", idField(u.ID))
		return LoginResult{}, invalid
	}
	if u.Status != domain.StatusActive {
		return LoginResult{}, domain.ForbiddenError{Msg: "account is inactive"}
	}

	token, ttl, err := s.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return LoginResult{}, domain.InternalError{Msg: "token signing failed", Err: err}
	}
	utils.LogEvent(s.Log, rc.RequestID, "auth", "login", idField(u.ID))
	return LoginResult{Token: token, ExpiresIn: ttl, User: u.ToPublic()}, nil
}

func ensureUnique(ctx context.Context, users repositories.UserRepository, username, email string, exceptID uint) error {
	taken, err := users.Taken(ctx, username, email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ConflictError{Resource: "user", Msg: "username or email already in use"}
	}
	return nil
}
