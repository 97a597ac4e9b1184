package services

import (
	"context"
	"log/slog"
	"strings"

	"shopadmin/internal/audit"
	"shopadmin/internal/auth"
	"shopadmin/internal/domain"
	"shopadmin/internal/domain/models"
	"shopadmin/internal/query"
	"shopadmin/internal/repositories"
	"shopadmin/internal/utils"
)

type CreateUserInput struct {
	Name     string `json:"name" binding:"required,max=120"`
	Username string `json:"username" binding:"required,min=3,max=60,alphanum"`
	Email    string `json:"email" binding:"required,email,max=160"`
	Phone    string `json:"phone" binding:"omitempty,max=40"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
	Status   string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UpdateUserInput is a partial update; nil fields are left as they are.
type UpdateUserInput struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=120"`
	Username *string `json:"username" binding:"omitempty,min=3,max=60,alphanum"`
	Email    *string `json:"email" binding:"omitempty,email,max=160"`
	Phone    *string `json:"phone" binding:"omitempty,max=40"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin user"`
	Status   *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UserService struct {
	Users  repositories.UserRepository
	Hasher *auth.PasswordHasher
	Audit  *audit.Recorder
	Log    *slog.Logger
}

func (s UserService) List(ctx context.Context, f repositories.UserFilter, order query.Directive, page query.PageRequest) (query.Page[models.PublicUser], error) {
	p, err := s.Users.List(ctx, f, order, page)
	if err != nil {
		return query.Page[models.PublicUser]{}, err
	}
	return query.MapPage(p, func(u models.User) models.PublicUser { return u.ToPublic() }), nil
}

func (s UserService) Get(ctx context.Context, id uint) (models.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return u.ToPublic(), nil
}

func (s UserService) Create(ctx context.Context, rc domain.RequestContext, in CreateUserInput) (models.PublicUser, error) {
	u := models.User{
		Name:     utils.NormalizeSpace(in.Name),
		Username: utils.LowerTrim(in.Username),
		Email:    utils.LowerTrim(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     utils.FirstNonEmpty(utils.LowerTrim(in.Role), domain.RoleUser),
		Status:   utils.FirstNonEmpty(utils.LowerTrim(in.Status), domain.StatusActive),
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
	utils.LogEvent(s.Log, rc.RequestID, "user", "create", "username="+u.Username)
	s.Audit.Record(ctx, rc, audit.ActionCreate, "user", u.ID)
	return u.ToPublic(), nil
}

func (s UserService) Update(ctx context.Context, rc domain.RequestContext, id uint, in UpdateUserInput) (models.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}

	if in.Name != nil {
		u.Name = utils.NormalizeSpace(*in.Name)
	}
	if in.Username != nil {
		u.Username = utils.LowerTrim(*in.Username)
	}
	if in.Email != nil {
		u.Email = utils.LowerTrim(*in.Email)
	}
	if phone := utils.TrimPtr(in.Phone); phone != nil {
		u.Phone = *phone
	}
	if in.Role != nil {
		u.Role = utils.LowerTrim(*in.Role)
	}
	if in.Status != nil {
		u.Status = utils.LowerTrim(*in.Status)
	}
	if rc.UserID == u.ID && (u.Role != domain.RoleAdmin || u.Status != domain.StatusActive) {
		return models.PublicUser{}, domain.ConflictError{Resource: "user", Msg: "cannot demote or deactivate your own account"}
	}
	if in.Username != nil || in.Email != nil {
		if err := ensureUnique(ctx, s.Users, u.Username, u.Email, u.ID); err != nil {
			return models.PublicUser{}, err
		}
	}
	if in.Password != nil {
		hash, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			return models.PublicUser{}, domain.InternalError{Msg: "password hashing failed", Err: err}
		}
		u.PasswordHash = hash
	}

	if err := s.Users.Save(ctx, &u); err != nil {
		return models.PublicUser{}, err
	}
	utils.LogEvent(s.Log, rc.RequestID, "user", "update", "username="+u.Username)
	s.Audit.Record(ctx, rc, audit.ActionUpdate, "user", u.ID)
	return u.ToPublic(), nil
}

func (s UserService) Delete(ctx context.Context, rc domain.RequestContext, id uint) error {
	if rc.UserID == id {
		return domain.ConflictError{Resource: "user", Msg: "cannot delete your own account"}
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.Log, rc.RequestID, "user", "delete", idField(id))
	s.Audit.Record(ctx, rc, audit.ActionDelete, "user", id)
	return nil
}
