package repositories

import (
	"context"
	"strings"

	"shopadmin/internal/domain/models"
	"shopadmin/internal/query"

	"gorm.io/gorm"
)

type UserFilter struct {
	Username string
	Email    string
	Role     string
	Status   string
}

type UserRepository struct {
	DB *gorm.DB
}

func (r UserRepository) List(ctx context.Context, f UserFilter, order query.Directive, page query.PageRequest) (query.Page[models.User], error) {
	cols, err := orderColumns(UserOrdering, order)
	if err != nil {
		return query.Page[models.User]{}, err
	}
	p, err := FetchPage[models.User](ctx, r.DB, ListSpec{
		Filter: func(q *gorm.DB) *gorm.DB {
			if s := strings.TrimSpace(f.Username); s != "" {
				q = q.Where("LOWER(username) LIKE ? ESCAPE '!'", likePattern(s))
			}
			if s := strings.TrimSpace(f.Email); s != "" {
				q = q.Where("LOWER(email) LIKE ? ESCAPE '!'", likePattern(s))
			}
			if s := strings.TrimSpace(f.Role); s != "" {
				q = q.Where("role = ?", strings.ToLower(s))
			}
			if s := strings.TrimSpace(f.Status); s != "" {
				q = q.Where("status = ?", strings.ToLower(s))
			}
			return q
		},
		Order: cols,
		Page:  page,
	})
	return p, translate(err, "user")
}

func (r UserRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).First(&u, id).Error
	return u, translate(err, "user")
}

// GetByLogin finds a user by email or username.
func (r UserRepository) GetByLogin(ctx context.Context, login string) (models.User, error) {
	var u models.User
	login = strings.ToLower(strings.TrimSpace(login))
	err := r.DB.WithContext(ctx).
		Where("email = ? OR username = ?", login, login).
		First(&u).Error
	return u, translate(err, "user")
}

// Taken reports whether username or email already belong to a user other than exceptID.
func (r UserRepository) Taken(ctx context.Context, username, email string, exceptID uint) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, translate(err, "user")
	}
	return n > 0, nil
}

func (r UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(u).Error, "user")
}

func (r UserRepository) Save(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Save(u).Error, "user")
}

func (r UserRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user")
	}
	return nil
}
