package repositories

import (
	"context"
	"strings"

	"shopadmin/internal/domain/models"
	"shopadmin/internal/query"

	"gorm.io/gorm"
)

type CategoryFilter struct {
	Name string
}

type CategoryRepository struct {
	DB *gorm.DB
}

func (r CategoryRepository) List(ctx context.Context, f CategoryFilter, order query.Directive, page query.PageRequest) (query.Page[models.Category], error) {
	cols, err := orderColumns(CategoryOrdering, order)
	if err != nil {
		return query.Page[models.Category]{}, err
	}
	p, err := FetchPage[models.Category](ctx, r.DB, ListSpec{
		Filter: func(q *gorm.DB) *gorm.DB {
			if s := strings.TrimSpace(f.Name); s != "" {
				q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", likePattern(s))
			}
			return q
		},
		Order: cols,
		Page:  page,
	})
	return p, translate(err, "category")
}

func (r CategoryRepository) GetByID(ctx context.Context, id uint) (models.Category, error) {
	var c models.Category
	err := r.DB.WithContext(ctx).First(&c, id).Error
	return c, translate(err, "category")
}

func (r CategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, translate(err, "category")
}

func (r CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return translate(r.DB.WithContext(ctx).Create(c).Error, "category")
}

func (r CategoryRepository) Save(ctx context.Context, c *models.Category) error {
	return translate(r.DB.WithContext(ctx).Save(c).Error, "category")
}

func (r CategoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return translate(res.Error, "category")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "category")
	}
	return nil
}
