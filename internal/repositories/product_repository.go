package repositories

import (
	"context"
	"strings"

	"shopadmin/internal/domain/models"
	"shopadmin/internal/query"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductFilter struct {
	Title      string
	CategoryID uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

type ProductRepository struct {
	DB *gorm.DB
}

func (r ProductRepository) List(ctx context.Context, f ProductFilter, order query.Directive, page query.PageRequest) (query.Page[models.Product], error) {
	cols, err := orderColumns(ProductOrdering, order)
	if err != nil {
		return query.Page[models.Product]{}, err
	}
	p, err := FetchPage[models.Product](ctx, r.DB, ListSpec{
		Filter: func(q *gorm.DB) *gorm.DB {
			if s := strings.TrimSpace(f.Title); s != "" {
				q = q.Where("LOWER(title) LIKE ? ESCAPE '!'", likePattern(s))
			}
			if f.CategoryID != 0 {
				q = q.Where("category_id = ?", f.CategoryID)
			}
			if f.MinPrice != nil {
				q = q.Where("price >= ?", *f.MinPrice)
			}
			if f.MaxPrice != nil {
				q = q.Where("price <= ?", *f.MaxPrice)
			}
			return q
		},
		Order: cols,
		Page:  page,
	})
	return p, translate(err, "product")
}

func (r ProductRepository) GetByID(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.DB.WithContext(ctx).Preload("Category").First(&p, id).Error
	return p, translate(err, "product")
}

func (r ProductRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, translate(err, "product")
}

func (r ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Omit("Category").Create(p).Error, "product")
}

func (r ProductRepository) Save(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Omit("Category").Save(p).Error, "product")
}

func (r ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product")
	}
	return nil
}
