package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"shopadmin/internal/audit"
	"shopadmin/internal/cache"
	"shopadmin/internal/domain"
	"shopadmin/internal/domain/models"
	"shopadmin/internal/query"
	"shopadmin/internal/repositories"
	"shopadmin/internal/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

type ProductInput struct {
	Title       string          `json:"title" binding:"required,notblank,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price" binding:"gte=0"`
	Stock       int             `json:"stock" binding:"gte=0"`
	CategoryID  uint            `json:"categoryId" binding:"required"`
}

type UpdateProductInput struct {
	Title       *string          `json:"title" binding:"omitempty,notblank,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty,gte=0"`
	Stock       *int             `json:"stock" binding:"omitempty,gte=0"`
	CategoryID  *uint            `json:"categoryId" binding:"omitempty,min=1"`
}

// ProductService reads single products through the cache and keeps it fresh on writes.
type ProductService struct {
	Products   repositories.ProductRepository
	Categories repositories.CategoryRepository
	Cache      cache.Store
	Flight     *singleflight.Group
	Audit      *audit.Recorder
	Log        *slog.Logger
}

func productKey(id uint) string {
	return "product:" + strconv.FormatUint(uint64(id), 10)
}

func (s ProductService) List(ctx context.Context, f repositories.ProductFilter, order query.Directive, page query.PageRequest) (query.Page[models.Product], error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return query.Page[models.Product]{}, domain.ValidationError{Field: "minPrice", Msg: "must not exceed maxPrice"}
	}
	return s.Products.List(ctx, f, order, page)
}

// Get is cache-aside: cache errors fall through to the database.
func (s ProductService) Get(ctx context.Context, id uint) (models.Product, error) {
	key := productKey(id)
	var cached models.Product
	found, err := s.cache().Get(ctx, key, &cached)
	if err != nil {
		s.Log.Warn("product cache read failed", "error", err, "product_id", id)
	}
	if found {
		return cached, nil
	}

	load := func() (any, error) { return s.Products.GetByID(ctx, id) }
	var v any
	if s.Flight != nil {
		v, err, _ = s.Flight.Do(key, load)
	} else {
		v, err = load()
	}
	if err != nil {
		return models.Product{}, err
	}
	p := v.(models.Product)

	if err := s.cache().Set(ctx, key, p); err != nil {
		s.Log.Warn("product cache write failed", "error", err, "product_id", id)
	}
	return p, nil
}

func (s ProductService) Create(ctx context.Context, rc domain.RequestContext, in ProductInput) (models.Product, error) {
	p := models.Product{
		Title:       utils.NormalizeSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
	}
	if err := s.validate(ctx, p); err != nil {
		return models.Product{}, err
	}
	if err := s.Products.Create(ctx, &p); err != nil {
		return models.Product{}, err
	}
	utils.LogEvent(s.Log, rc.RequestID, "product", "create", idField(p.ID))
	s.Audit.Record(ctx, rc, audit.ActionCreate, "product", p.ID)
	return s.Products.GetByID(ctx, p.ID)
}

func (s ProductService) Update(ctx context.Context, rc domain.RequestContext, id uint, in UpdateProductInput) (models.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if in.Title != nil {
		p.Title = utils.NormalizeSpace(*in.Title)
	}
	if d := utils.TrimPtr(in.Description); d != nil {
		p.Description = *d
	}
	if in.Price != nil {
		p.Price = in.Price.Round(2)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
		p.Category = nil
	}
	if err := s.validate(ctx, p); err != nil {
		return models.Product{}, err
	}
	if err := s.Products.Save(ctx, &p); err != nil {
		return models.Product{}, err
	}
	s.invalidate(ctx, id)
	utils.LogEvent(s.Log, rc.RequestID, "product", "update", idField(id))
	s.Audit.Record(ctx, rc, audit.ActionUpdate, "product", id)
	return s.Products.GetByID(ctx, id)
}

func (s ProductService) Delete(ctx context.Context, rc domain.RequestContext, id uint) error {
	if err := s.Products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	utils.LogEvent(s.Log, rc.RequestID, "product", "delete", idField(id))
	s.Audit.Record(ctx, rc, audit.ActionDelete, "product", id)
	return nil
}

// validate checks what binding rules cannot: the category must exist.
func (s ProductService) validate(ctx context.Context, p models.Product) error {
	ok, err := s.Categories.Exists(ctx, p.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ValidationError{Field: "categoryId", Msg: "unknown category " + strconv.FormatUint(uint64(p.CategoryID), 10)}
	}
	return nil
}

func (s ProductService) invalidate(ctx context.Context, id uint) {
	if err := s.cache().Delete(ctx, productKey(id)); err != nil {
		s.Log.Warn("product cache invalidation failed", "error", err, "product_id", id)
	}
}

func (s ProductService) cache() cache.Store {
	if s.Cache == nil {
		return cache.Noop{}
	}
	return s.Cache
}
