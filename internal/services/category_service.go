package services

import (
	"context"
	"log/slog"
	"strings"

	"shopadmin/internal/audit"
	"shopadmin/internal/domain"
	"shopadmin/internal/domain/models"
	"shopadmin/internal/query"
	"shopadmin/internal/repositories"
	"shopadmin/internal/utils"
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type CategoryService struct {
	Categories repositories.CategoryRepository
	Products   repositories.ProductRepository
	Audit      *audit.Recorder
	Log        *slog.Logger
}

func (s CategoryService) List(ctx context.Context, f repositories.CategoryFilter, order query.Directive, page query.PageRequest) (query.Page[models.Category], error) {
	return s.Categories.List(ctx, f, order, page)
}

func (s CategoryService) Get(ctx context.Context, id uint) (models.Category, error) {
	return s.Categories.GetByID(ctx, id)
}

func (s CategoryService) Create(ctx context.Context, rc domain.RequestContext, in CategoryInput) (models.Category, error) {
	c := models.Category{
		Name:        utils.NormalizeSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.Categories.Create(ctx, &c); err != nil {
		return models.Category{}, err
	}
	utils.LogEvent(s.Log, rc.RequestID, "category", "create", "name="+c.Name)
	s.Audit.Record(ctx, rc, audit.ActionCreate, "category", c.ID)
	return c, nil
}

func (s CategoryService) Update(ctx context.Context, rc domain.RequestContext, id uint, in UpdateCategoryInput) (models.Category, error) {
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	if in.Name != nil {
		c.Name = utils.NormalizeSpace(*in.Name)
	}
	if d := utils.TrimPtr(in.Description); d != nil {
		c.Description = *d
	}
	if err := s.Categories.Save(ctx, &c); err != nil {
		return models.Category{}, err
	}
	utils.LogEvent(s.Log, rc.RequestID, "category", "update", "name="+c.Name)
	s.Audit.Record(ctx, rc, audit.ActionUpdate, "category", c.ID)
	return c, nil
}

// Delete refuses while products still reference the category.
func (s CategoryService) Delete(ctx context.Context, rc domain.RequestContext, id uint) error {
	if _, err := s.Categories.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.Products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ConflictError{Resource: "category", Msg: "still has products"}
	}
	if err := s.Categories.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.Log, rc.RequestID, "category", "delete", idField(id))
	s.Audit.Record(ctx, rc, audit.ActionDelete, "category", id)
	return nil
}
