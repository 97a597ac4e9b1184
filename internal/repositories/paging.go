package repositories

import (
	"context"

	"shopadmin/internal/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListSpec describes one listing call: filters first, then ordering, then the page slice.
type ListSpec struct {
	Filter  func(*gorm.DB) *gorm.DB
	Order   []query.OrderColumn
	Page    query.PageRequest
	Preload []string
}

// FetchPage counts and slices inside one transaction so both reads see the same snapshot.
func FetchPage[T any](ctx context.Context, db *gorm.DB, spec ListSpec) (query.Page[T], error) {
	var (
		items []T
		total int64
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := func() *gorm.DB {
			q := tx.Model(new(T))
			if spec.Filter != nil {
				q = spec.Filter(q)
			}
			return q
		}

		if err := base().Count(&total).Error; err != nil {
			return err
		}
		if spec.Page.PastEnd(total) {
			return nil
		}

		q := base()
		for _, c := range spec.Order {
			q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: c.Column}, Desc: c.Desc})
		}
		for _, p := range spec.Preload {
			q = q.Preload(p)
		}
		return q.Offset(spec.Page.Offset()).Limit(spec.Page.Size).Find(&items).Error
	})
	if err != nil {
		return query.Page[T]{}, err
	}
	return query.NewPage(items, total, spec.Page), nil
}

// orderColumns resolves d against reg and appends an id tie-breaker so paging is deterministic.
func orderColumns[T any](reg *query.Registry[T], d query.Directive) ([]query.OrderColumn, error) {
	cols, err := reg.Columns(d)
	if err != nil {
		return nil, err
	}
	if !d.Names("id") {
		cols = append(cols, query.OrderColumn{Column: "id"})
	}
	return cols, nil
}
