package scope

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageRequest is bound from the page and limit query parameters.
type PageRequest struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Normalize replaces missing or non-positive values with the defaults.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one slice of a result set. Total counts every row matching the
// query, not just the ones returned.
type Page[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Paginate counts the rows q matches, then fetches the requested slice in
// the given order. opts apply to the fetch only, so preloads do not run for
// the count.
func Paginate[T any](ctx context.Context, q *gorm.DB, req PageRequest, order string, opts ...Option) (Page[T], error) {
	req = req.Normalize()
	q = q.WithContext(ctx).Session(&gorm.Session{})

	var total int64
	if err := q.Model(new(T)).Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count: %w", err)
	}

	data := make([]T, 0, req.Limit)
	fetch := Apply(q, opts...)
	if order != "" {
		fetch = fetch.Order(order)
	}
	if err := fetch.Offset(req.Offset()).Limit(req.Limit).Find(&data).Error; err != nil {
		return Page[T]{}, fmt.Errorf("list: %w", err)
	}
	return Page[T]{Data: data, Total: total, Page: req.Page, Limit: req.Limit}, nil
}
