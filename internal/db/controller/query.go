package controller

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize is used when a request does not name a page size.
	DefaultPageSize = 10
	// MaxPageSize clamps the page size upper bound.
	MaxPageSize = 100
)

// PageRequest describes the requested slice of a list.
type PageRequest struct {
	Page     int
	PageSize int
	Search   string
}

// Page describes the slice of a list that was returned.
type Page struct {
	Number     int
	Size       int
	TotalItems int64
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
	Search     string
}

// Normalize clamps page and page size, using pageSize when none was requested.
func (r PageRequest) Normalize(pageSize int) PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}

	if r.PageSize < 1 || r.PageSize > MaxPageSize {
		r.PageSize = pageSize
	}

	r.Search = strings.TrimSpace(r.Search)

	return r
}

// Paginate counts the rows of base and loads the requested page into dest with the given preloads.
// A page beyond the last page is clamped to the last page.
func Paginate(base *gorm.DB, req PageRequest, order string, dest any, preloads ...string) (Page, error) {
	var (
		total int64
		query = base.Session(&gorm.Session{})
	)

	if err := query.Count(&total).Error; err != nil {
		return Page{}, err
	}

	totalPages := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	if req.Page > totalPages {
		req.Page = totalPages
	}

	find := query.Order(order).Limit(req.PageSize).Offset((req.Page - 1) * req.PageSize)
	for _, p := range preloads {
		find = find.Preload(p)
	}

	if err := find.Find(dest).Error; err != nil {
		return Page{}, err
	}

	return Page{
		Number:     req.Page,
		Size:       req.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
		HasPrev:    req.Page > 1,
		HasNext:    req.Page < totalPages,
		PrevPage:   req.Page - 1,
		NextPage:   req.Page + 1,
		Search:     req.Search,
	}, nil
}

// Like returns a case-insensitive LIKE pattern for search.
func Like(search string) string {
	return "%" + strings.ToLower(search) + "%"
}

// Unique returns a *FieldError with ErrTaken when another row of model already uses value in column.
// column must be a trusted identifier.
func Unique(tx *gorm.DB, model any, column, value string, exceptID uint) error {
	var count int64

	query := tx.Model(model).Where(column+" = ?", value)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}

	if err := query.Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return NewFieldError(column, ErrTaken)
	}

	return nil
}

// Exist returns a *FieldError with ErrUnknownReference on field when not every id is a row of model.
func Exist(tx *gorm.DB, model any, field string, ids []uint) error {
	unique := UniqueIDs(ids)
	if len(unique) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("id IN ?", unique).Count(&count).Error; err != nil {
		return err
	}

	if int(count) != len(unique) {
		return NewFieldError(field, ErrUnknownReference)
	}

	return nil
}

// UniqueIDs returns ids without zero values and duplicates, keeping the first occurrence order.
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if id == 0 {
			continue
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

// NotFound maps gorm.ErrRecordNotFound to ErrNotFound.
func NotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	return err
}
