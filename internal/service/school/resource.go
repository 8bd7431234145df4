package school

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/lib/envelope"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListQuery holds the optional list parameters every endpoint accepts.
// A zero SchoolYearID means "all years".
type ListQuery struct {
	SchoolYearID int
	Page         int
	PerPage      int
	Search       string
	Filters      map[string]string
}

func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.SchoolYearID > 0 {
		v.Set("school_year_id", strconv.Itoa(q.SchoolYearID))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for key, value := range q.Filters {
		if value != "" {
			v.Set(key, value)
		}
	}
	return v
}

// Page is one normalized list answer. Meta is nil for unpaginated endpoints.
type Page[T any] struct {
	Items []T
	Meta  *envelope.Meta
}

// Pagination converts Meta, deriving a single page when the endpoint is not
// paginated.
func (p Page[T]) Pagination(perPage int) entity.Pagination {
	if p.Meta == nil {
		return entity.NewPagination(1, len(p.Items), max(perPage, len(p.Items)))
	}
	pg := entity.NewPagination(p.Meta.Page, p.Meta.Total, p.Meta.PerPage)
	if p.Meta.LastPage > 0 {
		pg.TotalPages = p.Meta.LastPage
	}
	return pg
}

// Resource is the accessor of one REST collection.
type Resource[T any] struct {
	s    *Service
	path string
}

func NewResource[T any](s *Service, path string) Resource[T] {
	return Resource[T]{s: s, path: path}
}

func (r Resource[T]) Path() string {
	return r.path
}

func (r Resource[T]) List(ctx context.Context, q ListQuery) (Page[T], error) {
	env, err := r.s.call(ctx, http.MethodGet, r.path, q.Values(), nil)
	if err != nil {
		return Page[T]{}, err
	}
	res := envelope.NormalizeData(env.Data)
	items, err := envelope.Decode[T](res)
	if err != nil {
		return Page[T]{}, fmt.Errorf("%s: %w", r.path, err)
	}
	return Page[T]{Items: items, Meta: res.Meta}, nil
}

func (r Resource[T]) Get(ctx context.Context, id int) (T, error) {
	env, err := r.s.call(ctx, http.MethodGet, r.itemPath(id), nil, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.single(env)
}

func (r Resource[T]) Create(ctx context.Context, payload interface{}) (T, error) {
	env, err := r.s.call(ctx, http.MethodPost, r.path, nil, payload)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.single(env)
}

func (r Resource[T]) Update(ctx context.Context, id int, payload interface{}) (T, error) {
	env, err := r.s.call(ctx, http.MethodPut, r.itemPath(id), nil, payload)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.single(env)
}

func (r Resource[T]) Delete(ctx context.Context, id int) error {
	_, err := r.s.call(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
	return err
}

func (r Resource[T]) itemPath(id int) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

// single decodes the record of a write answer; an answer without data is
// not an error.
func (r Resource[T]) single(env envelope.Envelope) (T, error) {
	v, _, err := envelope.First[T](envelope.NormalizeData(env.Data))
	if err != nil {
		return v, fmt.Errorf("%s: %w", r.path, err)
	}
	return v, nil
}
