// Package paginate implements the list query language shared by every
// collection endpoint: page/limit, sortBy, search/searchBy and filter.<col>.
package paginate

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Config is the per-resource allow-list. Columns maps the public column name
// to the SQL expression used in queries; anything not listed is ignored.
type Config struct {
	Table         string
	Columns       map[string]string
	Sortable      []string
	Searchable    []string
	Filterable    []string
	DefaultSortBy [][2]string
	Joins         []string
	Preloads      []string
}

type Query struct {
	Page     int
	Limit    int
	SortBy   [][2]string
	Search   string
	SearchBy []string
	Filter   map[string][]string
	Path     string
}

// FromCtx reads the list query from the request query string.
func FromCtx(c *fiber.Ctx) Query {
	q := Query{Filter: map[string][]string{}, Path: c.Path()}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		key, val := string(k), string(v)
		switch {
		case key == "page":
			q.Page, _ = strconv.Atoi(val)
		case key == "limit":
			q.Limit, _ = strconv.Atoi(val)
		case key == "sortBy":
			col, dir, _ := strings.Cut(val, ":")
			q.SortBy = append(q.SortBy, [2]string{col, strings.ToUpper(dir)})
		case key == "search":
			q.Search = val
		case key == "searchBy":
			for _, s := range strings.Split(val, ",") {
				if s = strings.TrimSpace(s); s != "" {
					q.SearchBy = append(q.SearchBy, s)
				}
			}
		case strings.HasPrefix(key, "filter."):
			col := strings.TrimPrefix(key, "filter.")
			q.Filter[col] = append(q.Filter[col], val)
		}
	})
	return q
}

func (q *Query) normalize(cfg Config) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	sortBy := q.SortBy[:0:0]
	for _, s := range q.SortBy {
		if !contains(cfg.Sortable, s[0]) {
			continue
		}
		if s[1] != "ASC" {
			s[1] = "DESC"
		}
		sortBy = append(sortBy, s)
	}
	if len(sortBy) == 0 {
		sortBy = append(sortBy, cfg.DefaultSortBy...)
	}
	q.SortBy = sortBy

	searchBy := q.SearchBy[:0:0]
	for _, s := range q.SearchBy {
		if contains(cfg.Searchable, s) {
			searchBy = append(searchBy, s)
		}
	}
	if len(searchBy) == 0 {
		searchBy = append(searchBy, cfg.Searchable...)
	}
	q.SearchBy = searchBy

	filter := map[string][]string{}
	for col, vals := range q.Filter {
		if contains(cfg.Filterable, col) {
			filter[col] = vals
		}
	}
	q.Filter = filter
}

// Paginate runs the count and page queries for T under cfg.
func Paginate[T any](ctx context.Context, db *gorm.DB, cfg Config, q Query) (*models.Paginated[T], error) {
	q.normalize(cfg)

	scope := func(tx *gorm.DB) (*gorm.DB, error) {
		for _, j := range cfg.Joins {
			tx = tx.Joins(j)
		}
		if q.Search != "" && len(q.SearchBy) > 0 {
			parts := make([]string, 0, len(q.SearchBy))
			args := make([]interface{}, 0, len(q.SearchBy))
			for _, col := range q.SearchBy {
				parts = append(parts, fmt.Sprintf("LOWER(CAST(%s AS TEXT)) LIKE ?", cfg.column(col)))
				args = append(args, "%"+strings.ToLower(q.Search)+"%")
			}
			tx = tx.Where("("+strings.Join(parts, " OR ")+")", args...)
		}
		for col, vals := range q.Filter {
			for _, v := range vals {
				expr, args, err := parseFilter(cfg.column(col), v)
				if err != nil {
					return nil, err
				}
				tx = tx.Where(expr, args...)
			}
		}
		return tx, nil
	}

	var total int64
	countQ, err := scope(db.WithContext(ctx).Model(new(T)))
	if err != nil {
		return nil, err
	}
	if err := countQ.Count(&total).Error; err != nil {
		return nil, err
	}

	findQ, err := scope(db.WithContext(ctx).Model(new(T)))
	if err != nil {
		return nil, err
	}
	if len(cfg.Joins) > 0 {
		findQ = findQ.Select(cfg.Table + ".*")
	}
	for _, p := range cfg.Preloads {
		findQ = findQ.Preload(p)
	}
	for _, s := range q.SortBy {
		findQ = findQ.Order(fmt.Sprintf("%s %s NULLS LAST", cfg.column(s[0]), s[1]))
	}

	items := make([]T, 0, q.Limit)
	if err := findQ.Limit(q.Limit).Offset((q.Page - 1) * q.Limit).Find(&items).Error; err != nil {
		return nil, err
	}

	meta := models.NewPaginationMeta(q.Page, q.Limit, total)
	meta.SortBy = q.SortBy
	meta.Search = q.Search
	if q.Search != "" {
		meta.SearchBy = q.SearchBy
	}
	if len(q.Filter) > 0 {
		meta.Filter = q.Filter
	}

	return &models.Paginated[T]{Data: items, Meta: meta, Links: q.links(meta)}, nil
}

func (c Config) column(name string) string {
	if expr, ok := c.Columns[name]; ok {
		return expr
	}
	return c.Table + "." + name
}

func (q Query) links(meta models.PaginationMeta) models.PaginationLinks {
	link := func(page int) string {
		v := url.Values{}
		v.Set("page", strconv.Itoa(page))
		v.Set("limit", strconv.Itoa(q.Limit))
		for _, s := range q.SortBy {
			v.Add("sortBy", s[0]+":"+s[1])
		}
		if q.Search != "" {
			v.Set("search", q.Search)
		}
		for col, vals := range q.Filter {
			for _, val := range vals {
				v.Add("filter."+col, val)
			}
		}
		return q.Path + "?" + v.Encode()
	}

	links := models.PaginationLinks{Current: link(q.Page)}
	if meta.TotalPages == 0 {
		return links
	}
	if q.Page > 1 {
		links.First = link(1)
		links.Previous = link(q.Page - 1)
	}
	if meta.HasNext {
		links.Next = link(q.Page + 1)
		links.Last = link(meta.TotalPages)
	}
	return links
}

// parseFilter turns "[$not:]$op:value" into a where clause on col.
// A value without an operator is an equality match.
func parseFilter(col, raw string) (string, []interface{}, error) {
	negate := false
	if strings.HasPrefix(raw, "$not:") {
		negate = true
		raw = strings.TrimPrefix(raw, "$not:")
	}

	op, val := "$eq", raw
	if strings.HasPrefix(raw, "$") {
		var found bool
		op, val, found = strings.Cut(raw, ":")
		if !found && op != "$null" {
			return "", nil, apperr.BadRequest(fmt.Sprintf("Invalid filter %q", raw))
		}
	}

	var (
		expr string
		args []interface{}
	)
	switch op {
	case "$eq":
		expr, args = col+" = ?", []interface{}{val}
	case "$null":
		expr = col + " IS NULL"
	case "$in":
		expr, args = col+" IN ?", []interface{}{strings.Split(val, ",")}
	case "$ilike":
		expr, args = fmt.Sprintf("LOWER(CAST(%s AS TEXT)) LIKE ?", col), []interface{}{"%" + strings.ToLower(val) + "%"}
	case "$gt":
		expr, args = col+" > ?", []interface{}{val}
	case "$gte":
		expr, args = col+" >= ?", []interface{}{val}
	case "$lt":
		expr, args = col+" < ?", []interface{}{val}
	case "$lte":
		expr, args = col+" <= ?", []interface{}{val}
	default:
		return "", nil, apperr.BadRequest(fmt.Sprintf("Unknown filter operator %q", op))
	}

	if negate {
		expr = "NOT (" + expr + ")"
	}
	return expr, args, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
