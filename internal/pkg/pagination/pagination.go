package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quoteverse/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1
	DefaultSize = 50
	MaxSize     = 500
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// FromContext extracts and clamps ?page= and ?size=.
func FromContext(c *gin.Context) Query {
	return Normalize(Query{
		Page: parseIntOr(c.Query("page"), DefaultPage),
		Size: parseIntOr(c.Query("size"), DefaultSize),
	})
}

// Normalize clamps q into the accepted range.
func Normalize(q Query) Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Size < 1 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	return q
}

// Meta computes the pagination metadata for total rows.
func Meta(q Query, total int64) response.Pagination {
	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))
	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}
}

// Paginate applies limit/offset to a GORM query and returns the pagination metadata.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	q = Normalize(q)
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}

	offset := (q.Page - 1) * q.Size
	if err := db.Session(&gorm.Session{}).Offset(offset).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}
	return Meta(q, total), nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
