// Package pagination parses page/size query parameters and pages gorm queries.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/pkg/response"
	"gorm.io/gorm"
)

// Limits bound the page size of one kind of list.
type Limits struct {
	Default int
	Max     int
}

var (
	// Posts serves the public blog and the admin post table.
	Posts = Limits{Default: 10, Max: 50}
	// Inbox serves the contact inbox, which sales triage in bulk.
	Inbox = Limits{Default: 25, Max: 200}
	// Media serves the media library grid.
	Media = Limits{Default: 24, Max: 96}
)

type Query struct {
	Page int
	Size int
}

func (q Query) Offset() int { return (q.Page - 1) * q.Size }

// FromContext reads ?page= and ?size=. Bad or missing values fall back to page 1
// and l.Default; sizes above l.Max are clamped.
func FromContext(c *gin.Context, l Limits) Query {
	q := Query{Page: 1, Size: l.Default}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		q.Size = v
	}
	if q.Size > l.Max {
		q.Size = l.Max
	}
	return q
}

// Paginate counts the filtered rows, then loads one page into dest. A page past
// the end returns an empty slice with the real totals.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}
	if total == 0 || int64(q.Offset()) >= total {
		*dest = []T{}
	} else if err := db.Offset(q.Offset()).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	pages := int((total + int64(q.Size) - 1) / int64(q.Size))
	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   pages,
		Size:        q.Size,
		HasNextPage: q.Page < pages,
	}, nil
}
