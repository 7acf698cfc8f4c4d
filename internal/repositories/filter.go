package repositories

import (
	"strings"

	"storerate/internal/models"

	"gorm.io/gorm"
)

// ListFilter selects one page of a listing.
type ListFilter struct {
	Offset int
	Limit  int
	Search string      // case-insensitive substring, empty matches all
	Role   models.Role // users only, empty matches all
	SortBy string      // "name", "email" or "createdAt"
	Desc   bool
}

var sortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"createdAt": "created_at",
}

func (f ListFilter) order() string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	if f.Desc {
		return col + " DESC"
	}
	return col + " ASC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applySearch adds an OR of LOWER(col) LIKE %search% over columns. Wildcards
// in search match literally.
func applySearch(q *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return q
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
}
