package repository

import (
	"sort"
	"strings"

	"github.com/forgo/gamevault/api/internal/model"
)

// sortableFields are the game fields a list query may order by
var sortableFields = map[string]bool{
	"name":       true,
	"created_on": true,
	"updated_on": true,
}

// SortField is one ordering key of a list query
type SortField struct {
	Field string
	Desc  bool
}

// ParseSortBy parses "field:asc|desc[,field:dir...]". Unknown and repeated
// fields are dropped; anything but "desc" sorts ascending. An empty result
// falls back to created_on ascending.
func ParseSortBy(sortBy string) []SortField {
	var fields []SortField
	seen := make(map[string]bool)

	for _, part := range strings.Split(sortBy, ",") {
		name, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
		name = strings.TrimSpace(name)
		if !sortableFields[name] || seen[name] {
			continue
		}
		seen[name] = true
		fields = append(fields, SortField{
			Field: name,
			Desc:  strings.EqualFold(strings.TrimSpace(dir), "desc"),
		})
	}

	if len(fields) == 0 {
		return []SortField{{Field: model.DefaultSortField}}
	}
	return fields
}

// orderClause renders fields as an ORDER BY list, with id as the final tiebreak
func orderClause(fields []SortField) string {
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		parts = append(parts, f.Field+" "+dir)
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", ")
}

// sortGames orders games in place the way orderClause orders a query
func sortGames(games []*model.Game, fields []SortField) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i], games[j]
		for _, f := range fields {
			c := compareGameField(a, b, f.Field)
			if c == 0 {
				continue
			}
			if f.Desc {
				return c > 0
			}
			return c < 0
		}
		return a.ID < b.ID
	})
}

func compareGameField(a, b *model.Game, field string) int {
	switch field {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "created_on":
		return a.CreatedOn.Compare(b.CreatedOn)
	case "updated_on":
		return a.UpdatedOn.Compare(b.UpdatedOn)
	}
	return 0
}

// pageBounds returns the [start, end) slice bounds of a page within total items
func pageBounds(opts model.QueryOptions, total int) (int, int) {
	start := opts.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return start, end
}
