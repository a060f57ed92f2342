package utils

import (
	"github.com/kataras/iris/v12"
)

// PageMeta rides along with every paginated index response.
type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// JSONPage writes the envelope shared by the listing and user indexes:
// the rows under data, the paging counters under meta.
func JSONPage(ctx iris.Context, rows interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data": rows,
		"meta": PageMeta{Page: page, PerPage: perPage, Total: total},
	})
}

// JSONError is the flat error shape used where the problem+json helpers
// would be overkill.
func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}
