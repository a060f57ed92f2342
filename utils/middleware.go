package utils

import (
	"github.com/hirushasanjula/carmarket-sub000/models"
	"github.com/hirushasanjula/carmarket-sub000/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts the caller's id from the JWT and stores
// it in the request context for downstream handlers.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// AdminOnlyMiddleware ensures the requester holds the admin role. The role is
// re-read from the store so a demotion takes effect before the old access
// token expires.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)

	var user models.User
	if err := storage.DB.Select("id, role").First(&user, claims.ID).Error; err != nil {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}
	if user.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}

	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// CallerIsAdmin checks the store for the caller's role without failing the
// request. Used where owner-or-admin is decided inline.
func CallerIsAdmin(userID uint) bool {
	var user models.User
	if err := storage.DB.Select("id, role").First(&user, userID).Error; err != nil {
		return false
	}
	return user.Role == "admin"
}
