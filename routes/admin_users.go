package routes

import (
	"strings"

	"github.com/hirushasanjula/carmarket-sub000/models"
	"github.com/hirushasanjula/carmarket-sub000/storage"
	"github.com/hirushasanjula/carmarket-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GET /api/admin/users
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))

	query := storage.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// PATCH /api/admin/users/:id/role — only another admin gets here (party
// middleware); the change lands in the store immediately and privileged
// routes re-check it there, so no stale token keeps admin powers.
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := ctx.ReadJSON(&body, iris.JSONReader{DisallowUnknownFields: true}); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if body.Role != "user" && body.Role != "admin" {
		utils.CreateFieldErrors(ctx, []utils.FieldError{{
			Field:  "role",
			Reason: "must be user or admin",
		}})
		return
	}

	var user models.User
	found := storage.DB.Find(&user, id)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.role_update", "user", user.ID, before, user)

	ctx.JSON(iris.Map{"data": &user})
}

// GET /api/admin/stats — headline counts for the dashboard.
func AdminStats(ctx iris.Context) {
	var userCount, interactionCount int64
	storage.DB.Model(&models.User{}).Count(&userCount)
	storage.DB.Model(&models.Interaction{}).Count(&interactionCount)

	statusCounts := iris.Map{}
	for _, status := range []string{models.StatusPending, models.StatusActive, models.StatusRejected} {
		var count int64
		storage.DB.Model(&models.Listing{}).Where("status = ?", status).Count(&count)
		statusCounts[status] = count
	}

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"users":        userCount,
			"listings":     statusCounts,
			"interactions": interactionCount,
		},
	})
}
