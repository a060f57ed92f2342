package routes

import (
	"strings"
	"time"

	"github.com/hirushasanjula/carmarket-sub000/models"
	"github.com/hirushasanjula/carmarket-sub000/storage"
	"github.com/hirushasanjula/carmarket-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GET /api/admin/listings
func AdminListListings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	search := strings.TrimSpace(ctx.URLParamDefault("search", ""))
	userID := ctx.URLParamDefault("user_id", "")
	createdFrom := ctx.URLParamDefault("created_from", "")
	createdTo := ctx.URLParamDefault("created_to", "")

	q := storage.DB.Model(&models.Listing{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(model) LIKE ? OR lower(description) LIKE ? OR lower(city) LIKE ?", like, like, like)
	}
	if createdFrom != "" {
		if t, err := time.Parse(time.RFC3339, createdFrom); err == nil {
			q = q.Where("created_at >= ?", t)
		}
	}
	if createdTo != "" {
		if t, err := time.Parse(time.RFC3339, createdTo); err == nil {
			q = q.Where("created_at <= ?", t)
		}
	}

	var total int64
	q.Count(&total)

	var listings []models.Listing
	if err := q.Preload("User").
		Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, listings, page, perPage, total)
}

// GET /api/listings/pending — the moderation queue, oldest submissions first.
func AdminPendingListings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.Listing{}).Where("status = ?", models.StatusPending)

	var total int64
	q.Count(&total)

	var listings []models.Listing
	if err := q.Preload("User").
		Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at ASC").
		Find(&listings).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, listings, page, perPage, total)
}

// PATCH /api/admin/listings/:id/status {status, note}
// The moderation action: active or rejected, nothing else. Re-applying the
// current status succeeds as a no-op.
func AdminUpdateListingStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var body struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := ctx.ReadJSON(&body, iris.JSONReader{DisallowUnknownFields: true}); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if body.Status != models.StatusActive && body.Status != models.StatusRejected {
		utils.CreateFieldErrors(ctx, []utils.FieldError{{
			Field:  "status",
			Reason: "must be active or rejected",
		}})
		return
	}

	var listing models.Listing
	found := storage.DB.Find(&listing, id)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	before := listing
	listing.Status = body.Status
	if err := storage.DB.Save(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "listing.status_update", "listing", listing.ID, before, listing)

	ctx.JSON(iris.Map{"data": &listing})
}
