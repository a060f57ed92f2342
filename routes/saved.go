package routes

import (
	"errors"

	"github.com/hirushasanjula/carmarket-sub000/models"
	"github.com/hirushasanjula/carmarket-sub000/storage"
	"github.com/hirushasanjula/carmarket-sub000/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kataras/iris/v12"
)

// CreateSavedListing bookmarks a listing for the caller. The pair is unique:
// saving the same listing twice is a conflict.
func CreateSavedListing(ctx iris.Context) {
	var input SaveListingInput
	if err := ctx.ReadJSON(&input, iris.JSONReader{DisallowUnknownFields: true}); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	var listing models.Listing
	found := storage.DB.Select("id").Find(&listing, input.ListingID)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var existing models.SavedListing
	dup := storage.DB.Where("user_id = ? AND listing_id = ?", userID, input.ListingID).Find(&existing)
	if dup.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if dup.RowsAffected > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "Listing already saved", ctx)
		return
	}

	saved := models.SavedListing{UserID: userID, ListingID: input.ListingID}
	if err := storage.DB.Create(&saved).Error; err != nil {
		// Unique index backstop for a concurrent duplicate save; anything
		// else is a real storage failure, not a conflict.
		if isUniqueViolation(err) {
			utils.CreateError(iris.StatusConflict, "Conflict", "Listing already saved", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(saved)
}

func GetSavedListings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var saved []models.SavedListing
	if err := storage.DB.
		Preload("Listing").
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&saved).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(saved)
}

func DeleteSavedListing(ctx iris.Context) {
	listingID, err := ctx.Params().GetUint("listingID")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	var saved models.SavedListing
	found := storage.DB.Where("user_id = ? AND listing_id = ?", userID, listingID).Find(&saved)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&saved).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type SaveListingInput struct {
	ListingID uint `json:"listingID" validate:"required"`
}
