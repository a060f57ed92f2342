package routes

import (
	"github.com/hirushasanjula/carmarket-sub000/models"
	"github.com/hirushasanjula/carmarket-sub000/storage"
	"github.com/hirushasanjula/carmarket-sub000/utils"

	"github.com/kataras/iris/v12"
)

// CreateInteraction appends a view/like event to the ledger. No dedup: the
// same user viewing the same listing twice is two rows.
func CreateInteraction(ctx iris.Context) {
	var input CreateInteractionInput
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

	interaction := models.Interaction{
		UserID:    userID,
		ListingID: input.ListingID,
		Action:    input.Action,
	}
	if err := storage.DB.Create(&interaction).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(interaction)
}

type CreateInteractionInput struct {
	ListingID uint   `json:"listingID" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=view like"`
}
