package routes

import (
	"time"

	"github.com/hirushasanjula/carmarket-sub000/models"
	"github.com/hirushasanjula/carmarket-sub000/storage"
	"github.com/hirushasanjula/carmarket-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// CreateMessage sends a direct note to another user, optionally about a
// listing.
func CreateMessage(ctx iris.Context) {
	var input CreateMessageInput
	if err := ctx.ReadJSON(&input, iris.JSONReader{DisallowUnknownFields: true}); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if input.ReceiverID == claims.ID {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Cannot message yourself", ctx)
		return
	}

	var receiver models.User
	found := storage.DB.Select("id").Find(&receiver, input.ReceiverID)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if input.ListingID != nil {
		var listing models.Listing
		listingFound := storage.DB.Select("id").Find(&listing, *input.ListingID)
		if listingFound.Error != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		if listingFound.RowsAffected == 0 {
			utils.CreateNotFound(ctx)
			return
		}
	}

	message := models.Message{
		SenderID:   claims.ID,
		ReceiverID: input.ReceiverID,
		Content:    input.Content,
		ListingID:  input.ListingID,
	}
	if err := storage.DB.Create(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(message)
}

// ListMessages: GET /api/messages?peerID=...&cursor=...&limit=...
// Returns the two-way thread with the peer, oldest first within the page.
func ListMessages(ctx iris.Context) {
	peerID, err := ctx.URLParamInt("peerID")
	if err != nil || peerID <= 0 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "peerID is required", ctx)
		return
	}
	limit, _ := ctx.URLParamInt("limit")
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	cursor, _ := ctx.URLParamInt("cursor")

	claims := jwt.Get(ctx).(*utils.AccessToken)

	q := storage.DB.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		claims.ID, peerID, peerID, claims.ID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}

	var msgs []models.Message
	if err := q.Order("id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	nextCursor := 0
	if len(msgs) > 0 {
		nextCursor = int(msgs[0].ID)
	}
	ctx.JSON(iris.Map{"messages": msgs, "nextCursor": nextCursor})
}

// MarkMessageRead flips the read flag. Only the receiver may do it, and the
// flag only ever goes from unread to read.
func MarkMessageRead(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var message models.Message
	found := storage.DB.Find(&message, id)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if message.ReceiverID != claims.ID {
		utils.CreateForbidden(ctx)
		return
	}

	if !message.Read {
		now := time.Now()
		message.Read = true
		message.ReadAt = &now
		if err := storage.DB.Save(&message).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(message)
}

type CreateMessageInput struct {
	ReceiverID uint   `json:"receiverID" validate:"required"`
	Content    string `json:"content" validate:"required,max=5000"`
	ListingID  *uint  `json:"listingID"`
}
