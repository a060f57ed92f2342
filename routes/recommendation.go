package routes

import (
	"github.com/hirushasanjula/carmarket-sub000/models"
	"github.com/hirushasanjula/carmarket-sub000/services"
	"github.com/hirushasanjula/carmarket-sub000/storage"
	"github.com/hirushasanjula/carmarket-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GetRecommendations derives a shortlist from the caller's recent activity:
// liked listings weigh in before viewed ones, candidates match any of the
// derived vehicle types, models or the flattened price band. Without history
// it falls back to the newest active listings.
func GetRecommendations(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var interactions []models.Interaction
	if err := storage.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(services.RecentInteractionLimit).
		Find(&interactions).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if len(interactions) == 0 {
		coldStart(ctx)
		return
	}

	prefIDs := services.PreferenceListingIDs(interactions)
	var preferences []models.Listing
	storage.DB.Where("id IN ?", prefIDs).Find(&preferences)
	if len(preferences) == 0 {
		// All referenced listings are gone; treat like a fresh user
		coldStart(ctx)
		return
	}

	filter := services.BuildCandidateFilter(preferences)

	var recommendations []models.Listing
	if err := storage.DB.
		Where("status = ?", models.StatusActive).
		Where("id NOT IN ?", filter.ExcludeIDs).
		Where("vehicle_type IN ? OR model IN ? OR (price >= ? AND price <= ?)",
			filter.VehicleTypes, filter.Models, filter.MinPrice, filter.MaxPrice).
		Order("created_at DESC").
		Limit(services.RecommendationLimit).
		Find(&recommendations).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"listings": recommendations, "coldStart": false})
}

func coldStart(ctx iris.Context) {
	var latest []models.Listing
	if err := storage.DB.
		Where("status = ?", models.StatusActive).
		Order("created_at DESC").
		Limit(services.RecommendationLimit).
		Find(&latest).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"listings": latest, "coldStart": true})
}
