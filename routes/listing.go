package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hirushasanjula/carmarket-sub000/models"
	"github.com/hirushasanjula/carmarket-sub000/services"
	"github.com/hirushasanjula/carmarket-sub000/storage"
	"github.com/hirushasanjula/carmarket-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

const maxListingImages = 5

// CreateListing handles the multipart listing submission: form fields plus up
// to 5 image files. The listing always starts pending; there is no status
// field a client could set.
func CreateListing(ctx iris.Context) {
	var input CreateListingInput
	if err := ctx.ReadForm(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	var fieldErrs []utils.FieldError
	if errs := validateListingFields(&input); len(errs) > 0 {
		fieldErrs = append(fieldErrs, errs...)
	}

	var files []imageFile
	if form := ctx.Request().MultipartForm; form != nil {
		for _, header := range form.File["images"] {
			f, err := header.Open()
			if err != nil {
				fmt.Printf("[listing] failed to open uploaded file %s: %v\n", header.Filename, err)
				continue
			}
			data, readErr := io.ReadAll(f)
			f.Close()
			if readErr != nil {
				fmt.Printf("[listing] failed to read uploaded file %s: %v\n", header.Filename, readErr)
				continue
			}
			files = append(files, imageFile{name: header.Filename, data: data})
		}
	}
	if len(files) > maxListingImages {
		fieldErrs = append(fieldErrs, utils.FieldError{
			Field:  "images",
			Reason: fmt.Sprintf("at most %d images are allowed", maxListingImages),
		})
	}

	if len(fieldErrs) > 0 {
		utils.CreateFieldErrors(ctx, fieldErrs)
		return
	}

	// Upload whatever succeeds; individual failures are logged and skipped
	imagesArr := []string{}
	for i, file := range files {
		publicID := fmt.Sprintf("listing_%d_%d", time.Now().UnixMilli(), i)
		if url := storage.UploadImage(file.data, publicID); url != "" {
			imagesArr = append(imagesArr, url)
		} else {
			fmt.Printf("[listing] dropping image %s after failed upload\n", file.name)
		}
	}
	imagesJSON, _ := json.Marshal(imagesArr)

	point := services.GeocodeCity(input.Region, input.City)

	listing := models.Listing{
		UserID:       userID,
		VehicleType:  input.VehicleType,
		Model:        input.Model,
		Condition:    input.Condition,
		Year:         input.Year,
		Price:        input.Price,
		Mileage:      input.Mileage,
		FuelType:     input.FuelType,
		Transmission: input.Transmission,
		Region:       input.Region,
		City:         input.City,
		Lat:          point.Lat,
		Lng:          point.Lng,
		Description:  input.Description,
		Images:       string(imagesJSON),
		ContactPhone: utils.NormalizePhone(input.ContactPhone),
		ContactEmail: strings.ToLower(input.ContactEmail),
		Status:       models.StatusPending,
	}

	if result := storage.DB.Create(&listing); result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&listing)
}

// GetListings searches active listings. An authenticated caller additionally
// sees their own pending listings; their rejected ones only with
// include_rejected=1.
func GetListings(ctx iris.Context) {
	claims := utils.OptionalAccessToken(ctx)

	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.Listing{})
	if claims == nil {
		q = q.Where("status = ?", models.StatusActive)
	} else {
		ownStatuses := []string{models.StatusPending}
		if includeRejected := ctx.URLParamDefault("include_rejected", ""); includeRejected == "1" || includeRejected == "true" {
			ownStatuses = append(ownStatuses, models.StatusRejected)
		}
		q = q.Where("status = ? OR (user_id = ? AND status IN ?)",
			models.StatusActive, claims.ID, ownStatuses)
	}

	if vt := ctx.URLParamDefault("vehicle_type", ""); vt != "" {
		q = q.Where("vehicle_type = ?", vt)
	}
	if cond := ctx.URLParamDefault("condition", ""); cond != "" {
		q = q.Where("condition = ?", cond)
	}
	if region := strings.TrimSpace(ctx.URLParamDefault("region", "")); region != "" {
		q = q.Where("lower(region) = ?", strings.ToLower(region))
	}
	if city := strings.TrimSpace(ctx.URLParamDefault("city", "")); city != "" {
		q = q.Where("lower(city) = ?", strings.ToLower(city))
	}
	if minPrice, err := ctx.URLParamFloat64("min_price"); err == nil {
		q = q.Where("price >= ?", minPrice)
	}
	if maxPrice, err := ctx.URLParamFloat64("max_price"); err == nil {
		q = q.Where("price <= ?", maxPrice)
	}
	if yearFrom, err := ctx.URLParamInt("year_from"); err == nil {
		q = q.Where("year >= ?", yearFrom)
	}
	if yearTo, err := ctx.URLParamInt("year_to"); err == nil {
		q = q.Where("year <= ?", yearTo)
	}
	if search := strings.TrimSpace(ctx.URLParamDefault("q", "")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(model) LIKE ? OR lower(description) LIKE ?", like, like)
	}

	var total int64
	q.Count(&total)

	var listings []models.Listing
	if err := q.Preload("User").
		Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, listings, page, perPage, total)
}

// GetListing returns the detail view enriched with the market comparison.
// Only active listings are reachable by the public; the owner and admins can
// open their pending or rejected ones, everyone else gets the same answer as
// for a missing id. For an authenticated viewer of a visible listing the view
// counter increments on every fetch while the distinct-viewer set gains them
// at most once; both happen in a single conditional update so concurrent
// first views cannot double-insert.
func GetListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var listing models.Listing
	found := storage.DB.Preload("User").Find(&listing, id)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := utils.OptionalAccessToken(ctx)
	if listing.Status != models.StatusActive {
		if claims == nil || (claims.ID != listing.UserID && !utils.CallerIsAdmin(claims.ID)) {
			utils.CreateNotFound(ctx)
			return
		}
	}

	if claims != nil {
		storage.DB.Exec(`
            UPDATE listings
            SET views = views + 1,
                viewer_ids = CASE WHEN viewer_ids @> to_jsonb(?::bigint)
                    THEN viewer_ids
                    ELSE coalesce(viewer_ids, '[]'::jsonb) || to_jsonb(?::bigint) END
            WHERE id = ?`, int64(claims.ID), int64(claims.ID), id)
		// re-read so the response carries the fresh counters
		storage.DB.Preload("User").Find(&listing, id)
		viewerID := claims.ID
		listingID := listing.ID
		go func() {
			storage.DB.Create(&models.Interaction{
				UserID:    viewerID,
				ListingID: listingID,
				Action:    "view",
			})
		}()
	}

	comparison := services.CompareListing(&listing, findComparableListings(&listing))

	ctx.JSON(iris.Map{
		"listing":    &listing,
		"comparison": comparison,
	})
}

// findComparableListings selects the other active listings of the same
// vehicle type and condition, within two model years, whose model contains
// the subject's model text.
func findComparableListings(listing *models.Listing) []models.Listing {
	var matches []models.Listing
	storage.DB.
		Where("status = ? AND id <> ? AND vehicle_type = ? AND condition = ? AND year BETWEEN ? AND ? AND lower(model) LIKE ?",
			models.StatusActive, listing.ID, listing.VehicleType, listing.Condition,
			listing.Year-2, listing.Year+2,
			"%"+strings.ToLower(listing.Model)+"%").
		Find(&matches)
	return matches
}

// UpdateListing is the owner's full edit. Any edit sends the listing back to
// moderation: status is forced to pending no matter what the client sent,
// and the owner reference never changes.
func UpdateListing(ctx iris.Context) {
	id, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateNotFound(ctx)
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

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if listing.UserID != claims.ID {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateListingInput
	if err := ctx.ReadJSON(&input, iris.JSONReader{DisallowUnknownFields: true}); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if errs := validateListingFields((*CreateListingInput)(&input)); len(errs) > 0 {
		utils.CreateFieldErrors(ctx, errs)
		return
	}
	if len(input.Images) > maxListingImages {
		utils.CreateFieldErrors(ctx, []utils.FieldError{{
			Field:  "images",
			Reason: fmt.Sprintf("at most %d images are allowed", maxListingImages),
		}})
		return
	}

	imagesArr := insertImages(input.Images, strconv.FormatUint(uint64(listing.ID), 10))
	if imagesArr == nil {
		imagesArr = []string{}
	}
	imagesJSON, _ := json.Marshal(imagesArr)

	point := services.GeocodeCity(input.Region, input.City)

	listing.VehicleType = input.VehicleType
	listing.Model = input.Model
	listing.Condition = input.Condition
	listing.Year = input.Year
	listing.Price = input.Price
	listing.Mileage = input.Mileage
	listing.FuelType = input.FuelType
	listing.Transmission = input.Transmission
	listing.Region = input.Region
	listing.City = input.City
	listing.Lat = point.Lat
	listing.Lng = point.Lng
	listing.Description = input.Description
	listing.Images = string(imagesJSON)
	listing.ContactPhone = utils.NormalizePhone(input.ContactPhone)
	listing.ContactEmail = strings.ToLower(input.ContactEmail)
	listing.Status = models.StatusPending // every edit requires re-approval

	if err := storage.DB.Save(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&listing)
}

// DeleteListing removes the record outright, along with its interaction and
// bookmark rows. Messages keep their nullable listing reference.
func DeleteListing(ctx iris.Context) {
	id, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateNotFound(ctx)
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

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if listing.UserID != claims.ID && !utils.CallerIsAdmin(claims.ID) {
		utils.CreateForbidden(ctx)
		return
	}

	if err := storage.DB.Delete(&models.Listing{}, id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Where("listing_id = ?", id).Delete(&models.Interaction{})
	storage.DB.Where("listing_id = ?", id).Delete(&models.SavedListing{})

	ctx.StatusCode(iris.StatusNoContent)
}

// insertImages keeps already-hosted URLs and uploads any base64 additions,
// skipping individual failures.
func insertImages(images []string, listingID string) []string {
	var imagesArr []string
	for i, image := range images {
		if image == "" {
			continue
		}
		if storage.IsCloudinaryURL(image) {
			imagesArr = append(imagesArr, image)
			continue
		}
		publicID := fmt.Sprintf("listing_%d_%d", time.Now().UnixMilli(), i)
		if listingID != "" {
			publicID = "listing/" + listingID + "/" + publicID
		}
		if url := storage.UploadBase64Image(image, publicID); url != "" {
			imagesArr = append(imagesArr, url)
		} else {
			fmt.Printf("[listing] failed to upload image for listing %s\n", listingID)
		}
	}
	return imagesArr
}

// validateListingFields covers the checks the struct tags cannot express.
func validateListingFields(input *CreateListingInput) []utils.FieldError {
	var errs []utils.FieldError
	maxYear := time.Now().Year() + 1
	if input.Year < 1900 || input.Year > maxYear {
		errs = append(errs, utils.FieldError{
			Field:  "year",
			Reason: fmt.Sprintf("must be between 1900 and %d", maxYear),
		})
	}
	if input.ContactPhone != "" && utils.NormalizePhone(input.ContactPhone) == "" {
		errs = append(errs, utils.FieldError{
			Field:  "contactPhone",
			Reason: "not a valid phone number",
		})
	}
	return errs
}

type imageFile struct {
	name string
	data []byte
}

type CreateListingInput struct {
	VehicleType  string   `json:"vehicleType" form:"vehicleType" validate:"required,oneof=car van jeep double-cab"`
	Model        string   `json:"model" form:"model" validate:"required,max=256"`
	Condition    string   `json:"condition" form:"condition" validate:"required,oneof=brand-new used unregister"`
	Year         int      `json:"year" form:"year" validate:"required"`
	Price        float64  `json:"price" form:"price" validate:"gte=0"`
	Mileage      *int     `json:"mileage" form:"mileage" validate:"omitempty,gte=0"`
	FuelType     string   `json:"fuelType" form:"fuelType" validate:"omitempty,oneof=petrol diesel hybrid electric"`
	Transmission string   `json:"transmission" form:"transmission" validate:"omitempty,oneof=automatic manual"`
	Region       string   `json:"region" form:"region" validate:"required,max=128"`
	City         string   `json:"city" form:"city" validate:"required,max=128"`
	Description  string   `json:"description" form:"description" validate:"max=5000"`
	ContactPhone string   `json:"contactPhone" form:"contactPhone" validate:"omitempty,max=32"`
	ContactEmail string   `json:"contactEmail" form:"contactEmail" validate:"omitempty,email"`
	Images       []string `json:"images" form:"-" validate:"max=5"`
}

// UpdateListingInput mirrors the create payload; there is deliberately no
// status or owner field either.
type UpdateListingInput CreateListingInput
