package routes

import (
	"os"
	"testing"

	"github.com/hirushasanjula/carmarket-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func TestMain(m *testing.M) {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	os.Exit(m.Run())
}

// buildTestApp wires the marketplace routes onto a minimal Iris app with the
// real JWT verifier and a mock admin gate (role from the token, no store).
func buildTestApp() *iris.Application {
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	listings := app.Party("/api/listings")
	{
		listings.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, CreateListing)
		listings.Get("/", GetListings)
		listings.Get("/{id:uint}", GetListing)
		listings.Put("/{id:uint}", accessTokenVerifierMiddleware, UpdateListing)
		listings.Patch("/{id:uint}", accessTokenVerifierMiddleware, mockAdminOnlyMiddleware, AdminUpdateListingStatus)
	}

	recommendations := app.Party("/api/recommendations")
	{
		recommendations.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, GetRecommendations)
	}

	saved := app.Party("/api/saved-listings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		saved.Post("/", CreateSavedListing)
		saved.Get("/", GetSavedListings)
		saved.Delete("/{listingID:uint}", DeleteSavedListing)
	}

	interactions := app.Party("/api/interactions")
	{
		interactions.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, CreateInteraction)
	}

	messages := app.Party("/api/messages", accessTokenVerifierMiddleware)
	{
		messages.Post("/", CreateMessage)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, mockAdminOnlyMiddleware)
	{
		admin.Patch("/listings/{id:uint}/status", AdminUpdateListingStatus)
	}

	app.Build()
	return app
}

// mockAdminOnlyMiddleware trusts the token role so RBAC tests run without a
// database.
func mockAdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	if claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// signTestToken returns a signed JWT with the given role.
func signTestToken(role string) string {
	return signTestTokenAs(1, role)
}

func signTestTokenAs(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}
