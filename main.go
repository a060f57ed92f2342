package main

import (
	"context"
	"os"
	"time"

	"github.com/hirushasanjula/carmarket-sub000/routes"
	"github.com/hirushasanjula/carmarket-sub000/storage"
	"github.com/hirushasanjula/carmarket-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	// JWT verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/me", accessTokenVerifierMiddleware, routes.GetCurrentUser)
	}

	listings := app.Party("/api/listings")
	{
		listings.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateListing)
		listings.Get("/", routes.GetListings)
		listings.Get("/pending", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.AdminPendingListings)
		listings.Get("/{id:uint}", routes.GetListing)
		listings.Put("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateListing)
		listings.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.AdminUpdateListingStatus)
		listings.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteListing)
	}

	interactions := app.Party("/api/interactions")
	{
		interactions.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateInteraction)
	}

	recommendations := app.Party("/api/recommendations")
	{
		recommendations.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetRecommendations)
	}

	saved := app.Party("/api/saved-listings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		saved.Post("/", routes.CreateSavedListing)
		saved.Get("/", routes.GetSavedListings)
		saved.Delete("/{listingID:uint}", routes.DeleteSavedListing)
	}

	messages := app.Party("/api/messages", accessTokenVerifierMiddleware)
	{
		messages.Post("/", routes.CreateMessage)
		messages.Get("/", routes.ListMessages)
		messages.Patch("/{id:uint}/read", routes.MarkMessageRead)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id:uint}/role", routes.AdminChangeUserRole)
		admin.Get("/listings", routes.AdminListListings)
		admin.Patch("/listings/{id:uint}/status", routes.AdminUpdateListingStatus)
		admin.Get("/stats", routes.AdminStats)
	}

	iris.RegisterOnInterrupt(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		app.Shutdown(shutdownCtx)
		storage.CloseDB()
		storage.CloseRedis()
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	app.Listen(":"+port, iris.WithoutInterruptHandler)
}
