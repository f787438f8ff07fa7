package app

import (
	"notevault/internal/auth"
	"notevault/internal/cache"
	"notevault/internal/config"
	"notevault/internal/handlers"
	"notevault/internal/repo"
	"notevault/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api")

	tokens := auth.NewTokens([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL.Duration())
	totp := auth.NewTOTP(auth.TOTPConfig{Issuer: cfg.Auth.TOTPIssuer})

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, totp, tokens)
	authHandler := handlers.NewAuthHandler(userSvc)

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/signup/verify", authHandler.VerifySignup)
	authGroup.POST("/signin", authHandler.Signin)
	authGroup.POST("/resetpw", authHandler.ResetPassword)

	// MFA rotation needs a proven identity first.
	authProtected := api.Group("/auth", auth.RequireAuth(tokens, userSvc))
	authProtected.POST("/refresh-mfa", authHandler.RefreshMfa)
	authProtected.POST("/confirm-mfa-update", authHandler.ConfirmMfaUpdate)

	noteRepo := repo.NewPGNoteRepo(db)
	noteCache := cache.NewNoteCache(rdb, cfg.Redis.DefaultTTL.Duration())
	noteSvc := service.NewNoteService(noteRepo, noteCache)
	noteHandler := handlers.NewNoteHandler(noteSvc)

	notes := api.Group("/notes", auth.RequireAuth(tokens, userSvc))
	notes.POST("/create", noteHandler.Create)
	notes.GET("/all", noteHandler.List)
	notes.GET("/get/:id", noteHandler.GetByID)
	notes.PUT("/update/:id", noteHandler.Update)
	notes.DELETE("/delete/:id", noteHandler.Delete)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "NoteVault API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
