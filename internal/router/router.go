package router

import (
	"net/http"

	"bookclub/internal/config"
	"bookclub/internal/middleware"
	"bookclub/internal/modules/auth"
	"bookclub/internal/modules/role"
	"bookclub/internal/pkg/jwt"
	"bookclub/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires repositories, services and handlers onto a gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)

	accessTokens := jwt.New(cfg.AccessTokenSecret, cfg.AccessTTL)
	refreshTokens := jwt.New(cfg.RefreshTokenSecret, cfg.RefreshTTL)

	authService := auth.NewService(userRepo, roleRepo, refreshRepo, accessTokens, refreshTokens, cfg.RefreshTTL)
	authHandler := auth.NewHandler(authService)

	roleHandler := role.NewHandler(role.NewService(roleRepo))

	r := gin.New()
	r.Use(middleware.ErrorLogger(), middleware.RequestLogger(), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(r)

	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuth(accessTokens))
	{
		roleHandler.RegisterRoutes(admin)
	}

	return r
}
