package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	apirest "github.com/nekomata/guildpoints/api/rest"
	"github.com/nekomata/guildpoints/config"
	dbadapter "github.com/nekomata/guildpoints/db"
	mw "github.com/nekomata/guildpoints/middleware"
	"github.com/nekomata/guildpoints/model"
	"github.com/nekomata/guildpoints/points"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))

	// ---- Services ----
	pointsSvc := points.NewService(db, logger)

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	playerH := apirest.NewPlayerHandler(db)
	itemH := apirest.NewItemHandler(db, pointsSvc)
	guildH := apirest.NewGuildHandler(db)

	api := r.Group("/api")
	{
		playersG := api.Group("/players")
		playersG.GET("", playerH.List)
		playersG.GET("/:id", playerH.Get)
		playersG.POST("", playerH.Create)
		playersG.PUT("/:id", playerH.Update)
		playersG.DELETE("/:id", playerH.Delete)

		itemsG := api.Group("/items")
		itemsG.GET("", itemH.List)
		itemsG.POST("", itemH.Create)

		guildsG := api.Group("/guilds")
		guildsG.GET("", guildH.List)
		guildsG.GET("/:id", guildH.Get)
		guildsG.POST("", guildH.Create)
		guildsG.PUT("/:id", guildH.Update)
		guildsG.DELETE("/:id", guildH.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
