package main

import (
	"context"
	"fmt"
	"log"
	"os"

	apirest "github.com/azerothdev/azeroth-api/api/rest"
	"github.com/azerothdev/azeroth-api/audit"
	"github.com/azerothdev/azeroth-api/cache"
	"github.com/azerothdev/azeroth-api/config"
	dbadapter "github.com/azerothdev/azeroth-api/db"
	"github.com/azerothdev/azeroth-api/game/achievement"
	mw "github.com/azerothdev/azeroth-api/middleware"
	"github.com/azerothdev/azeroth-api/model"
	"github.com/azerothdev/azeroth-api/scheduler"
	"github.com/azerothdev/azeroth-api/seed"
	"github.com/gin-gonic/gin"
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

	if len(cfg.Security.AdminCIDRs) == 0 {
		logger.Warn("security.admin_cidrs is empty; admin endpoints accept any source address")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	if err := seed.Run(db, logger); err != nil {
		log.Fatalf("seed: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(context.Background())

	// ---- Cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Game Systems ----
	tracker := achievement.NewTracker(db, logger)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	authH := apirest.NewAuthHandler(db, c, cfg.Security)
	playerH := apirest.NewPlayerHandler(db, tracker, auditSvc, cfg.Game)
	catalogH := apirest.NewCatalogHandler(db)
	guildH := apirest.NewGuildHandler(db, cfg.Game)
	achH := apirest.NewAchievementHandler(db, cfg.Game)
	progH := apirest.NewProgressHandler(db, tracker, auditSvc)
	rankH := apirest.NewRankingHandler(db, c, cfg.Game, logger)
	adminH := apirest.NewAdminHandler(db, sched, auditSvc)

	// ---- Periodic Scheduler Tasks ----
	sched.AddTicker("ranking_refresh", cfg.Game.RankingRefresh, func() {
		if _, err := rankH.RefreshRanking(context.Background()); err != nil {
			logger.Warn("ranking refresh failed", zap.Error(err))
		}
	})
	sched.AddTicker("audit_cleanup", cfg.Game.AuditCleanupEvery, func() {
		if _, err := auditSvc.Cleanup(context.Background(), cfg.Game.AuditRetention); err != nil {
			logger.Warn("audit cleanup failed", zap.Error(err))
		}
	})

	authed := mw.Auth(cfg.Security, c)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/register", authH.Register)
		authG.POST("/login", authH.Login)
		authG.POST("/logout", authed, authH.Logout)
		authG.POST("/refresh", authed, authH.Refresh)

		playersG := api.Group("/players")
		playersG.Use(authed)
		playersG.POST("", playerH.Create)
		playersG.GET("/list", playerH.List)
		playersG.GET("/:id", playerH.Detail)
		playersG.PUT("/:id", playerH.Update)
		playersG.DELETE("/:id", playerH.Delete)
		playersG.PUT("/:id/guild", playerH.AssignGuild)
		playersG.DELETE("/:id/guild", playerH.RemoveGuild)
		playersG.PUT("/:id/experience", playerH.GrantExperience)
		playersG.PUT("/:id/achievements/init", playerH.InitAchievements)
		playersG.GET("/:id/achievements", playerH.ListAchievements)

		factionsG := api.Group("/factions")
		factionsG.Use(authed)
		factionsG.GET("/list", catalogH.ListFactions)
		factionsG.GET("/:id", catalogH.FactionDetail)

		racesG := api.Group("/races")
		racesG.Use(authed)
		racesG.GET("/list", catalogH.ListRaces)
		racesG.GET("/:id", catalogH.RaceDetail)
		racesG.POST("", mw.RequireAdmin(), catalogH.CreateRace)
		racesG.PUT("/:id", mw.RequireAdmin(), catalogH.UpdateRace)
		racesG.DELETE("/:id", mw.RequireAdmin(), catalogH.DeleteRace)

		classesG := api.Group("/classes")
		classesG.Use(authed)
		classesG.GET("/list", catalogH.ListClasses)
		classesG.GET("/:id", catalogH.ClassDetail)

		api.GET("/expansions/list", authed, catalogH.ListExpansions)

		guildsG := api.Group("/guilds")
		guildsG.Use(authed)
		guildsG.POST("", mw.RequireAdmin(), guildH.Create)
		guildsG.GET("/list", guildH.List)
		guildsG.GET("/:id", guildH.Detail)
		guildsG.PUT("/:id", mw.RequireAdmin(), guildH.Update)
		guildsG.DELETE("/:id", mw.RequireAdmin(), guildH.Delete)
		guildsG.GET("/:id/player-count", guildH.PlayerCount)

		achG := api.Group("/achievements")
		achG.Use(authed)
		achG.GET("/list", achH.List)
		achG.GET("/:id", achH.Detail)
		achG.POST("", mw.RequireAdmin(), achH.Create)
		achG.PUT("/:id", mw.RequireAdmin(), achH.Update)
		achG.DELETE("/:id", mw.RequireAdmin(), achH.Delete)

		api.PUT("/progress/:playerID/:achievementID", authed, progH.Advance)

		rankG := api.Group("/ranking")
		rankG.Use(authed)
		rankG.GET("/exp", rankH.TopExp)

		adminG := api.Group("/admin")
		adminG.Use(authed, mw.RequireAdmin(), mw.IPWhitelist(cfg.Security.AdminCIDRs))
		adminG.GET("/metrics", adminH.Metrics)
		adminG.GET("/scheduler", adminH.Scheduler)
		adminG.POST("/users/:id/ban", adminH.BanUser)
		adminG.POST("/ranking/refresh", rankH.Refresh)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
