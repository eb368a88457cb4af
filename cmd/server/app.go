package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	routes "github.com/goboardhq/goboard/internal/api"
	"github.com/goboardhq/goboard/internal/auth"
	"github.com/goboardhq/goboard/internal/config"
	"github.com/goboardhq/goboard/internal/db"
	"github.com/goboardhq/goboard/internal/models"
	"github.com/goboardhq/goboard/internal/models/forum"
	"github.com/goboardhq/goboard/pkg/logger"
	storage "github.com/goboardhq/goboard/pkg/redis"
	"github.com/goboardhq/goboard/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	auth.SetSecret(cfg.JWTSecret)
	if cfg.DefaultCategory != "" {
		forum.DefaultCategoryName = cfg.DefaultCategory
	}

	log, err := logger.NewLogger(logger.WithAppName("goboard"))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Close()

	redisClient, err := storage.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize Redis")
		panic(err)
	}
	defer redisClient.Close(log)

	gormDB, err := db.NewDB(
		ctx,
		cfg.DSN(),
		models.RegisterModels(),
		db.WithLogger(log),
	)
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize PostgreSQL database")
		panic("DB init failed")
	}
	defer db.CloseDB(log)

	if err := forum.SeedCategories(ctx, gormDB); err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to seed categories")
		panic("Category seeding failed")
	}

	app := fiber.New()

	routes.NewRoutes(ctx, app, cfg, gormDB, log, redisClient)

	go func() {
		<-ctx.Done()
		log.Info(context.Background()).Logs("Shutting down server")
		app.Shutdown()
	}()

	log.Info(ctx).WithMeta(utils.Map{"addr": cfg.ServerAddr}).Logs("Server listening")
	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Server stopped with error")
	}
}
