package routes

import (
	"context"
	"time"

	v1 "github.com/goboardhq/goboard/internal/api/v1"
	"github.com/goboardhq/goboard/internal/auth"
	"github.com/goboardhq/goboard/internal/config"
	"github.com/goboardhq/goboard/pkg/logger"
	storage "github.com/goboardhq/goboard/pkg/redis"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// NewRoutes wires the middleware chain and the route table.
func NewRoutes(ctx context.Context, app *fiber.App, cfg *config.Config, db *gorm.DB, log *logger.Logger, rclient *storage.RedisClient) {
	app.Use(
		logger.SetupLogger(log),
		recover.New(),
		cors.New(
			cors.Config{
				AllowOrigins:     cfg.AppURL,
				AllowCredentials: true,
				AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			},
		),
		compress.New(
			compress.Config{
				Level: compress.LevelBestCompression,
			},
		),
		limiter.New(
			limiter.Config{
				Expiration: 1 * time.Minute,
				Max:        120,
				KeyGenerator: func(c *fiber.Ctx) string {
					return c.IP()
				},
			},
		),
	)
	app.Use(log.Middleware())

	v1.Setup(db, rclient, log, cfg)

	opt := auth.Options{DB: db, Rclient: rclient, Logger: log}
	app.Use(auth.SessionMiddleware(opt))
	protected := auth.RequireUser(opt)

	api := app.Group("/api/v1")

	api.Get("/", v1.Index)
	api.Get("/categories", v1.ListCategories)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", v1.Register)
	authGroup.Post("/login", v1.Login)
	authGroup.Post("/logout", v1.Logout)
	authGroup.Post("/forgot-password", v1.ForgotPassword)
	authGroup.Post("/reset-password", v1.ResetPassword)
	authGroup.Post("/change-password", protected, v1.ChangePassword)

	api.Get("/me", protected, v1.Me)
	api.Get("/users/:username", v1.GetProfile)

	api.Get("/questions", v1.ListQuestions)
	api.Post("/questions", protected, v1.CreateQuestion)
	api.Get("/questions/:id", v1.GetQuestion)
	api.Put("/questions/:id", protected, v1.UpdateQuestion)
	api.Delete("/questions/:id", protected, v1.DeleteQuestion)
	api.Post("/questions/:id/vote", protected, v1.VoteQuestion)
	api.Post("/questions/:id/answers", protected, v1.CreateAnswer)
	api.Post("/questions/:id/comments", protected, v1.CreateQuestionComment)

	api.Get("/answers/recent", v1.RecentAnswers)
	api.Put("/answers/:id", protected, v1.UpdateAnswer)
	api.Delete("/answers/:id", protected, v1.DeleteAnswer)
	api.Post("/answers/:id/vote", protected, v1.VoteAnswer)
	api.Post("/answers/:id/comments", protected, v1.CreateAnswerComment)

	api.Put("/comments/:id", protected, v1.UpdateComment)
	api.Delete("/comments/:id", protected, v1.DeleteComment)

	go func() {
		<-ctx.Done()
		rclient.Close(log)
		log.Close()
	}()
}
