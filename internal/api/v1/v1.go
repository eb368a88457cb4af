package v1

import (
	"github.com/goboardhq/goboard/internal/config"
	"github.com/goboardhq/goboard/pkg/logger"
	storage "github.com/goboardhq/goboard/pkg/redis"
	"github.com/goboardhq/goboard/pkg/utils"
	"gorm.io/gorm"
)

var (
	DB       *gorm.DB
	Redis    *storage.RedisClient
	Logger   *logger.Logger
	Cfg      *config.Config
	EmailCfg = utils.EmailConfig{
		SMTPHost:  "0.0.0.0",
		SMTPPort:  1025,
		AppURL:    "http://localhost:3000",
		FromEmail: "no-reply@goboard.dev",
	}
	Validator = utils.NewValidator()
)

// Setup hands the handlers their shared dependencies. Call once at startup,
// before any route is served.
func Setup(db *gorm.DB, rclient *storage.RedisClient, log *logger.Logger, cfg *config.Config) {
	DB = db
	Redis = rclient
	Logger = log
	Cfg = cfg
	EmailCfg = utils.EmailConfig{
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.SMTPUsername,
		SMTPPassword: cfg.SMTPPassword,
		AppURL:       cfg.AppURL,
		FromEmail:    cfg.FromEmail,
	}
}
