package db

import (
	"time"

	"github.com/goboardhq/goboard/pkg/logger"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// WithLogger routes GORM's SQL log through the application logger.
func WithLogger(log *logger.Logger) DBOptions {
	return func(db *gorm.DB) error {
		db.Config.Logger = gormLogger.New(
			log.Log,
			gormLogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		)
		return nil
	}
}
