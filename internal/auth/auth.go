package auth

import (
	"github.com/goboardhq/goboard/pkg/logger"
	storage "github.com/goboardhq/goboard/pkg/redis"
	"gorm.io/gorm"
)

// Options carries the dependencies the auth middleware needs.
type Options struct {
	DB      *gorm.DB
	Rclient *storage.RedisClient
	Logger  *logger.Logger
}
