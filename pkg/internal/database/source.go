package database

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var C *gorm.DB

func NewGorm() error {
	var err error
	dialector := postgres.Open(viper.GetString("database.dsn"))
	C, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(&log.Logger, logger.Config{
			SlowThreshold:             5 * time.Second,
			IgnoreRecordNotFoundError: true,
			LogLevel:                  logger.Warn,
		}),
	})

	return err
}
