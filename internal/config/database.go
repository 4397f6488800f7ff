package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB is the shared database handle.
var DB *gorm.DB

// GormConfig is used for every connection, tests included: errors are
// translated to gorm's dialect-neutral sentinels and timestamps are UTC.
func GormConfig(l *zap.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: gormLogger.New(
			zap.NewStdLog(l),
			gormLogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

// Dialector picks the driver from DB_DRIVER: mysql (default) or sqlite.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// InitDB opens the database configured by DB_DRIVER / DB_DSN.
func InitDB() {
	dialector, err := Dialector(os.Getenv("DB_DRIVER"), os.Getenv("DB_DSN"))
	if err != nil {
		log.Fatal(err)
	}

	DB, err = gorm.Open(dialector, GormConfig(Logger))
	if err != nil {
		Logger.Fatal("Error connecting to the database", zap.Error(err))
	}

	sqlDB, err := DB.DB()
	if err != nil {
		Logger.Fatal("Error getting raw DB", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(GetenvInt("DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(GetenvInt("DB_MAX_IDLE_CONNS", 25))
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	Logger.Info("Database connected", zap.String("driver", Getenv("DB_DRIVER", "mysql")))
}
