package store

import (
	"context"
	"fmt"

	"ecgenius/config"
	"ecgenius/database"
	"ecgenius/logger"
)

// New 按 store.driver 创建存储，并统一套上超时
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (RecordStore, error) {
	var (
		s   RecordStore
		err error
	)
	switch cfg.Store.Driver {
	case "memory":
		s = NewMemoryStore()
	case "dynamodb", "":
		s, err = NewDynamoStoreFromConfig(ctx, cfg.Store)
	case "redis":
		s, err = NewRedisStoreFromConfig(ctx, cfg.Store.Redis)
	case "mysql", "postgres", "sqlite":
		db, dbErr := database.Open(cfg.Store, cfg.Server.Mode)
		if dbErr != nil {
			return nil, dbErr
		}
		s = NewGormStore(db)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if log != nil {
		log.Info("record store ready", "driver", cfg.Store.Driver, "timeout", cfg.Store.Timeout.String())
	}
	return WithTimeout(s, cfg.Store.Timeout), nil
}
