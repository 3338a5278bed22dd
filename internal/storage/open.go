package storage

import (
	"io"

	"github.com/xelth-com/recoverydesk/internal/config"
	"github.com/xelth-com/recoverydesk/internal/database"
	"go.uber.org/zap"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open picks the persistence backend named by STORE_DRIVER
func Open(cfg *config.Config, log *zap.Logger) (Store, io.Closer, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn("Using in-memory store, records are lost on restart")
		return NewMemoryStore(), nopCloser{}, nil

	case config.DriverRedis:
		s, err := NewRedisStore(RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case config.DriverPostgres:
		db, err := database.Connect(cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewGormStore(db.DB)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, db, nil

	default:
		db, err := database.OpenSQLite(cfg.Store.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewGormStore(db.DB)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, db, nil
	}
}
