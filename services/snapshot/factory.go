package snapshot

import (
	"context"
	"fmt"
	"lending/providers"
	"lending/providers/databaseProvider"
	redisprovider "lending/providers/redisProvider"
	"time"
)

// NewRepositoryFromConfig opens the snapshot backend selected by CACHE_BACKEND.
func NewRepositoryFromConfig(ctx context.Context, cfg providers.ConfigProvider) (Repository, error) {
	switch cfg.GetCacheBackend() {
	case "memory":
		return NewMemoryRepository(), nil
	case "redis":
		client := redisprovider.NewRedisProvider(cfg.GetRedisAddr())
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.GetRedisAddr(), err)
		}
		return NewRedisRepository(client, cfg.GetCacheTTL()), nil
	case "postgres":
		db, err := databaseProvider.NewPostgresProvider(cfg.GetDatabaseString())
		if err != nil {
			return nil, err
		}
		return NewSQLRepository(db.DB()), nil
	case "sqlite", "":
		db, err := databaseProvider.NewSQLiteProvider(cfg.GetSQLitePath())
		if err != nil {
			return nil, err
		}
		return NewSQLRepository(db.DB()), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.GetCacheBackend())
	}
}
