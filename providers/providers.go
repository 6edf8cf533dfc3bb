package providers

import (
	"context"
	"lending/models"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mock_providers.go -package=providers lending/providers AuthMiddlewareService,ZapLoggerProvider

type AuthMiddlewareService interface {
	JWTAuthMiddleware() func(http.Handler) http.Handler
	RequireRole(roles ...models.Role) func(http.Handler) http.Handler
	GetUserFromContext(r *http.Request) (models.User, error)
}

type ConfigProvider interface {
	LoadEnv() error
	GetEnv() string
	GetServerPort() string
	GetRemoteAPIURL() string
	GetRemoteAPITimeout() time.Duration
	GetRemoteJWTSecret() string
	GetStaleAfter() time.Duration
	GetCacheBackend() string
	GetSQLitePath() string
	GetDatabaseString() string
	GetRedisAddr() string
	GetCacheTTL() time.Duration
}

type DBProvider interface {
	DB() *sqlx.DB
	Close() error
}

type RedisProvider interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

type ZapLoggerProvider interface {
	InitLogger()
	SyncLogger()
	GetLogger() *zap.Logger
}

type MetricsProvider interface {
	ObserveAPICall(operation string, err error)
	IncCacheFallback(collection string)
	ObserveMutation(action string, err error)
	Handler() http.Handler
}
