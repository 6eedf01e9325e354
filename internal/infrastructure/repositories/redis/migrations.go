package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	schemaVersionKey     = "inknet:schema:version"
	currentSchemaVersion = 1
)

type Migration struct {
	Version int
	Up      func(ctx context.Context, client *redis.Client) error
}

// Migrate brings the Redis schema up to the current version.
func Migrate(ctx context.Context, client *redis.Client, logger *zap.SugaredLogger) error {
	version, err := getSchemaVersion(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version >= currentSchemaVersion {
		return nil
	}

	for _, m := range migrations() {
		if m.Version <= version {
			continue
		}
		if logger != nil {
			logger.Infow("running migration", "version", m.Version)
		}
		if err := m.Up(ctx, client); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
		if err := client.Set(ctx, schemaVersionKey, m.Version, 0).Err(); err != nil {
			return fmt.Errorf("failed to update schema version: %w", err)
		}
	}

	if logger != nil {
		logger.Infow("schema migrated", "version", currentSchemaVersion)
	}
	return nil
}

func getSchemaVersion(ctx context.Context, client *redis.Client) (int, error) {
	val, err := client.Get(ctx, schemaVersionKey).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return val, nil
}

func migrations() []Migration {
	return []Migration{
		{
			// Key layout only, nothing to pre-create: boards live at
			// inknet:board:<id>, per-user board indexes at
			// inknet:user:<id>:boards, users at inknet:user:<id> with a
			// username index at inknet:username:<name>.
			Version: 1,
			Up: func(ctx context.Context, client *redis.Client) error {
				return nil
			},
		},
	}
}
