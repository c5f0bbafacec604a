package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"skillswap/internal/middleware"
)

const (
	UserKeyPrefix = "user:%d"
	SkillListKey  = "skills:all"
)

// Keyspaces label cache metrics.
const (
	KeyspaceUser   = "user"
	KeyspaceSkills = "skills"
)

const (
	UserTTL      = 5 * time.Minute
	SkillListTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// Invalidate deletes keys, logging but otherwise ignoring Redis failures.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
	}
}

// InvalidateUser drops the cached user.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateSkills drops the cached skill catalogue.
func InvalidateSkills(ctx context.Context) {
	Invalidate(ctx, SkillListKey)
}
