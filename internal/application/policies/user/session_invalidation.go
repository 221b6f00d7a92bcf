package policies

import (
	"context"

	"certify-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DestroyUserSessions removes every session of a user: each session:<sid> key and
// the user_sessions:<user_id> set that tracks them.
func DestroyUserSessions(ctx context.Context, rdb *redis.Client, userID string) {
	if rdb == nil || userID == "" {
		return
	}
	key := middleware.UserSessionsPrefix + userID
	sessionIDs, err := rdb.SMembers(ctx, key).Result()
	if err != nil || len(sessionIDs) == 0 {
		rdb.Del(ctx, key)
		return
	}
	for _, sid := range sessionIDs {
		rdb.Del(ctx, middleware.SessionRedisPrefix+sid)
	}
	rdb.Del(ctx, key)
}
