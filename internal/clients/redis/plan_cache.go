package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/services"
	"github.com/brightloop/brightloop-backend/internal/types"
	"github.com/brightloop/brightloop-backend/internal/utils"
)

// PlanCache is a redis read-through cache for daily plans. Every failure
// path is a silent miss; the daily_plan row stays the source of truth.
type PlanCache struct {
	client *goredis.Client
	log    *logger.Logger
	ttl    time.Duration
}

// NewPlanCache returns nil when REDIS_ADDR is unset so the planner can run
// cacheless in development.
func NewPlanCache(baseLog *logger.Logger) *PlanCache {
	cacheLog := baseLog.With("client", "PlanCache")
	addr := utils.GetEnv("REDIS_ADDR", "", cacheLog)
	if addr == "" {
		cacheLog.Info("REDIS_ADDR unset; daily-plan cache disabled")
		return nil
	}
	ttlMinutes := utils.GetEnvAsInt("PLAN_CACHE_TTL_MINUTES", 360, cacheLog)
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: utils.GetEnv("REDIS_PASSWORD", "", cacheLog),
		DB:       utils.GetEnvAsInt("REDIS_DB", 0, cacheLog),
	})
	return &PlanCache{
		client: client,
		log:    cacheLog,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
	}
}

var _ services.PlanCache = (*PlanCache)(nil)

func planKey(userID uuid.UUID, planDate time.Time) string {
	return fmt.Sprintf("planner:plan:%s:%s", userID, planDate.UTC().Format("2006-01-02"))
}

func (c *PlanCache) Get(ctx context.Context, userID uuid.UUID, planDate time.Time) (*types.DailyPlan, bool) {
	raw, err := c.client.Get(ctx, planKey(userID, planDate)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("plan cache read failed", "error", err)
		}
		return nil, false
	}
	var plan types.DailyPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		c.log.Warn("plan cache payload corrupt; dropping", "error", err)
		c.client.Del(ctx, planKey(userID, planDate))
		return nil, false
	}
	return &plan, true
}

func (c *PlanCache) Set(ctx context.Context, plan *types.DailyPlan) {
	raw, err := json.Marshal(plan)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, planKey(plan.UserID, plan.PlanDate), raw, c.ttl).Err(); err != nil {
		c.log.Warn("plan cache write failed", "error", err)
	}
}
