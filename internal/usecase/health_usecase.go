package usecase

import (
	"context"
	"time"

	"talent-match/internal/domain"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthUsecase interface {
	Check(ctx context.Context) domain.HealthStatus
}

type Health struct {
	db    Pinger
	redis Pinger
	queue func() bool
	now   func() time.Time
}

// NewHealthUsecase accepts nil dependencies; they report unhealthy.
func NewHealthUsecase(db, redis Pinger, queueHealthy func() bool) *Health {
	return &Health{db: db, redis: redis, queue: queueHealthy, now: time.Now}
}

func (u *Health) Check(ctx context.Context) domain.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	st := domain.HealthStatus{ServerTime: u.now().UTC()}
	if u.db != nil {
		st.DatabaseHealthy = u.db.Ping(ctx) == nil
	}
	if u.redis != nil {
		st.RedisHealthy = u.redis.Ping(ctx) == nil
	}
	if u.queue != nil {
		st.QueueHealthy = u.queue()
	}
	return st
}
