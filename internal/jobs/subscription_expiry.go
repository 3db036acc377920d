package jobs

import (
	"context"
	"log/slog"
	"time"
)

const defaultExpiryTimeout = 5 * time.Minute

// SubscriptionExpirer is satisfied by services.SubscriptionService
type SubscriptionExpirer interface {
	ExpireLapsed(ctx context.Context) (int, error)
}

// SubscriptionExpiryJob marks lapsed subscriptions expired
type SubscriptionExpiryJob struct {
	subscriptions SubscriptionExpirer
	logger        *slog.Logger
	timeout       time.Duration
}

func NewSubscriptionExpiryJob(subscriptions SubscriptionExpirer, logger *slog.Logger) *SubscriptionExpiryJob {
	return &SubscriptionExpiryJob{
		subscriptions: subscriptions,
		logger:        logger.With("job", "subscription_expiry"),
		timeout:       defaultExpiryTimeout,
	}
}

// Run implements cron.Job
func (j *SubscriptionExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	expired, err := j.subscriptions.ExpireLapsed(ctx)
	if err != nil {
		j.logger.Error("Subscription expiry failed", "error", err, "expired", expired)
		return
	}
	j.logger.Info("Subscription expiry finished", "expired", expired, "duration", time.Since(start).String())
}
