package app

import (
	"context"
	"fmt"

	"github.com/quoteverse/core/internal/modules/digest/dispatch"
	pkgcron "github.com/quoteverse/core/internal/pkg/cron"
	"go.uber.org/zap"
)

type digestRunner interface {
	Dispatch(ctx context.Context, req dispatch.Request) (*dispatch.Result, error)
}

type alerter interface {
	Push(ctx context.Context, title, body string) error
}

// registerCronJobs registers all scheduled background jobs. digestSpec is
// the weekly digest cron expression.
func registerCronJobs(sched *pkgcron.Scheduler, digestSpec string, svc *Services, logger *zap.Logger) error {
	return sched.Register(pkgcron.Job{
		Name:        "weekly_digest",
		Description: "Send the weekly digest to every eligible subscriber",
		Spec:        digestSpec,
		Fn:          weeklyDigestJob(svc.Digest, svc.Alerts, logger.Named("CronService")),
	})
}

func weeklyDigestJob(runner digestRunner, alerts alerter, logger *zap.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		result, err := runner.Dispatch(ctx, dispatch.Request{})
		if err != nil {
			logger.Warn("weekly digest failed", zap.Error(err))
			pushAlert(ctx, alerts, logger, "Weekly digest failed", err.Error())
			return err
		}
		logger.Info("weekly digest finished",
			zap.Int("sent", result.RecipientCount),
			zap.Int("failed", result.FailureCount),
			zap.String("message", result.Message),
		)
		if result.FailureCount > 0 {
			pushAlert(ctx, alerts, logger, "Weekly digest had failures",
				fmt.Sprintf("%d sent, %d failed", result.RecipientCount, result.FailureCount))
		}
		return nil
	}
}

func pushAlert(ctx context.Context, alerts alerter, logger *zap.Logger, title, body string) {
	if err := alerts.Push(ctx, title, body); err != nil {
		logger.Warn("failed to push alert", zap.Error(err))
	}
}
