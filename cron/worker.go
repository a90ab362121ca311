package cron

import (
	"context"
	"encoding/json"
	"time"

	"trimly/config"
	"trimly/models"
	"trimly/services/notification"
	"trimly/services/reminder"
	"trimly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// TypeReminderSweep scans for bookings starting within 24 hours.
	TypeReminderSweep = "reminder:sweep"
	// TypePushDispatch delivers one queued push notification.
	TypePushDispatch = "push:dispatch"

	sweepInterval = time.Hour
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitWorker runs the async worker in the background: the periodic reminder
// sweep plus queued push dispatch.
func InitWorker(reminderSvc reminder.ReminderService, notifSvc notification.NotificationService) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSweep, handleSweepTask(reminderSvc))
	mux.HandleFunc(TypePushDispatch, handlePushTask(notifSvc))

	go func() {
		logger.Info("starting async worker")
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("async worker failed to start",
					zap.Int("attempt", attempt), zap.Error(err))
				if attempt == maxAttempts {
					logger.Fatal("async worker gave up after max attempts")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
				continue
			}
			break
		}
	}()

	go enqueueSweeps(logger)
	return srv
}

// enqueueSweeps drops a sweep task on the queue every hour. The sweep itself
// is idempotent, so an extra run after a restart is harmless.
func enqueueSweeps(logger *zap.Logger) {
	client := asynq.NewClient(redisOpts())
	defer client.Close()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	enqueue := func() {
		task := asynq.NewTask(TypeReminderSweep, nil)
		if _, err := client.Enqueue(task, asynq.MaxRetry(3)); err != nil {
			logger.Warn("failed to enqueue reminder sweep", zap.Error(err))
		}
	}

	enqueue()
	for range ticker.C {
		enqueue()
	}
}

func handleSweepTask(reminderSvc reminder.ReminderService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		result, err := reminderSvc.Sweep(ctx)
		if err != nil {
			utils.GetLogger().Error("reminder sweep task failed", zap.Error(err))
			return err
		}
		utils.GetLogger().Info("reminder sweep task done", zap.Int("processed", result.Processed))
		return nil
	}
}

func handlePushTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.PushPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("invalid push payload", zap.Error(err))
			return err
		}
		if err := notifSvc.Dispatch(ctx, p); err != nil {
			utils.GetLogger().Warn("push dispatch failed",
				zap.String("target", string(p.Target)), zap.String("id", p.ID), zap.Error(err))
			return err
		}
		return nil
	}
}

// EnqueuePush queues a push payload for asynchronous delivery.
func EnqueuePush(client *asynq.Client, payload models.PushPayload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = client.Enqueue(asynq.NewTask(TypePushDispatch, b), asynq.MaxRetry(3))
	return err
}
