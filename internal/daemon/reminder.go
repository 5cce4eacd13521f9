package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"bandroom/internal/repository"
	"bandroom/internal/schedule"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// ReminderTask publishes a digest of the day's rehearsals every morning:
// written to Redis for the frontend to pick up cheaply, and logged. Runs
// under the daemon supervisor.
func ReminderTask(logger *slog.Logger, repo repository.Repository, redisClient *redis.Client) DaemonFunc {
	return func(ctx context.Context, name string) error {
		c := cron.New()

		_, err := c.AddFunc("0 7 * * *", func() {
			if err := publishDigest(ctx, logger, repo, redisClient); err != nil {
				logger.ErrorContext(ctx, "Failed to publish rehearsal digest", "daemon", name, "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("schedule reminder job: %w", err)
		}

		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	}
}

func publishDigest(ctx context.Context, logger *slog.Logger, repo repository.Repository, redisClient *redis.Client) error {
	day := schedule.NewDayKey(time.Now())

	rehearsals, err := repo.ListRehearsalsOnDay(ctx, string(day))
	if err != nil {
		return fmt.Errorf("list rehearsals: %w", err)
	}
	if len(rehearsals) == 0 {
		logger.DebugContext(ctx, "No rehearsals today", "day", day)
		return nil
	}

	digest, err := json.Marshal(rehearsals)
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}

	key := fmt.Sprintf("rehearsal_digest:%s", day)
	if err := redisClient.Set(ctx, key, digest, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("cache digest: %w", err)
	}

	logger.InfoContext(ctx, "Rehearsal digest published", "day", day, "rehearsals", len(rehearsals))
	return nil
}
