package reminder

import (
	"context"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/snapmeal/snapmeal-backend/internal/bot/texts"
	"github.com/snapmeal/snapmeal-backend/internal/clients"
	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/utils"
)

// Job sends the morning summary: yesterday's diary totals for every user who
// left the reminder enabled. Users without a diary entry for yesterday are
// skipped.
type Job struct {
	log         *logger.Logger
	backend     clients.Backend
	api         *tgbotapi.BotAPI
	catalog     *texts.Catalog
	concurrency int
}

func NewJob(baseLog *logger.Logger, backend clients.Backend, api *tgbotapi.BotAPI, catalog *texts.Catalog) *Job {
	return &Job{
		log:         baseLog.With("service", "ReminderJob"),
		backend:     backend,
		api:         api,
		catalog:     catalog,
		concurrency: utils.GetEnvAsInt("REMINDER_CONCURRENCY", 8, baseLog),
	}
}

// Run performs a single reminder sweep. Per-user failures are logged and do
// not abort the sweep.
func (j *Job) Run(ctx context.Context) error {
	users, err := j.backend.ListReminderUsers(ctx)
	if err != nil {
		return err
	}
	yesterday := time.Now().AddDate(0, 0, -1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)
	var sent atomic.Int64
	for _, user := range users {
		user := user
		g.Go(func() error {
			if j.notify(ctx, user, yesterday) {
				sent.Add(1)
			}
			return nil
		})
	}
	err = g.Wait()
	j.log.Info("Reminder sweep finished", "users", len(users), "sent", sent.Load())
	return err
}

func (j *Job) notify(ctx context.Context, user *clients.UserProfile, date time.Time) bool {
	diary, err := j.backend.GetDiaryByDate(ctx, user.ID, date)
	if err != nil {
		j.log.Warn("Diary fetch failed", "telegram_id", user.TelegramID, "error", err)
		return false
	}
	if diary == nil {
		return false
	}

	text := j.catalog.F(user.Language, "reminder_message",
		diary.TotalCalories, diary.TotalProtein, diary.TotalFat, diary.TotalCarbs)
	if _, err := j.api.Send(tgbotapi.NewMessage(user.TelegramID, text)); err != nil {
		// Blocked bots and deleted accounts land here.
		j.log.Warn("Reminder send failed", "telegram_id", user.TelegramID, "error", err)
		return false
	}
	return true
}

// RunDaily sweeps once every day at the given local hour until the context is
// canceled.
func (j *Job) RunDaily(ctx context.Context, hour int) error {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		j.log.Info("Next reminder sweep scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := j.Run(ctx); err != nil {
			j.log.Error("Reminder sweep failed", "error", err)
		}
	}
}
