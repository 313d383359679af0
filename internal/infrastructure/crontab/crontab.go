package crontab

import (
	"context"
	"fmt"
	"time"

	"github.com/mileusna/crontab"

	"aistore-server/services/storefront-api/internal/config"
	"aistore-server/services/storefront-api/internal/domain/chat"
	"aistore-server/services/storefront-api/internal/infrastructure/logger"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

const cronJobTimeout = 5 * time.Minute

// Crontab runs the inbox housekeeping jobs: abandoned conversations are
// closed and idle agent sessions are pruned on a schedule.
type Crontab struct {
	ctab     *crontab.Crontab
	cfg      *config.Config
	inbox    *chat.Inbox
	sessions chat.SessionRepository
}

func NewCrontab(cfg *config.Config, inbox *chat.Inbox, sessions chat.SessionRepository) *Crontab {
	return &Crontab{
		ctab:     crontab.New(),
		cfg:      cfg,
		inbox:    inbox,
		sessions: sessions,
	}
}

func (c *Crontab) Run(ctx context.Context) error {
	if !c.cfg.ChatSweepEnabled {
		<-ctx.Done()
		return nil
	}

	// run once on startup so a restart never leaves stale threads open
	c.sweep(ctx)

	cronExpr := fmt.Sprintf("*/%d * * * *", c.cfg.ChatSweepIntervalMins)
	if err := c.ctab.AddJob(cronExpr, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), cronJobTimeout)
		defer cancel()
		c.sweep(jobCtx)
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to schedule chat sweep job")
	}
	log := logger.GetLogger()
	log.Info().Str("schedule", cronExpr).Msg("chat sweep scheduled")

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) sweep(ctx context.Context) {
	log := logger.GetLogger()

	closed, err := c.inbox.CloseAbandoned(ctx, c.cfg.ChatAbandonAfter)
	if err != nil {
		log.Error().Err(err).Msg("failed to close abandoned conversations")
	} else if closed > 0 {
		log.Info().Int64("closed", closed).Msg("abandoned conversations closed")
	}

	cutoff := time.Now().UTC().Add(-c.cfg.ChatSessionIdleCleanup)
	pruned, err := c.sessions.DeleteIdle(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to prune idle chat sessions")
	} else if pruned > 0 {
		log.Info().Int64("pruned", pruned).Msg("idle chat sessions pruned")
	}
}
