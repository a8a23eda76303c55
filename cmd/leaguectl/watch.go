package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/leaguedesk/internal/scheduler"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the scheduled standings audit until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(a.cfg.Audit.Schedule) == "" {
				return errors.New("audit schedule is empty; nothing to run")
			}
			return a.withEngine(cmd, func(ctx context.Context) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
				return a.watch(ctx)
			})
		},
	}
}

func (a *app) watch(ctx context.Context) error {
	sched, err := scheduler.New()
	if err != nil {
		return err
	}
	if _, err := scheduler.RegisterAuditJob(sched, a.engine.Store(), a.reporter, a.cfg.Audit.Schedule, a.cfg.Audit.Timeout); err != nil {
		_ = sched.Stop()
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sched.Start()
		log.Info().Str("schedule", a.cfg.Audit.Schedule).Msg("Watching; press Ctrl+C to stop")
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("Shutting down scheduler")
		return sched.Stop()
	})
	return g.Wait()
}
