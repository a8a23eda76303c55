package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/notify"
	"github.com/codr1/leaguedesk/internal/standings"
	"github.com/codr1/leaguedesk/internal/store"
)

const AuditJobName = "standings_audit"

// RegisterAuditJob schedules the standings audit. Drift is reported
// through reporter; the job never repairs on its own.
func RegisterAuditJob(s *Service, st store.Store, reporter notify.Reporter, cronExpr string, timeout time.Duration) (gocron.Job, error) {
	if st == nil {
		return nil, fmt.Errorf("audit job requires a store")
	}

	jobLogger := log.With().
		Str("component", "standings_audit_job").
		Str("job_name", AuditJobName).
		Str("cron", cronExpr).
		Logger()

	return s.AddJob(AuditJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		drifts, err := standings.AuditAndReport(ctx, st, reporter)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Standings audit failed")
			return
		}
		if len(drifts) == 0 {
			jobLogger.Info().Msg("Standings audit found no drift")
			return
		}
		jobLogger.Warn().Int("drifted_teams", len(drifts)).Msg("Standings audit found drift")
	})
}
