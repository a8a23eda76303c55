package consistency

import (
	"context"

	"github.com/codr1/leaguedesk/internal/models"
)

// teamRecord renders currentRecord from the incoming stats object alone;
// counters the write leaves out count as 0.
func teamRecord(_ context.Context, ev *Event) error {
	if !ev.Data.Has("stats") {
		return nil
	}
	ev.Data["currentRecord"] = models.StatsFromData(ev.Data.Map("stats")).Record()
	return nil
}
