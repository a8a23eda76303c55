package consistency

import (
	"context"
	"fmt"

	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/store"
)

func playerFullName(_ context.Context, ev *Event) error {
	first, _ := ev.Value("firstName").(string)
	last, _ := ev.Value("lastName").(string)
	if first == "" || last == "" {
		return nil
	}
	ev.Data["name"] = first + " " + last
	return nil
}

// playerJerseyUnique allows each jersey number once per team.
func playerJerseyUnique(ctx context.Context, ev *Event) error {
	team := store.RefID(ev.Value("team"))
	number, ok := store.ToInt(ev.Value("jerseyNumber"))
	if team == "" || !ok {
		return nil
	}

	holders, err := ev.Engine.Store().Find(ctx, models.CollectionPlayers, store.Filter{
		"team":         team,
		"jerseyNumber": number,
	})
	if err != nil {
		return fmt.Errorf("find jersey holders: %w", err)
	}
	for _, holder := range holders {
		if holder.ID != ev.ID {
			return models.NewFieldError(models.CollectionPlayers, "jerseyNumber",
				fmt.Sprintf("Jersey number %d is already taken by %s", number, holder.Data.String("name")))
		}
	}
	return nil
}
