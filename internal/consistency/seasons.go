package consistency

import (
	"context"
	"errors"
	"fmt"

	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/store"
)

// The active season is also recorded in a singleton pointer document so
// readers never have to scan seasons for the isActive flag.
const (
	GlobalsCollection = "globals"
	ActiveSeasonID    = "active-season"
)

// seasonSingleActive deactivates every active season before a new active
// season is created. Updates never sweep; one that deactivates the pointed
// season clears the pointer.
func seasonSingleActive(ctx context.Context, ev *Event) error {
	tx := ev.Engine.Store()

	switch ev.Operation {
	case OpCreate:
		if !ev.Data.Bool("isActive") {
			return nil
		}
		if _, err := ev.Engine.UpdateWhere(ctx, models.CollectionSeasons,
			store.Filter{"isActive": true}, store.Data{"isActive": false}); err != nil {
			return fmt.Errorf("deactivate seasons: %w", err)
		}
		return setActiveSeason(ctx, tx, ev.ID)
	case OpUpdate:
		if ev.Data.Has("isActive") && !ev.Data.Bool("isActive") {
			return clearActiveSeason(ctx, tx, ev.ID)
		}
	}
	return nil
}

func setActiveSeason(ctx context.Context, st store.Store, seasonID string) error {
	_, err := st.Update(ctx, GlobalsCollection, ActiveSeasonID, store.Data{"season": seasonID}, 0)
	if errors.Is(err, store.ErrNotFound) {
		_, err = st.Create(ctx, GlobalsCollection, ActiveSeasonID, store.Data{"season": seasonID})
	}
	if err != nil {
		return fmt.Errorf("point active season at %s: %w", seasonID, err)
	}
	return nil
}

func clearActiveSeason(ctx context.Context, st store.Store, seasonID string) error {
	pointer, err := st.FindByID(ctx, GlobalsCollection, ActiveSeasonID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if pointer.Data.Ref("season") != seasonID {
		return nil
	}
	if _, err := st.Update(ctx, GlobalsCollection, ActiveSeasonID, store.Data{"season": nil}, pointer.Version); err != nil {
		return fmt.Errorf("clear active season: %w", err)
	}
	return nil
}

// ActiveSeason returns the season the active-season pointer names.
func (e *Engine) ActiveSeason(ctx context.Context) (store.Document, error) {
	pointer, err := e.store.FindByID(ctx, GlobalsCollection, ActiveSeasonID)
	if err != nil {
		return store.Document{}, fmt.Errorf("active season: %w", err)
	}
	id := pointer.Data.Ref("season")
	if id == "" {
		return store.Document{}, fmt.Errorf("active season: %w", store.ErrNotFound)
	}
	return e.store.FindByID(ctx, models.CollectionSeasons, id)
}
