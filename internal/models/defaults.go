package models

import "github.com/codr1/leaguedesk/internal/store"

// ApplyDefaults fills the default values a new document starts with.
// Keys already present in data are left alone.
func ApplyDefaults(collection string, data store.Data) {
	switch collection {
	case CollectionSeasons:
		setDefault(data, "status", SeasonStatusPlanning)
		setDefault(data, "isActive", false)
	case CollectionSessions, CollectionConferences, CollectionDivisions:
		setDefault(data, "isActive", false)
	case CollectionGames:
		setDefault(data, "status", GameStatusScheduled)
		setDefault(data, "score", store.Data{"homeScore": 0, "awayScore": 0, "overtime": false})
	case CollectionTeams:
		setDefault(data, "status", "pending")
		setDefault(data, "stats", store.Data{
			"wins": 0, "losses": 0, "ties": 0,
			"pointsFor": 0, "pointsAgainst": 0, "gamesPlayed": 0,
		})
	case CollectionOfficials, CollectionLocations:
		setDefault(data, "isActive", true)
	}
}

func setDefault(data store.Data, key string, value any) {
	if _, ok := data[key]; !ok {
		data[key] = value
	}
}
