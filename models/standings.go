package models

// StandingsRow is a derived ranking row, never persisted.
type StandingsRow struct {
	Standing      string `json:"standing,omitempty"`
	TeamID        int    `json:"team_id"`
	TeamName      string `json:"team"`
	Points        int    `json:"points"`
	PointsFor     int    `json:"pf"`
	PointsAgainst int    `json:"pa"`
	Diff          int    `json:"diff"`
	// DFFLPoints is only set on final tables (fixed per-rank curve).
	DFFLPoints int `json:"dffl,omitempty"`
}

// ScheduleRow is one display-ready line of a gameday schedule. Home and Away
// carry either concrete team names or human-readable placeholders
// ("Winner of A Game 1", "TBD").
type ScheduleRow struct {
	GameID     int        `json:"game_id"`
	Scheduled  string     `json:"scheduled"`
	Field      int        `json:"field"`
	Stage      string     `json:"stage"`
	Standing   string     `json:"standing"`
	Home       string     `json:"home"`
	PointsHome *int       `json:"points_home,omitempty"`
	PointsAway *int       `json:"points_away,omitempty"`
	Away       string     `json:"away"`
	Officials  string     `json:"officials"`
	Status     GameStatus `json:"status"`
}
