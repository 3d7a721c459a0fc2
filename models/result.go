package models

// Result is one side of a game. TeamID stays nil while the participant is an
// unresolved bracket reference; the cascade fills it in exactly once.
type Result struct {
	ID         int  `json:"id" db:"id"`
	GameID     int  `json:"game_id" db:"game_id"`
	TeamID     *int `json:"team_id,omitempty" db:"team_id"`
	IsHome     bool `json:"is_home" db:"is_home"`
	FirstHalf  *int `json:"fh,omitempty" db:"fh"`
	SecondHalf *int `json:"sh,omitempty" db:"sh"`
	PA         *int `json:"pa,omitempty" db:"pa"`

	Team *Team `json:"team,omitempty" db:"-"`
}

// Total is the full-game score, treating missing halves as zero.
func (r *Result) Total() int {
	total := 0
	if r.FirstHalf != nil {
		total += *r.FirstHalf
	}
	if r.SecondHalf != nil {
		total += *r.SecondHalf
	}
	return total
}

// HasScore reports whether a first-half score was entered. The original
// scorecard always writes fh before sh, so fh is the completeness marker.
func (r *Result) HasScore() bool {
	return r.FirstHalf != nil
}

func (r *Result) PointsAgainst() int {
	if r.PA == nil {
		return 0
	}
	return *r.PA
}

func (r *Result) TeamName() string {
	if r.Team == nil {
		return ""
	}
	return r.Team.Name
}
