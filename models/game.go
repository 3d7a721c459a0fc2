package models

import "time"

type GameStatus string

const (
	GameStatusPlanned   GameStatus = "planned"
	GameStatusStarted   GameStatus = "started"
	GameStatusHalftime1 GameStatus = "halftime_1"
	GameStatusHalftime2 GameStatus = "halftime_2"
	GameStatusFinished  GameStatus = "finished"
)

// Game is one fixture of a gameday. Stage is the round label ("Vorrunde",
// "Semi", ...), Standing the slot label inside that stage ("P1", "A Game 1").
type Game struct {
	ID          int        `json:"id" db:"id"`
	GamedayID   int        `json:"gameday_id" db:"gameday_id"`
	Field       int        `json:"field" db:"field"`
	Scheduled   time.Time  `json:"scheduled" db:"scheduled"`
	Stage       string     `json:"stage" db:"stage"`
	Standing    string     `json:"standing" db:"standing"`
	Status      GameStatus `json:"status" db:"status"`
	OfficialsID int        `json:"officials_id" db:"officials_id"`

	Officials *Team    `json:"officials,omitempty" db:"-"`
	Results   []Result `json:"results,omitempty" db:"-"`
}

func (g *Game) IsFinished() bool {
	return g.Status == GameStatusFinished
}

// HomeResult returns the home-side result, or nil if results are not loaded.
func (g *Game) HomeResult() *Result {
	return g.resultBySide(true)
}

func (g *Game) AwayResult() *Result {
	return g.resultBySide(false)
}

func (g *Game) resultBySide(isHome bool) *Result {
	for i := range g.Results {
		if g.Results[i].IsHome == isHome {
			return &g.Results[i]
		}
	}
	return nil
}
