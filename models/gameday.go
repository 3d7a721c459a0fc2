package models

import (
	"encoding/json"
	"time"
)

// GamedayStatus представляет статусы игрового дня, соответствующие ENUM в БД.
type GamedayStatus string

const (
	GamedayStatusDraft      GamedayStatus = "draft"
	GamedayStatusPublished  GamedayStatus = "published"
	GamedayStatusInProgress GamedayStatus = "in_progress"
	GamedayStatusCompleted  GamedayStatus = "completed"
)

type Gameday struct {
	ID          int           `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Date        time.Time     `json:"date" db:"date"`
	Format      string        `json:"format" db:"format"`
	Status      GamedayStatus `json:"status" db:"status"`
	PublishedAt *time.Time    `json:"published_at,omitempty" db:"published_at"`

	// DesignerJSON is the raw designer graph payload as stored (jsonb).
	// Empty for template-driven gamedays.
	DesignerJSON *string `json:"-" db:"designer_data"`

	Games []Game `json:"games,omitempty" db:"-"`
}

// DesignerData unmarshals the stored designer graph, if any.
func (g *Gameday) DesignerData() (*DesignerData, error) {
	if g.DesignerJSON == nil || *g.DesignerJSON == "" {
		return nil, nil
	}
	var data DesignerData
	if err := json.Unmarshal([]byte(*g.DesignerJSON), &data); err != nil {
		return nil, err
	}
	return &data, nil
}
