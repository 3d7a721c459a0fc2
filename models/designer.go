package models

// Designer graph payload as authored by the gameday designer client. The
// shapes mirror the client JSON one to one, so field names stay camelCase.

const (
	DesignerNodeGame  = "game"
	DesignerNodeStage = "stage"
	DesignerNodeField = "field"
)

const (
	TeamRefWinner = "winner"
	TeamRefLoser  = "loser"
)

type DesignerData struct {
	Nodes       []DesignerNode `json:"nodes"`
	Edges       []DesignerEdge `json:"edges"`
	GlobalTeams []GlobalTeam   `json:"globalTeams"`
}

type DesignerNode struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	ParentID string       `json:"parentId,omitempty"`
	Data     GameNodeData `json:"data"`
}

type DesignerEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type GlobalTeam struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// GameNodeData carries a game node's slots. Home/away participants are either
// a static team id or a dynamic winner/loser reference; stage and field nodes
// only use Name and Order.
type GameNodeData struct {
	Name      string `json:"name,omitempty"`
	Order     int    `json:"order,omitempty"`
	Standing  string `json:"standing,omitempty"`
	StageName string `json:"stageName,omitempty"`
	FieldID   string `json:"fieldId,omitempty"`
	StartTime string `json:"startTime,omitempty"`

	HomeTeamID      string   `json:"homeTeamId,omitempty"`
	AwayTeamID      string   `json:"awayTeamId,omitempty"`
	HomeTeamDynamic *TeamRef `json:"homeTeamDynamic,omitempty"`
	AwayTeamDynamic *TeamRef `json:"awayTeamDynamic,omitempty"`
	Official        string   `json:"official,omitempty"`

	HalftimeScore *ScorePair `json:"halftime_score,omitempty"`
	FinalScore    *ScorePair `json:"final_score,omitempty"`
}

// TeamRef is a dynamic participant descriptor: the winner or loser of the
// game whose standing label equals MatchName.
type TeamRef struct {
	MatchName string `json:"matchName"`
	Type      string `json:"type"`
}

type ScorePair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}
