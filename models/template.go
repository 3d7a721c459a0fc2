package models

type TeamRuleRole string

const (
	TeamRuleRoleHome     TeamRuleRole = "home"
	TeamRuleRoleAway     TeamRuleRole = "away"
	TeamRuleRoleOfficial TeamRuleRole = "official"
)

// Template is a reusable tournament shape: ordered slots per field plus the
// update rules that fire when a standing or stage finishes.
type Template struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	Slots       []TemplateSlot       `json:"slots,omitempty" db:"-"`
	UpdateRules []TemplateUpdateRule `json:"update_rules,omitempty" db:"-"`
}

type TemplateSlot struct {
	ID         int    `json:"id" db:"id"`
	TemplateID int    `json:"template_id" db:"template_id"`
	Field      int    `json:"field" db:"field"`
	SlotOrder  int    `json:"slot_order" db:"slot_order"`
	Stage      string `json:"stage" db:"stage"`
	Standing   string `json:"standing" db:"standing"`

	// Static display references for unresolved participants, e.g. "Winner P1".
	HomeReference *string `json:"home_reference,omitempty" db:"home_reference"`
	AwayReference *string `json:"away_reference,omitempty" db:"away_reference"`
	// Group/team indices used when no textual reference is authored.
	HomeGroup *int `json:"home_group,omitempty" db:"home_group"`
	HomeTeam  *int `json:"home_team,omitempty" db:"home_team"`
	AwayGroup *int `json:"away_group,omitempty" db:"away_group"`
	AwayTeam  *int `json:"away_team,omitempty" db:"away_team"`
}

// TemplateUpdateRule fires once the games labelled PreFinished are all done.
type TemplateUpdateRule struct {
	ID          int    `json:"id" db:"id"`
	TemplateID  int    `json:"template_id" db:"template_id"`
	PreFinished string `json:"pre_finished" db:"pre_finished"`
	SlotID      int    `json:"slot_id" db:"slot_id"`

	Slot      *TemplateSlot `json:"slot,omitempty" db:"-"`
	TeamRules []TeamRule    `json:"team_rules,omitempty" db:"-"`
}

// TeamRule picks the team for one participant slot of the rule's target game:
// place N of the source standing, optionally restricted to the sub-group of
// teams that hold exactly Points points there.
type TeamRule struct {
	ID       int          `json:"id" db:"id"`
	RuleID   int          `json:"rule_id" db:"rule_id"`
	Role     TeamRuleRole `json:"role" db:"role"`
	Standing string       `json:"standing" db:"standing"`
	Place    int          `json:"place" db:"place"`
	Points   *int         `json:"points,omitempty" db:"points"`
}
