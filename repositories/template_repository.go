package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dachrisch/leaguesphere/models"
)

var (
	ErrTemplateNotFound     = errors.New("schedule template not found")
	ErrTemplateSlotNotFound = errors.New("template slot not found")
)

// TemplateRepository is the Template Store collaborator: per-tournament-shape
// slots and update rules authored in the designer.
type TemplateRepository interface {
	// GetByGameday resolves the template via the explicit gameday association
	// first, falling back to the "schedule_<format>" naming convention used
	// by migrated templates.
	GetByGameday(ctx context.Context, exec SQLExecutor, gameday *models.Gameday) (*models.Template, error)
	ListSlots(ctx context.Context, exec SQLExecutor, templateID int) ([]models.TemplateSlot, error)
	ListSlotsByField(ctx context.Context, exec SQLExecutor, templateID, field int) ([]models.TemplateSlot, error)
	// ListUpdateRules returns the rules whose pre_finished label matches,
	// slots and team rules populated.
	ListUpdateRules(ctx context.Context, exec SQLExecutor, templateID int, preFinished string) ([]models.TemplateUpdateRule, error)
}

type postgresTemplateRepository struct {
	db *sql.DB
}

func NewPostgresTemplateRepository(db *sql.DB) TemplateRepository {
	return &postgresTemplateRepository{db: db}
}

func (r *postgresTemplateRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTemplateRepository) GetByGameday(ctx context.Context, exec SQLExecutor, gameday *models.Gameday) (*models.Template, error) {
	executor := r.getExecutor(exec)

	var t models.Template
	query := `
		SELECT t.id, t.name
		FROM templates t
		JOIN template_applications ta ON ta.template_id = t.id
		WHERE ta.gameday_id = $1`
	err := executor.QueryRowContext(ctx, query, gameday.ID).Scan(&t.ID, &t.Name)
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	query = `SELECT id, name FROM templates WHERE name = $1`
	err = executor.QueryRowContext(ctx, query, "schedule_"+gameday.Format).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}

const slotColumns = `id, template_id, field, slot_order, stage, standing,
		home_reference, away_reference, home_group, home_team, away_group, away_team`

func scanSlot(rowScanner interface{ Scan(...interface{}) error }) (models.TemplateSlot, error) {
	var s models.TemplateSlot
	err := rowScanner.Scan(
		&s.ID, &s.TemplateID, &s.Field, &s.SlotOrder, &s.Stage, &s.Standing,
		&s.HomeReference, &s.AwayReference, &s.HomeGroup, &s.HomeTeam, &s.AwayGroup, &s.AwayTeam,
	)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		return s, ErrTemplateSlotNotFound
	}
	return s, err
}

func (r *postgresTemplateRepository) ListSlots(ctx context.Context, exec SQLExecutor, templateID int) ([]models.TemplateSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM template_slots WHERE template_id = $1 ORDER BY field, slot_order`
	return r.listSlots(ctx, r.getExecutor(exec), query, templateID)
}

func (r *postgresTemplateRepository) ListSlotsByField(ctx context.Context, exec SQLExecutor, templateID, field int) ([]models.TemplateSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM template_slots WHERE template_id = $1 AND field = $2 ORDER BY slot_order`
	return r.listSlots(ctx, r.getExecutor(exec), query, templateID, field)
}

func (r *postgresTemplateRepository) listSlots(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]models.TemplateSlot, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]models.TemplateSlot, 0)
	for rows.Next() {
		s, errScan := scanSlot(rows)
		if errScan != nil {
			return nil, errScan
		}
		slots = append(slots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *postgresTemplateRepository) ListUpdateRules(ctx context.Context, exec SQLExecutor, templateID int, preFinished string) ([]models.TemplateUpdateRule, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ur.id, ur.template_id, ur.pre_finished, ur.slot_id,
		       s.id, s.template_id, s.field, s.slot_order, s.stage, s.standing,
		       s.home_reference, s.away_reference, s.home_group, s.home_team, s.away_group, s.away_team
		FROM template_update_rules ur
		JOIN template_slots s ON s.id = ur.slot_id
		WHERE ur.template_id = $1 AND ur.pre_finished = $2
		ORDER BY ur.id`
	rows, err := executor.QueryContext(ctx, query, templateID, preFinished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]models.TemplateUpdateRule, 0)
	for rows.Next() {
		var rule models.TemplateUpdateRule
		var slot models.TemplateSlot
		err = rows.Scan(
			&rule.ID, &rule.TemplateID, &rule.PreFinished, &rule.SlotID,
			&slot.ID, &slot.TemplateID, &slot.Field, &slot.SlotOrder, &slot.Stage, &slot.Standing,
			&slot.HomeReference, &slot.AwayReference, &slot.HomeGroup, &slot.HomeTeam, &slot.AwayGroup, &slot.AwayTeam,
		)
		if err != nil {
			return nil, err
		}
		rule.Slot = &slot
		rules = append(rules, rule)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range rules {
		teamRules, errRules := r.listTeamRules(ctx, executor, rules[i].ID)
		if errRules != nil {
			return nil, errRules
		}
		rules[i].TeamRules = teamRules
	}
	return rules, nil
}

func (r *postgresTemplateRepository) listTeamRules(ctx context.Context, executor SQLExecutor, ruleID int) ([]models.TeamRule, error) {
	query := `SELECT id, rule_id, role, standing, place, points FROM team_rules WHERE rule_id = $1 ORDER BY id`
	rows, err := executor.QueryContext(ctx, query, ruleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teamRules := make([]models.TeamRule, 0)
	for rows.Next() {
		var tr models.TeamRule
		if err = rows.Scan(&tr.ID, &tr.RuleID, &tr.Role, &tr.Standing, &tr.Place, &tr.Points); err != nil {
			return nil, err
		}
		teamRules = append(teamRules, tr)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teamRules, nil
}
