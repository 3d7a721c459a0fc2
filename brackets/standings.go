package brackets

import (
	"sort"

	"github.com/dachrisch/leaguesphere/models"
)

// Stage and standing labels the DFFL schedules use for the qualifying round
// and the first group. The engine only needs them for final-table ordering.
const (
	QualifyRound = "Vorrunde"
	Group1       = "Gruppe 1"
)

// line is one team's outcome in one game: 2 points for a win, 1 for a tie,
// 0 for a loss; unfinished games contribute 0 regardless of entered scores.
type line struct {
	gameID   int
	stage    string
	standing string
	teamID   int
	teamName string
	points   int
	pf       int
	pa       int
	diff     int
}

func resultLines(games []*models.Game) []line {
	lines := make([]line, 0, len(games)*2)
	for _, game := range games {
		for i := range game.Results {
			res := &game.Results[i]
			if res.Team == nil || res.Team.IsPlaceholder {
				continue
			}
			pf := res.Total()
			pa := res.PointsAgainst()
			points := 0
			if game.IsFinished() {
				switch {
				case pf == pa:
					points = 1
				case pf > pa:
					points = 2
				}
			}
			lines = append(lines, line{
				gameID:   game.ID,
				stage:    game.Stage,
				standing: game.Standing,
				teamID:   res.Team.ID,
				teamName: res.Team.Name,
				points:   points,
				pf:       pf,
				pa:       pa,
				diff:     pf - pa,
			})
		}
	}
	return lines
}

// TableFilter narrows the result lines that feed a standings table. Zero
// value means every line of the gameday.
type TableFilter struct {
	Stage     string
	Standings []string
	GameIDs   []int
}

func (f TableFilter) matches(l line) bool {
	if f.Stage != "" && l.stage != f.Stage {
		return false
	}
	if len(f.Standings) > 0 && !containsString(f.Standings, l.standing) {
		return false
	}
	if len(f.GameIDs) > 0 && !containsInt(f.GameIDs, l.gameID) {
		return false
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}

// BuildTable sums the filtered result lines per team and ranks them by the
// four-key tie-break contract: points, differential, points for, points
// against, all descending. True ties keep input order (stable sort).
func BuildTable(games []*models.Game, filter TableFilter) []models.StandingsRow {
	return aggregate(filterLines(resultLines(games), filter), false)
}

// GroupedTable builds one ranked table per standing label within a stage,
// concatenated in standing order. This is the qualifying-round table shape.
func GroupedTable(games []*models.Game, stage string) []models.StandingsRow {
	rows := aggregate(filterLines(resultLines(games), TableFilter{Stage: stage}), true)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Standing < rows[j].Standing
	})
	return rows
}

func filterLines(lines []line, filter TableFilter) []line {
	filtered := make([]line, 0, len(lines))
	for _, l := range lines {
		if filter.matches(l) {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

func aggregate(lines []line, perStanding bool) []models.StandingsRow {
	type key struct {
		standing string
		teamID   int
	}
	sums := make(map[key]*models.StandingsRow)
	order := make([]key, 0)
	for _, l := range lines {
		k := key{teamID: l.teamID}
		if perStanding {
			k.standing = l.standing
		}
		row, ok := sums[k]
		if !ok {
			row = &models.StandingsRow{TeamID: l.teamID, TeamName: l.teamName, Standing: k.standing}
			sums[k] = row
			order = append(order, k)
		}
		row.Points += l.points
		row.PointsFor += l.pf
		row.PointsAgainst += l.pa
		row.Diff += l.diff
	}

	rows := make([]models.StandingsRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, *sums[k])
	}
	sortRows(rows)
	return rows
}

func sortRows(rows []models.StandingsRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Diff != b.Diff {
			return a.Diff > b.Diff
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		return a.PointsAgainst > b.PointsAgainst
	})
}

// IsFinished reports whether every game carrying the given label is finished.
// The label is matched against stages first; a label naming no stage is
// treated as a standing label, mirroring how update rules are keyed.
func IsFinished(games []*models.Game, label string) bool {
	isStage := false
	for _, g := range games {
		if g.Stage == label {
			isStage = true
			break
		}
	}

	total, finished := 0, 0
	for _, g := range games {
		match := g.Standing == label
		if isStage {
			match = g.Stage == label
		}
		if !match {
			continue
		}
		total++
		if g.IsFinished() {
			finished++
		}
	}
	return total > 0 && total == finished
}

// AllFinished reports whether the whole gameday has been played out.
func AllFinished(games []*models.Game) bool {
	if len(games) == 0 {
		return false
	}
	for _, g := range games {
		if !g.IsFinished() {
			return false
		}
	}
	return true
}

// HasFinalRound reports whether the gameday ran a qualifying round, i.e. the
// schedule splits into qualification and placement games.
func HasFinalRound(games []*models.Game) bool {
	for _, g := range games {
		if g.Stage == QualifyRound {
			return true
		}
	}
	return false
}

// TeamByPlace resolves "place N of standing S" against the standing's table,
// optionally restricted to the sub-group of rows holding exactly the given
// points. Place is 1-based. The second return is false when the table has
// fewer ranked rows than the requested place.
func TeamByPlace(games []*models.Game, standing string, place int, points *int) (models.StandingsRow, bool) {
	rows := BuildTable(games, TableFilter{Standings: []string{standing}})
	if points != nil {
		subgroup := rows[:0:0]
		for _, row := range rows {
			if row.Points == *points {
				subgroup = append(subgroup, row)
			}
		}
		rows = subgroup
	}
	if place < 1 || place > len(rows) {
		return models.StandingsRow{}, false
	}
	return rows[place-1], true
}

// FinalTable computes the ranked end-of-day table with DFFL points assigned
// per rank. It reports ready=false until every game is finished.
func FinalTable(games []*models.Game) ([]models.StandingsRow, bool) {
	if !AllFinished(games) {
		return nil, false
	}

	table := BuildTable(games, TableFilter{})
	if HasFinalRound(games) {
		table = reorderByPlacement(games, table)
	}

	curve := DFFLPoints(len(table))
	for i := range table {
		table[i].DFFLPoints = curve[i]
	}
	return table, true
}

// reorderByPlacement rebuilds the final ordering from the placement games.
// The 7- and 11-team schedules have no clean placement ladder, so their
// missing places are filled from dedicated aggregate groups, as the DFFL
// rulebook prescribes.
func reorderByPlacement(games []*models.Game, table []models.StandingsRow) []models.StandingsRow {
	teamCount := len(table)

	var ordering []string
	switch teamCount {
	case 7:
		ordering = append(standingList(games, []string{"P1", "P3"}), fifthPlaceOrdering(games)...)
	case 11:
		ordering = standingList(games, []string{"P1", "P3", "P5"})
		for aggregatePlace := 1; aggregatePlace <= 3; aggregatePlace++ {
			if name, ok := teamAggregateBy(games, []string{"P7"}, aggregatePlace, 1); ok {
				ordering = append(ordering, name)
			}
		}
		ordering = append(ordering, standingList(games, []string{"P10"})...)
	default:
		ordering = standingList(games, []string{"P1", "P3", "P5", "P7"})
	}

	byName := make(map[string]models.StandingsRow, len(table))
	for _, row := range table {
		byName[row.TeamName] = row
	}
	reordered := make([]models.StandingsRow, 0, len(table))
	seen := make(map[string]bool, len(table))
	for _, name := range ordering {
		if row, ok := byName[name]; ok && !seen[name] {
			reordered = append(reordered, row)
			seen[name] = true
		}
	}
	// Teams not covered by placement games keep their aggregate order.
	for _, row := range table {
		if !seen[row.TeamName] {
			reordered = append(reordered, row)
		}
	}
	return reordered
}

func standingList(games []*models.Game, standings []string) []string {
	names := make([]string, 0, len(standings)*2)
	for _, standing := range standings {
		rows := BuildTable(games, TableFilter{Standings: []string{standing}})
		for _, row := range rows {
			names = append(names, row.TeamName)
		}
	}
	return names
}

// fifthPlaceOrdering handles the 7-team schedule: places 5 to 7 come from a
// mini table over the P5 games plus the group-stage meeting of the third and
// fourth ranked teams of group 1.
func fifthPlaceOrdering(games []*models.Game) []string {
	qualify := GroupedTable(games, QualifyRound)
	group1 := make([]models.StandingsRow, 0, 4)
	for _, row := range qualify {
		if row.Standing == Group1 {
			group1 = append(group1, row)
		}
	}
	if len(group1) < 4 {
		return nil
	}
	third, fourth := group1[2].TeamName, group1[3].TeamName

	gameIDs := make([]int, 0, 3)
	for _, g := range games {
		if g.Standing == "P5-1" || g.Standing == "P5-2" {
			gameIDs = append(gameIDs, g.ID)
			continue
		}
		home, away := g.HomeResult(), g.AwayResult()
		if home == nil || away == nil {
			continue
		}
		pair := map[string]bool{home.TeamName(): true, away.TeamName(): true}
		if pair[third] && pair[fourth] {
			gameIDs = append(gameIDs, g.ID)
		}
	}

	rows := BuildTable(games, TableFilter{GameIDs: gameIDs})
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.TeamName)
	}
	return names
}

// teamAggregateBy ranks the nth-placed team of every standing in the
// aggregate group against each other and returns the team at the given
// place of that cross-table.
func teamAggregateBy(games []*models.Game, standings []string, aggregatePlace, place int) (string, bool) {
	perStanding := aggregate(filterLines(resultLines(games), TableFilter{Standings: standings}), true)

	nth := make([]models.StandingsRow, 0, len(standings))
	byStanding := make(map[string][]models.StandingsRow)
	standingOrder := make([]string, 0)
	for _, row := range perStanding {
		if _, ok := byStanding[row.Standing]; !ok {
			standingOrder = append(standingOrder, row.Standing)
		}
		byStanding[row.Standing] = append(byStanding[row.Standing], row)
	}
	sort.Strings(standingOrder)
	for _, standing := range standingOrder {
		rows := byStanding[standing]
		if aggregatePlace >= 1 && aggregatePlace <= len(rows) {
			nth = append(nth, rows[aggregatePlace-1])
		}
	}
	sortRows(nth)

	if place < 1 || place > len(nth) {
		return "", false
	}
	return nth[place-1].TeamName, true
}
