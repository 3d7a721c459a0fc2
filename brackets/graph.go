package brackets

import (
	"fmt"

	"github.com/dachrisch/leaguesphere/models"
)

// TieName is rendered when a winner/loser reference hits equal totals. No
// tie-break is defined for bracket games; the value surfaces as-is.
const TieName = "Tie"

// maxResolvePasses bounds the fixed-point iteration over the designer graph.
// Realistic bracket depth is at most three (group -> semi -> final), and a
// hard bound guarantees termination on cyclic or malformed graphs.
const maxResolvePasses = 3

type SlotKind int

const (
	SlotUnassigned SlotKind = iota
	SlotStatic
	SlotDynamic
)

// TeamSlot is the tagged variant behind a game node's participant: a static
// team id, a dynamic winner/loser reference, or nothing yet.
type TeamSlot struct {
	Kind   SlotKind
	TeamID string
	Ref    *models.TeamRef
}

func HomeSlot(data models.GameNodeData) TeamSlot {
	return slotFor(data.HomeTeamID, data.HomeTeamDynamic)
}

func AwaySlot(data models.GameNodeData) TeamSlot {
	return slotFor(data.AwayTeamID, data.AwayTeamDynamic)
}

func slotFor(teamID string, ref *models.TeamRef) TeamSlot {
	switch {
	case teamID != "":
		return TeamSlot{Kind: SlotStatic, TeamID: teamID}
	case ref != nil && ref.MatchName != "" && ref.Type != "":
		return TeamSlot{Kind: SlotDynamic, Ref: ref}
	default:
		return TeamSlot{Kind: SlotUnassigned}
	}
}

// FormatReference renders a dynamic reference for display while its source
// game is still open, e.g. "Winner of A Game 1".
func FormatReference(ref *models.TeamRef) string {
	if ref == nil || ref.MatchName == "" {
		return "TBD"
	}
	switch ref.Type {
	case models.TeamRefWinner:
		return fmt.Sprintf("Winner of %s", ref.MatchName)
	case models.TeamRefLoser:
		return fmt.Sprintf("Loser of %s", ref.MatchName)
	}
	return "TBD"
}

// GameOutcome is the resolver's view of one source game, keyed by its
// standing label. Team names may be empty when the side itself is still an
// unresolved reference.
type GameOutcome struct {
	Finished  bool
	HomeScore int
	AwayScore int
	HomeTeam  string
	AwayTeam  string
}

// OutcomeFunc looks up the outcome of the game with the given standing label.
type OutcomeFunc func(standing string) (GameOutcome, bool)

// ResolvedPair carries the resolved home/away names of one game node. Empty
// strings mean unresolved.
type ResolvedPair struct {
	Home string
	Away string
}

// ResolveReferences resolves the dynamic references of every game node to
// concrete team names, iterating until a pass changes nothing or the pass
// bound is hit. Resolutions from earlier passes feed later ones, so chains
// like group -> semi -> final settle without recursion.
func ResolveReferences(nodes []models.DesignerNode, outcome OutcomeFunc) map[string]ResolvedPair {
	resolved := make(map[string]ResolvedPair)

	for pass := 0; pass < maxResolvePasses; pass++ {
		changed := false
		for _, node := range nodes {
			if node.Type != models.DesignerNodeGame || node.Data.Standing == "" {
				continue
			}
			pair := resolved[node.Data.Standing]
			if home := resolveSlot(HomeSlot(node.Data), resolved, outcome); home != pair.Home {
				pair.Home = home
				changed = true
			}
			if away := resolveSlot(AwaySlot(node.Data), resolved, outcome); away != pair.Away {
				pair.Away = away
				changed = true
			}
			resolved[node.Data.Standing] = pair
		}
		if !changed {
			break
		}
	}
	return resolved
}

func resolveSlot(slot TeamSlot, resolved map[string]ResolvedPair, outcome OutcomeFunc) string {
	if slot.Kind != SlotDynamic {
		return ""
	}
	out, ok := outcome(slot.Ref.MatchName)
	if !ok || !out.Finished {
		return ""
	}
	if out.HomeScore == out.AwayScore {
		return TieName
	}

	homeWon := out.HomeScore > out.AwayScore
	wantWinner := slot.Ref.Type == models.TeamRefWinner
	takeHome := homeWon == wantWinner

	name := out.AwayTeam
	if takeHome {
		name = out.HomeTeam
	}
	if name != "" {
		return name
	}
	// The source side is itself a reference; use what earlier passes found.
	source := resolved[slot.Ref.MatchName]
	if takeHome {
		return source.Home
	}
	return source.Away
}
