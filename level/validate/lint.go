package validate

import (
	"fmt"

	"github.com/playproof/levelproof/level/grid"
)

// Lint issue codes. Lint findings are authoring-quality signals and never
// affect the validation verdict.
const (
	LintWallDensity   = "wall_density"
	LintPlainLevel    = "plain_level"
	LintDesignMissing = "design_missing"
	LintSeedMissing   = "seed_missing"
)

// wallDensityCeiling is the share of in-zone tiles above which a level reads
// as cluttered.
const wallDensityCeiling = 0.35

// LintIssue is one informational authoring finding.
type LintIssue struct {
	Code     string         `json:"code"`
	Severity string         `json:"severity"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
}

// Lint runs the non-blocking style checks over a level. A level that fails
// structural validation lints to nothing rather than erroring; lint is
// advisory by contract.
func Lint(lvl *grid.GridLevel, p *grid.Profile) []LintIssue {
	issues := []LintIssue{}

	if lvl.Seed == "" {
		issues = append(issues, LintIssue{
			Code:     LintSeedMissing,
			Severity: "info",
			Message:  "level has no seed; regeneration will not be reproducible",
		})
	}
	if len(lvl.Design) == 0 {
		issues = append(issues, LintIssue{
			Code:     LintDesignMissing,
			Severity: "info",
			Message:  "level carries no design metadata",
		})
	}

	board, err := grid.ParseBoard(lvl.Grid)
	if err != nil {
		return issues
	}

	zone := p.ObstacleZone
	zoneArea := (zone.MaxX - zone.MinX + 1) * (zone.MaxY - zone.MinY + 1)
	if zoneArea > 0 {
		density := float64(board.Count(grid.Wall)) / float64(zoneArea)
		if density > wallDensityCeiling {
			issues = append(issues, LintIssue{
				Code:     LintWallDensity,
				Severity: "info",
				Message: fmt.Sprintf("wall density %.0f%% of the obstacle zone exceeds %.0f%%",
					density*100, wallDensityCeiling*100),
				Data: map[string]any{"density": density},
			})
		}
	}

	hazards := board.Count(grid.Sand) + board.Count(grid.Water)
	currents := board.Count(grid.CurrentUp) + board.Count(grid.CurrentDown) +
		board.Count(grid.CurrentLeft) + board.Count(grid.CurrentRight)
	if board.Count(grid.Wall) == 0 && hazards == 0 && currents == 0 {
		issues = append(issues, LintIssue{
			Code:     LintPlainLevel,
			Severity: "info",
			Message:  "level has no obstacles, hazards, or currents",
		})
	}

	return issues
}
