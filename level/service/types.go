package service

import (
	"time"

	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/level/simulate"
	"github.com/playproof/levelproof/level/validate"
)

// CheckResult is the combined outcome of the full level pipeline.
// Sanitization always runs first, so Level is the cleaned document the
// later stages actually saw, and Fixes lists what sanitization changed.
type CheckResult struct {
	Name        string               `json:"name,omitempty"`
	GameID      string               `json:"game_id"`
	Level       *grid.GridLevel      `json:"level"`
	Fixes       []string             `json:"fixes,omitempty"`
	Validation  *validate.Result     `json:"validation"`
	Lint        []validate.LintIssue `json:"lint,omitempty"`
	Solvable    *simulate.Report     `json:"solvable,omitempty"`
	Publishable bool                 `json:"publishable"`
	CheckedAt   time.Time            `json:"checked_at"`
}

// GameInfo describes one supported game profile.
type GameInfo struct {
	GameID               string `json:"game_id"`
	Cols                 int    `json:"cols"`
	Rows                 int    `json:"rows"`
	MinStartGoalDistance int    `json:"min_start_goal_distance"`
}
