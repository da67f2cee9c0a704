package service

import (
	"context"

	"github.com/playproof/levelproof/level/compile"
	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/level/sanitize"
	"github.com/playproof/levelproof/level/simulate"
	"github.com/playproof/levelproof/level/validate"
)

// LevelService defines all level authoring and verification operations
type LevelService interface {
	// Pipeline stages
	Validate(ctx context.Context, lvl *grid.GridLevel) (*validate.Result, error)
	Lint(ctx context.Context, lvl *grid.GridLevel) ([]validate.LintIssue, error)
	Sanitize(ctx context.Context, lvl *grid.GridLevel) (*sanitize.Result, error)
	Compile(ctx context.Context, lvl *grid.GridLevel) (*compile.LevelSpec, error)
	Simulate(ctx context.Context, lvl *grid.GridLevel, cfg *simulate.Config) (*simulate.Report, error)
	QuickCheck(ctx context.Context, lvl *grid.GridLevel) (*simulate.Report, error)

	// Check runs the whole pipeline: sanitize, validate, lint, simulate.
	Check(ctx context.Context, lvl *grid.GridLevel, cfg *simulate.Config) (*CheckResult, error)

	// Level storage
	ListLevels(ctx context.Context) ([]string, error)
	LoadLevel(ctx context.Context, name string) (*grid.GridLevel, error)
	SaveLevel(ctx context.Context, name string, lvl *grid.GridLevel) error
	CheckStored(ctx context.Context, name string, cfg *simulate.Config) (*CheckResult, error)

	// Game profiles
	ListGames(ctx context.Context) ([]*GameInfo, error)
	Profile(ctx context.Context, gameID string) (*grid.Profile, error)
}

// LevelStore defines level persistence operations
type LevelStore interface {
	Load(name string) (*grid.GridLevel, error)
	Save(name string, lvl *grid.GridLevel) error
	List() ([]string, error)
}
