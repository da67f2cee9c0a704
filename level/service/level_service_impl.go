package service

import (
	"context"
	"fmt"
	"time"

	"github.com/playproof/levelproof/level/compile"
	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/level/sanitize"
	"github.com/playproof/levelproof/level/simulate"
	"github.com/playproof/levelproof/level/validate"
)

// levelServiceImpl implements the LevelService interface
type levelServiceImpl struct {
	store LevelStore
}

// NewLevelService creates a new level service instance
func NewLevelService(store LevelStore) LevelService {
	return &levelServiceImpl{store: store}
}

// profileFor resolves the game profile a level claims, with a helpful
// error naming the supported games when the id is unknown.
func (s *levelServiceImpl) profileFor(lvl *grid.GridLevel) (*grid.Profile, error) {
	p, err := grid.ProfileFor(lvl.GameID)
	if err != nil {
		return nil, fmt.Errorf("game '%s' not supported. Available games: %v", lvl.GameID, grid.GameIDs())
	}
	return p, nil
}

func (s *levelServiceImpl) Validate(ctx context.Context, lvl *grid.GridLevel) (*validate.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.profileFor(lvl)
	if err != nil {
		return nil, err
	}
	result := validate.Level(lvl, p)
	return &result, nil
}

func (s *levelServiceImpl) Lint(ctx context.Context, lvl *grid.GridLevel) ([]validate.LintIssue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.profileFor(lvl)
	if err != nil {
		return nil, err
	}
	return validate.Lint(lvl, p), nil
}

func (s *levelServiceImpl) Sanitize(ctx context.Context, lvl *grid.GridLevel) (*sanitize.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.profileFor(lvl)
	if err != nil {
		return nil, err
	}
	result := sanitize.Level(lvl, p)
	return &result, nil
}

func (s *levelServiceImpl) Compile(ctx context.Context, lvl *grid.GridLevel) (*compile.LevelSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.profileFor(lvl)
	if err != nil {
		return nil, err
	}
	spec, err := compile.Level(lvl, p)
	if err != nil {
		return nil, fmt.Errorf("failed to compile level: %w", err)
	}
	return spec, nil
}

func (s *levelServiceImpl) Simulate(ctx context.Context, lvl *grid.GridLevel, cfg *simulate.Config) (*simulate.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.profileFor(lvl)
	if err != nil {
		return nil, err
	}
	report := simulate.Level(lvl, p, cfg)
	return &report, nil
}

func (s *levelServiceImpl) QuickCheck(ctx context.Context, lvl *grid.GridLevel) (*simulate.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.profileFor(lvl)
	if err != nil {
		return nil, err
	}
	report := simulate.QuickCheck(lvl, p)
	return &report, nil
}

// Check runs the whole pipeline against a level. Sanitization runs first so
// validation and simulation judge the document a publish would actually use.
// Simulation is skipped when validation fails: there is no point searching
// for a witness on a level that cannot be published anyway.
func (s *levelServiceImpl) Check(ctx context.Context, lvl *grid.GridLevel, cfg *simulate.Config) (*CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.profileFor(lvl)
	if err != nil {
		return nil, err
	}

	cleaned := sanitize.Level(lvl, p)
	validation := validate.Level(cleaned.Level, p)

	result := &CheckResult{
		GameID:     lvl.GameID,
		Level:      cleaned.Level,
		Fixes:      cleaned.Fixes,
		Validation: &validation,
		Lint:       validate.Lint(cleaned.Level, p),
		CheckedAt:  time.Now().UTC(),
	}

	if !validation.Valid {
		return result, nil
	}

	report := simulate.Level(cleaned.Level, p, cfg)
	result.Solvable = &report
	result.Publishable = report.Passed
	return result, nil
}

func (s *levelServiceImpl) ListLevels(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	return names, nil
}

func (s *levelServiceImpl) LoadLevel(ctx context.Context, name string) (*grid.GridLevel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lvl, err := s.store.Load(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load level %s: %w", name, err)
	}
	return lvl, nil
}

func (s *levelServiceImpl) SaveLevel(ctx context.Context, name string, lvl *grid.GridLevel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.profileFor(lvl); err != nil {
		return err
	}
	if err := s.store.Save(name, lvl); err != nil {
		return fmt.Errorf("failed to save level %s: %w", name, err)
	}
	return nil
}

func (s *levelServiceImpl) CheckStored(ctx context.Context, name string, cfg *simulate.Config) (*CheckResult, error) {
	lvl, err := s.LoadLevel(ctx, name)
	if err != nil {
		return nil, err
	}
	result, err := s.Check(ctx, lvl, cfg)
	if err != nil {
		return nil, err
	}
	result.Name = name
	return result, nil
}

func (s *levelServiceImpl) ListGames(ctx context.Context) ([]*GameInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var games []*GameInfo
	for _, id := range grid.GameIDs() {
		p, err := grid.ProfileFor(id)
		if err != nil {
			continue
		}
		games = append(games, &GameInfo{
			GameID:               p.GameID,
			Cols:                 p.Cols,
			Rows:                 p.Rows,
			MinStartGoalDistance: p.MinStartGoalDistance,
		})
	}
	return games, nil
}

func (s *levelServiceImpl) Profile(ctx context.Context, gameID string) (*grid.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := grid.ProfileFor(gameID)
	if err != nil {
		return nil, fmt.Errorf("game '%s' not supported. Available games: %v", gameID, grid.GameIDs())
	}
	return p, nil
}
