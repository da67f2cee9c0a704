package sanitize

import (
	"reflect"
	"strings"
	"testing"

	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/level/validate"
)

func createTestLevel() *grid.GridLevel {
	return &grid.GridLevel{
		Schema: grid.SchemaVersion,
		GameID: "mini-golf",
		Seed:   "fixture-1",
		Grid: grid.GridSpec{
			Cols: 20,
			Rows: 14,
			Tiles: []string{
				"....................",
				"....................",
				"....................",
				"....................",
				".........##.........",
				".........##.........",
				"....................",
				"...B............H...",
				"....................",
				"....................",
				"........sss.........",
				"....................",
				"....................",
				"....................",
			},
		},
	}
}

func setTile(lvl *grid.GridLevel, x, y int, token byte) {
	row := []byte(lvl.Grid.Tiles[y])
	row[x] = token
	lvl.Grid.Tiles[y] = string(row)
}

func TestSanitizeCleanLevelIsIdempotent(t *testing.T) {
	lvl := createTestLevel()

	first := Level(lvl, grid.MiniGolf())
	if len(first.Fixes) != 0 {
		t.Fatalf("clean level needed fixes: %v", first.Fixes)
	}

	second := Level(first.Level, grid.MiniGolf())
	if len(second.Fixes) != 0 {
		t.Errorf("second pass produced fixes: %v", second.Fixes)
	}
	if !reflect.DeepEqual(first.Level.Grid.Tiles, second.Level.Grid.Tiles) {
		t.Error("second pass changed the grid")
	}
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 9, 7, 'B') // duplicate start the sanitizer will remove
	before := append([]string(nil), lvl.Grid.Tiles...)

	Level(lvl, grid.MiniGolf())

	if !reflect.DeepEqual(lvl.Grid.Tiles, before) {
		t.Error("sanitizer mutated its input level")
	}
}

func TestRelocateOutOfZoneStart(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 3, 7, '.')
	setTile(lvl, 10, 0, 'B') // well outside the start zone

	res := Level(lvl, grid.MiniGolf())
	board, err := grid.ParseBoard(res.Level.Grid)
	if err != nil {
		t.Fatal(err)
	}

	starts := board.Find(grid.Start)
	if len(starts) != 1 {
		t.Fatalf("expected exactly one start, got %d", len(starts))
	}
	// Per-axis clamp of (10,0) into x1-5,y2-11.
	if starts[0].X != 5 || starts[0].Y != 2 {
		t.Errorf("expected start at (5,2), got (%d,%d)", starts[0].X, starts[0].Y)
	}
	if len(res.Fixes) == 0 || !strings.Contains(res.Fixes[0], "moved start marker") {
		t.Errorf("expected a relocation fix, got %v", res.Fixes)
	}
}

func TestInsertMissingMarkers(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 3, 7, '.')
	setTile(lvl, 16, 7, '.')

	p := grid.MiniGolf()
	res := Level(lvl, p)
	board, err := grid.ParseBoard(res.Level.Grid)
	if err != nil {
		t.Fatal(err)
	}

	starts := board.Find(grid.Start)
	goals := board.Find(grid.Goal)
	if len(starts) != 1 || starts[0] != p.DefaultStart {
		t.Errorf("expected start at default %+v, got %+v", p.DefaultStart, starts)
	}
	if len(goals) != 1 || goals[0] != p.DefaultGoal {
		t.Errorf("expected goal at default %+v, got %+v", p.DefaultGoal, goals)
	}
}

func TestRemoveDuplicateMarkers(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 4, 9, 'B')
	setTile(lvl, 15, 9, 'H')

	res := Level(lvl, grid.MiniGolf())
	board, err := grid.ParseBoard(res.Level.Grid)
	if err != nil {
		t.Fatal(err)
	}
	if n := board.Count(grid.Start); n != 1 {
		t.Errorf("expected one start after sanitize, got %d", n)
	}
	if n := board.Count(grid.Goal); n != 1 {
		t.Errorf("expected one goal after sanitize, got %d", n)
	}
}

func TestClearStartPocket(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 4, 7, '#')
	setTile(lvl, 5, 8, '#')

	res := Level(lvl, grid.MiniGolf())
	board, err := grid.ParseBoard(res.Level.Grid)
	if err != nil {
		t.Fatal(err)
	}
	if board.At(4, 7) == grid.Wall || board.At(5, 8) == grid.Wall {
		t.Error("pocket walls should have been cleared")
	}

	cleared := 0
	for _, f := range res.Fixes {
		if strings.Contains(f, "start pocket") {
			cleared++
		}
	}
	if cleared != 2 {
		t.Errorf("expected 2 pocket fixes, got %d: %v", cleared, res.Fixes)
	}
}

func TestRemoveOutOfZoneWalls(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 0, 0, '#')
	setTile(lvl, 19, 13, '#')

	res := Level(lvl, grid.MiniGolf())
	board, err := grid.ParseBoard(res.Level.Grid)
	if err != nil {
		t.Fatal(err)
	}
	if board.At(0, 0) == grid.Wall || board.At(19, 13) == grid.Wall {
		t.Error("out-of-zone walls should have been removed")
	}
	// The in-zone block survives.
	if board.At(9, 4) != grid.Wall {
		t.Error("in-zone wall block must be preserved")
	}
}

func TestReplaceUnknownTokens(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 6, 6, '?')

	res := Level(lvl, grid.MiniGolf())
	board, err := grid.ParseBoard(res.Level.Grid)
	if err != nil {
		t.Fatalf("sanitized grid failed to parse: %v", err)
	}
	if board.At(6, 6) != grid.Empty {
		t.Error("unknown token should become the empty tile")
	}
}

// Pockets only remove walls. Hazard tiles inside a marker's clearance
// radius survive sanitization and still fail validation; erasing part of
// a hazard component could trip the minimum size rule instead.
func TestPocketClearsWallsNotHazards(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 16, 6, '#') // wall inside the goal pocket
	setTile(lvl, 15, 6, 's')
	setTile(lvl, 15, 7, 's')
	setTile(lvl, 15, 8, 's')

	p := grid.MiniGolf()
	res := Level(lvl, p)
	board, err := grid.ParseBoard(res.Level.Grid)
	if err != nil {
		t.Fatal(err)
	}

	if board.At(16, 6) == grid.Wall {
		t.Error("wall in the goal pocket should have been cleared")
	}
	for y := 6; y <= 8; y++ {
		if board.At(15, y) != grid.Sand {
			t.Errorf("sand at (15,%d) should survive sanitization", y)
		}
	}

	vres := validate.Level(res.Level, p)
	found := false
	for _, issue := range vres.Errors {
		if issue.Code == validate.CodeGoalClearance {
			found = true
		}
	}
	if !found {
		t.Error("expected goal clearance error for sand next to the goal")
	}
}

// The sanitizer's marker handling must satisfy the validator's placement
// stage for those markers, since pockets cover wall clearances by profile
// contract.
func TestSanitizedMarkersValidate(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 3, 7, '.')
	setTile(lvl, 0, 13, 'B')
	setTile(lvl, 4, 7, '#') // wall that would block the relocated pocket

	p := grid.MiniGolf()
	res := Level(lvl, p)
	vres := validate.Level(res.Level, p)

	for _, issue := range vres.Errors {
		switch issue.Code {
		case validate.CodeStartZone, validate.CodeGoalZone,
			validate.CodeStartCount, validate.CodeGoalCount:
			t.Errorf("sanitized level still has marker issue: %+v", issue)
		}
	}
}
