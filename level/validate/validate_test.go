package validate

import (
	"testing"

	"github.com/playproof/levelproof/level/grid"
)

// createTestLevel builds a mini-golf level that satisfies every rule.
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
		Design: map[string]any{"difficulty": "easy"},
	}
}

func setTile(lvl *grid.GridLevel, x, y int, token byte) {
	row := []byte(lvl.Grid.Tiles[y])
	row[x] = token
	lvl.Grid.Tiles[y] = string(row)
}

func hasCode(issues []Issue, code string) bool {
	for _, i := range issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

func countCode(issues []Issue, code string) int {
	n := 0
	for _, i := range issues {
		if i.Code == code {
			n++
		}
	}
	return n
}

func TestValidLevel(t *testing.T) {
	res := Level(createTestLevel(), grid.MiniGolf())
	if !res.Valid {
		t.Fatalf("expected valid level, got errors: %+v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("expected empty error list, got %d", len(res.Errors))
	}
}

func TestValidatorDoesNotMutateInput(t *testing.T) {
	lvl := createTestLevel()
	before := append([]string(nil), lvl.Grid.Tiles...)
	Level(lvl, grid.MiniGolf())
	for i, row := range lvl.Grid.Tiles {
		if row != before[i] {
			t.Fatal("validator mutated its input")
		}
	}
}

func TestSchemaMismatch(t *testing.T) {
	lvl := createTestLevel()
	lvl.Schema = "level.v0"
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeSchema) {
		t.Errorf("expected %s error, got %+v", CodeSchema, res.Errors)
	}
}

func TestGameIDMismatch(t *testing.T) {
	lvl := createTestLevel()
	res := Level(lvl, grid.Basketball())
	if res.Valid || !hasCode(res.Errors, CodeGameID) {
		t.Errorf("expected %s error, got %+v", CodeGameID, res.Errors)
	}
}

func TestStartMarkerCount(t *testing.T) {
	// Zero starts.
	lvl := createTestLevel()
	setTile(lvl, 3, 7, '.')
	res := Level(lvl, grid.MiniGolf())
	if res.Valid {
		t.Error("level without a start must be invalid")
	}
	if n := countCode(res.Errors, CodeStartCount); n != 1 {
		t.Errorf("expected exactly one %s issue, got %d", CodeStartCount, n)
	}

	// Two starts.
	lvl = createTestLevel()
	setTile(lvl, 4, 9, 'B')
	res = Level(lvl, grid.MiniGolf())
	if n := countCode(res.Errors, CodeStartCount); n != 1 {
		t.Errorf("expected exactly one %s issue, got %d", CodeStartCount, n)
	}
}

func TestMalformedRowShortCircuits(t *testing.T) {
	lvl := createTestLevel()
	lvl.Grid.Tiles[3] = "..." // wrong length
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeRowLength) {
		t.Fatalf("expected %s error, got %+v", CodeRowLength, res.Errors)
	}
	for _, issue := range res.Errors {
		if issue.Stage != StageStructural {
			t.Errorf("malformed grid must only produce structural issues, got %+v", issue)
		}
	}
}

func TestUnknownToken(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 5, 5, 'X')
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeUnknownToken) {
		t.Errorf("expected %s error, got %+v", CodeUnknownToken, res.Errors)
	}
}

func TestDigitTokensAreInert(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 12, 12, '7')
	res := Level(lvl, grid.MiniGolf())
	if !res.Valid {
		t.Errorf("reserved digit tokens must be accepted, got %+v", res.Errors)
	}
}

func TestStartOutsideZone(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 3, 7, '.')
	setTile(lvl, 9, 7, 'B') // outside the start zone
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeStartZone) {
		t.Errorf("expected %s error, got %+v", CodeStartZone, res.Errors)
	}
}

func TestStartClearanceViolation(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 4, 7, '#') // wall right next to the start
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeStartClearance) {
		t.Errorf("expected %s error, got %+v", CodeStartClearance, res.Errors)
	}
	if !hasCode(res.Errors, CodeWallNearStart) {
		t.Errorf("expected %s error too, got %+v", CodeWallNearStart, res.Errors)
	}
}

func TestWallOutsideObstacleZone(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 18, 13, '#')
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeWallZone) {
		t.Errorf("expected %s error, got %+v", CodeWallZone, res.Errors)
	}
}

func TestHazardTooSmall(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 12, 3, 's') // lone sand tile
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeHazardSize) {
		t.Errorf("expected %s error, got %+v", CodeHazardSize, res.Errors)
	}
}

func TestWaterNearStart(t *testing.T) {
	lvl := createTestLevel()
	// A 3-tile water run two tiles from the start: big enough, in zone, but
	// within the water distance floor.
	setTile(lvl, 5, 8, 'w')
	setTile(lvl, 5, 9, 'w')
	setTile(lvl, 5, 10, 'w')
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeWaterNearStart) {
		t.Errorf("expected %s error, got %+v", CodeWaterNearStart, res.Errors)
	}
}

func TestCurrentRunTooShort(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 7, 3, '>')
	setTile(lvl, 8, 3, '>')
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeCurrentRun) {
		t.Errorf("expected %s error, got %+v", CodeCurrentRun, res.Errors)
	}
}

func TestCurrentRunValid(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 7, 3, '>')
	setTile(lvl, 8, 3, '>')
	setTile(lvl, 9, 3, '>')
	res := Level(lvl, grid.MiniGolf())
	if !res.Valid {
		t.Errorf("three-tile in-band run should be fine, got %+v", res.Errors)
	}
}

func TestCurrentOutsideBand(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 3, 12, 'v')
	setTile(lvl, 3, 13, 'v')
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeCurrentBand) {
		t.Errorf("expected %s error, got %+v", CodeCurrentBand, res.Errors)
	}
}

func TestWallLShapeFails(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 9, 6, '#') // turns the 2x2 block into an L-ish pentomino
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeWallShapeFill) {
		t.Errorf("expected %s error, got %+v", CodeWallShapeFill, res.Errors)
	}
}

func TestWallShapeNotWhitelisted(t *testing.T) {
	lvl := createTestLevel()
	// A filled 5x1 bar: rectangular, but not a permitted size.
	for x := 6; x <= 10; x++ {
		setTile(lvl, x, 2, '#')
	}
	res := Level(lvl, grid.MiniGolf())
	if res.Valid || !hasCode(res.Errors, CodeWallShapeSize) {
		t.Errorf("expected %s error, got %+v", CodeWallShapeSize, res.Errors)
	}
}

func TestHazardNearGoalWarns(t *testing.T) {
	lvl := createTestLevel()
	setTile(lvl, 14, 8, 's')
	setTile(lvl, 14, 9, 's')
	setTile(lvl, 14, 10, 's')
	res := Level(lvl, grid.MiniGolf())
	if !hasCode(res.Warnings, CodeHazardNearGoal) {
		t.Errorf("expected %s warning, got %+v", CodeHazardNearGoal, res.Warnings)
	}
	// Warnings never gate.
	if !res.Valid {
		t.Errorf("warnings must not affect validity, got errors %+v", res.Errors)
	}
}

func TestLint(t *testing.T) {
	lvl := createTestLevel()
	lvl.Seed = ""
	lvl.Design = nil
	issues := Lint(lvl, grid.MiniGolf())

	var codes []string
	for _, i := range issues {
		codes = append(codes, i.Code)
		if i.Severity != "info" {
			t.Errorf("lint issues are informational, got %q", i.Severity)
		}
	}

	want := map[string]bool{LintSeedMissing: false, LintDesignMissing: false}
	for _, c := range codes {
		if _, ok := want[c]; ok {
			want[c] = true
		}
	}
	for code, seen := range want {
		if !seen {
			t.Errorf("expected lint code %s, got %v", code, codes)
		}
	}
}

func TestLintPlainLevel(t *testing.T) {
	lvl := createTestLevel()
	// Strip every obstacle and hazard.
	lvl.Grid.Tiles[4] = "...................."
	lvl.Grid.Tiles[5] = "...................."
	lvl.Grid.Tiles[10] = "...................."
	issues := Lint(lvl, grid.MiniGolf())

	found := false
	for _, i := range issues {
		if i.Code == LintPlainLevel {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s lint issue, got %+v", LintPlainLevel, issues)
	}
}
