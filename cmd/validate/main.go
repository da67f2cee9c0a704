// Command validate runs the level validator over every level JSON file in a
// levels directory (default "levels", or the first argument). For each file it
// prints a concise report:
//   - ❌ INVALID with the blocking errors when validation fails
//   - ✅ VALID with summary facts and any advisory warnings otherwise
//
// It exits with non-zero status if any level is invalid, so it can gate a
// publish step from CI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/level/validate"
)

// FileResult captures the outcome of validating a single file. If Valid is
// true, Lines contains informational messages; otherwise it accumulates the
// validation errors that were found.
type FileResult struct {
	File  string
	Valid bool
	Lines []string
}

// validateFile loads and validates a single level JSON file against the game
// profile it claims.
func validateFile(filePath string) FileResult {
	result := FileResult{
		File:  filepath.Base(filePath),
		Valid: true,
		Lines: []string{},
	}

	fail := func(format string, args ...any) FileResult {
		result.Valid = false
		result.Lines = append(result.Lines, fmt.Sprintf(format, args...))
		return result
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fail("Failed to read file: %v", err)
	}

	var lvl grid.GridLevel
	if err := json.Unmarshal(data, &lvl); err != nil {
		return fail("Invalid JSON: %v", err)
	}

	profile, err := grid.ProfileFor(lvl.GameID)
	if err != nil {
		return fail("Unknown game %q (available: %v)", lvl.GameID, grid.GameIDs())
	}

	verdict := validate.Level(&lvl, profile)
	if !verdict.Valid {
		result.Valid = false
		for _, issue := range verdict.Errors {
			result.Lines = append(result.Lines, fmt.Sprintf("[%s/%s] %s", issue.Stage, issue.Code, issue.Message))
		}
		return result
	}

	// Informational summary for valid levels
	board, err := grid.ParseBoard(lvl.Grid)
	if err != nil {
		// Validation already passed, so this cannot happen on the same input.
		return fail("Failed to decode grid: %v", err)
	}
	start := board.Find(grid.Start)[0]
	goal := board.Find(grid.Goal)[0]

	result.Lines = append(result.Lines, fmt.Sprintf("✓ Game: %s", lvl.GameID))
	result.Lines = append(result.Lines, fmt.Sprintf("✓ Grid: %dx%d", lvl.Grid.Cols, lvl.Grid.Rows))
	result.Lines = append(result.Lines, fmt.Sprintf("✓ Start: (%d,%d), Goal: (%d,%d)", start.X, start.Y, goal.X, goal.Y))
	result.Lines = append(result.Lines, fmt.Sprintf("✓ Walls: %d, Hazards: %d",
		board.Count(grid.Wall), board.Count(grid.Sand)+board.Count(grid.Water)))
	if n := len(lvl.Entities.Portals) + len(lvl.Entities.MovingBlocks); n > 0 {
		result.Lines = append(result.Lines, fmt.Sprintf("✓ Entities: %d", n))
	}
	for _, issue := range verdict.Warnings {
		result.Lines = append(result.Lines, fmt.Sprintf("⚠ [%s] %s", issue.Code, issue.Message))
	}

	return result
}

// main scans the levels directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	dir := "levels"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No level files found in %s\n", dir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateFile(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, line := range result.Lines {
				fmt.Println("  " + line)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, line := range result.Lines {
				fmt.Println("  ❌ " + line)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
		os.Exit(1)
	}
}
