// Command analyze prints quick, human-readable heuristics about the level
// documents in a levels directory. It summarizes grid dimensions, token
// counts, marker placement against the game profile's zones, and highlights
// start/goal pairs that sit closer than the profile's minimum distance.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/playproof/levelproof/level/geom"
	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/level/validate"
)

func main() {
	dir := "levels"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Printf("Error reading levels directory: %v\n", err)
		os.Exit(1)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		fmt.Printf("No level files found in %s\n", dir)
		return
	}

	for _, name := range names {
		fmt.Printf("\n=== Analyzing %s ===\n", name)
		analyzeLevel(filepath.Join(dir, name))
	}
}

func analyzeLevel(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var lvl grid.GridLevel
	if err := json.Unmarshal(data, &lvl); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	fmt.Printf("Game: %s\n", lvl.GameID)
	fmt.Printf("Grid Size: %d x %d\n", lvl.Grid.Cols, lvl.Grid.Rows)
	if lvl.Seed != "" {
		fmt.Printf("Seed: %s\n", lvl.Seed)
	}

	board, err := grid.ParseBoard(lvl.Grid)
	if err != nil {
		fmt.Printf("Error decoding grid: %v\n", err)
		return
	}

	// Count tokens and collect marker positions
	counts := map[grid.Cell]int{}
	var starts, goals []geom.Point
	for y := 0; y < board.Rows; y++ {
		for x := 0; x < board.Cols; x++ {
			c := board.At(x, y)
			counts[c]++
			switch c {
			case grid.Start:
				starts = append(starts, geom.Point{X: x, Y: y})
			case grid.Goal:
				goals = append(goals, geom.Point{X: x, Y: y})
			}
		}
	}

	currents := counts[grid.CurrentUp] + counts[grid.CurrentDown] +
		counts[grid.CurrentLeft] + counts[grid.CurrentRight]
	fmt.Printf("Walls: %d, Sand: %d, Water: %d, Currents: %d\n",
		counts[grid.Wall], counts[grid.Sand], counts[grid.Water], currents)
	fmt.Printf("Portals: %d, Moving Blocks: %d\n",
		len(lvl.Entities.Portals), len(lvl.Entities.MovingBlocks))

	hazards := counts[grid.Sand] + counts[grid.Water]
	total := board.Cols * board.Rows
	if total > 0 {
		fmt.Printf("Hazard Coverage: %.1f%%\n", 100*float64(hazards)/float64(total))
	}

	profile, err := grid.ProfileFor(lvl.GameID)
	if err != nil {
		fmt.Printf("⚠️  WARNING: unknown game '%s', skipping profile checks\n", lvl.GameID)
		return
	}

	// Marker placement against the profile
	if len(starts) != 1 {
		fmt.Printf("⚠️  WARNING: expected exactly 1 start marker, found %d\n", len(starts))
	}
	if len(goals) != 1 {
		fmt.Printf("⚠️  WARNING: expected exactly 1 goal marker, found %d\n", len(goals))
	}
	if len(starts) == 1 && len(goals) == 1 {
		start, goal := starts[0], goals[0]
		fmt.Printf("Start: (%d, %d), Goal: (%d, %d)\n", start.X, start.Y, goal.X, goal.Y)

		if !profile.StartZone.Contains(start) {
			fmt.Printf("⚠️  WARNING: start (%d, %d) is outside the start zone\n", start.X, start.Y)
		}
		if !profile.GoalZone.Contains(goal) {
			fmt.Printf("⚠️  WARNING: goal (%d, %d) is outside the goal zone\n", goal.X, goal.Y)
		}

		dist := geom.Manhattan(start, goal)
		if dist < profile.MinStartGoalDistance {
			fmt.Printf("⚠️  WARNING: start and goal are only %d tiles apart (minimum %d)\n",
				dist, profile.MinStartGoalDistance)
		} else {
			fmt.Printf("✅ Start/goal distance: %d tiles (minimum %d)\n",
				dist, profile.MinStartGoalDistance)
		}
	}

	// Style issues from the linter
	issues := validate.Lint(&lvl, profile)
	if len(issues) > 0 {
		fmt.Printf("Lint Issues: %d\n", len(issues))
		for i, issue := range issues {
			if i < 5 { // Show first 5 issues
				fmt.Printf("   [%s] %s\n", issue.Code, issue.Message)
			}
		}
		if len(issues) > 5 {
			fmt.Printf("   ... and %d more\n", len(issues)-5)
		}
	} else {
		fmt.Printf("✅ No lint issues\n")
	}
}
