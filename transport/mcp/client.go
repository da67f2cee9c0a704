package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/level/service"
	"github.com/playproof/levelproof/level/simulate"
	"github.com/playproof/levelproof/level/validate"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"PlayProof Level Pipeline",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`PlayProof Level Pipeline - MCP Interface

This is a thin client that proxies all requests to the REST API server.

PURPOSE:
Author and verify mini-game levels. A level is an ASCII grid document; the
pipeline validates placement rules, auto-fixes marker problems, compiles the
grid into a physics scene, and brute-forces it for a winning shot. A level is
publishable only when it validates AND a winning shot exists.

AVAILABLE TOOLS:
- validate_level: Structural, placement, and shape checks with stable codes
- lint_level: Non-blocking style advice (density, variety, metadata)
- sanitize_level: Auto-fix markers and stray walls; returns the fixed level
- simulate_level: Search for a winning shot (set quick=true while iterating)
- check_level: Full pipeline in one call - the publish gate
- list_levels / get_level / save_level / check_stored_level: Store access
- list_games: Supported game profiles and their grid sizes
- level_format: Token alphabet and document format reference

AUTHORING LOOP:
1. Call level_format and list_games to learn the document shape
2. Draft a grid, then sanitize_level to fix marker placement
3. validate_level and fix every reported code
4. simulate_level with quick=true until a winning shot exists
5. check_level for the final verdict, then save_level`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	levelArg := map[string]interface{}{
		"type":        "string",
		"description": "Level document as a JSON string",
	}
	quickArg := map[string]interface{}{
		"type":        "boolean",
		"description": "Use the reduced search budget (faster, coarser)",
	}
	nameArg := map[string]interface{}{
		"type":        "string",
		"description": "Stored level name",
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "validate_level",
		Description: "Run the three-stage validator (structural, placement, shapes) on a level document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": levelArg,
			},
			Required: []string{"level"},
		},
	}, c.handleValidate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "lint_level",
		Description: "Run the non-blocking style checks on a level document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": levelArg,
			},
			Required: []string{"level"},
		},
	}, c.handleLint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "sanitize_level",
		Description: "Auto-fix marker and wall placement problems; returns the cleaned level and the list of fixes",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": levelArg,
			},
			Required: []string{"level"},
		},
	}, c.handleSanitize)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulate_level",
		Description: "Brute-force search for a winning shot proving the level is beatable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": levelArg,
				"quick": quickArg,
			},
			Required: []string{"level"},
		},
	}, c.handleSimulate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "check_level",
		Description: "Run the whole pipeline (sanitize, validate, lint, simulate) and report whether the level is publishable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": levelArg,
				"quick": quickArg,
			},
			Required: []string{"level"},
		},
	}, c.handleCheck)

	// Store access
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List the names of all stored levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_level",
		Description: "Fetch a stored level document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": nameArg,
			},
			Required: []string{"name"},
		},
	}, c.handleGetLevel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "save_level",
		Description: "Save a level document to the store",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name":  nameArg,
				"level": levelArg,
			},
			Required: []string{"name", "level"},
		},
	}, c.handleSaveLevel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "check_stored_level",
		Description: "Run the whole pipeline on a stored level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name":  nameArg,
				"quick": quickArg,
			},
			Required: []string{"name"},
		},
	}, c.handleCheckStored)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List supported game profiles and their grid dimensions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "level_format",
		Description: "Get the level document format, token alphabet, and placement rules reference",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleLevelFormat)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func levelFromArgs(request mcp.CallToolRequest) (*grid.GridLevel, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing arguments")
	}
	raw, _ := args["level"].(string)
	if raw == "" {
		return nil, fmt.Errorf("level argument is required and must be a JSON string")
	}

	var lvl grid.GridLevel
	if err := json.Unmarshal([]byte(raw), &lvl); err != nil {
		return nil, fmt.Errorf("level is not valid JSON: %v", err)
	}
	return &lvl, nil
}

func nameFromArgs(request mcp.CallToolRequest) (string, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("missing arguments")
	}
	name, _ := args["name"].(string)
	if name == "" {
		return "", fmt.Errorf("name argument is required")
	}
	return name, nil
}

func quickFromArgs(request mcp.CallToolRequest) bool {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		quick, _ := args["quick"].(bool)
		return quick
	}
	return false
}

// Tool handlers

func (c *Client) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lvl, err := levelFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result validate.Result
	if err := c.apiCall("POST", "/api/levels/validate", lvl, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatValidation(&result)), nil
}

func (c *Client) handleLint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lvl, err := levelFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Count  int                  `json:"count"`
		Issues []validate.LintIssue `json:"issues"`
	}
	if err := c.apiCall("POST", "/api/levels/lint", lvl, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No lint findings. The level reads clean."), nil
	}

	result := fmt.Sprintf("Lint findings (%d):\n\n", response.Count)
	for _, issue := range response.Issues {
		result += fmt.Sprintf("- [%s] %s: %s\n", issue.Severity, issue.Code, issue.Message)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSanitize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lvl, err := levelFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result struct {
		Level *grid.GridLevel `json:"level"`
		Fixes []string        `json:"fixes"`
	}
	if err := c.apiCall("POST", "/api/levels/sanitize", lvl, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	if len(result.Fixes) == 0 {
		b.WriteString("Nothing to fix.\n\n")
	} else {
		b.WriteString(fmt.Sprintf("Applied %d fixes:\n", len(result.Fixes)))
		for _, fix := range result.Fixes {
			b.WriteString(fmt.Sprintf("- %s\n", fix))
		}
		b.WriteString("\n")
	}
	b.WriteString(formatLevel(result.Level))

	data, err := json.Marshal(result.Level)
	if err == nil {
		b.WriteString("\nCleaned document:\n")
		b.Write(data)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lvl, err := levelFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{
		"level": lvl,
		"quick": quickFromArgs(request),
	}

	var report simulate.Report
	if err := c.apiCall("POST", "/api/levels/simulate", body, &report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReport(&report)), nil
}

func (c *Client) handleCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lvl, err := levelFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{
		"level": lvl,
		"quick": quickFromArgs(request),
	}

	var response struct {
		CheckID string               `json:"check_id"`
		Result  *service.CheckResult `json:"result"`
	}
	if err := c.apiCall("POST", "/api/levels/check", body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCheckResult(response.CheckID, response.Result)), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count  int      `json:"count"`
		Levels []string `json:"levels"`
	}
	if err := c.apiCall("GET", "/api/levels", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No stored levels."), nil
	}

	result := fmt.Sprintf("Stored levels (%d):\n\n", response.Count)
	for _, name := range response.Levels {
		result += fmt.Sprintf("- %s\n", name)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := nameFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lvl grid.GridLevel
	if err := c.apiCall("GET", fmt.Sprintf("/api/levels/%s", name), nil, &lvl); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(formatLevel(&lvl))
	if data, err := json.Marshal(&lvl); err == nil {
		b.WriteString("\nDocument:\n")
		b.Write(data)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleSaveLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := nameFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lvl, err := levelFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := c.apiCall("PUT", fmt.Sprintf("/api/levels/%s", name), lvl, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Saved level: %s", name)), nil
}

func (c *Client) handleCheckStored(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := nameFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{
		"quick": quickFromArgs(request),
	}

	var response struct {
		CheckID string               `json:"check_id"`
		Result  *service.CheckResult `json:"result"`
	}
	if err := c.apiCall("POST", fmt.Sprintf("/api/levels/%s/check", name), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCheckResult(response.CheckID, response.Result)), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var games []service.GameInfo
	if err := c.apiCall("GET", "/api/games", nil, &games); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Supported games:\n\n"
	for _, g := range games {
		result += fmt.Sprintf("- %s: %dx%d grid, start and goal at least %d cells apart\n",
			g.GameID, g.Cols, g.Rows, g.MinStartGoalDistance)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleLevelFormat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reference := `PlayProof Level Document Reference

DOCUMENT SHAPE (JSON):
{
  "schema": "playproof.level.v1",
  "game_id": "mini-golf",
  "version": "1",
  "seed": "optional-provenance-string",
  "grid": {
    "cols": 20,
    "rows": 14,
    "tiles": ["....................", "..."]
  },
  "entities": {
    "portals": [{"id": "p1", "entrance": {"x": 6, "y": 2},
                 "exit": {"x": 13, "y": 2}, "cooldown": 1.5, "exit_boost": 0.8}],
    "moving_blocks": [{"id": "m1", "origin": {"x": 8, "y": 8}, "axis": "x",
                       "range": 3, "speed": 2, "mode": "pingpong", "phase": 0}]
  },
  "rules": {},
  "design": {"theme": "links", "difficulty": "medium"}
}

TOKEN ALPHABET (one character per cell):
  .  empty
  #  wall (bounces the ball)
  s  sand (slows the ball)
  w  water (sinks the ball - instant fail)
  B  start marker (exactly one)
  H  goal marker (exactly one)
  ^ v < >  current (pushes the ball up/down/left/right)
  1-9  reserved reference points (accepted, no gameplay effect)

PLACEMENT RULES (mini-golf, 20x14):
- Start must sit in the left band, goal in the right band
- Start and goal need clear pockets: no walls, hazards, or currents
  directly around them
- Start and goal must be far enough apart; extra distance is required
  when they share a row
- Walls stay inside the obstacle zone and must form whitelisted
  rectangles (1x1 up to 4x1, 2x2, 2x3...)
- Hazard patches need a minimum size and must not crowd the start
- Current tiles must form straight runs of a minimum length aligned
  with their direction

THE PUBLISH GATE:
A level is publishable only when validation reports no errors AND the
simulator finds at least one winning shot. Use check_level for the
combined verdict.`

	return mcp.NewToolResultText(reference), nil
}

// Formatting helpers

func formatValidation(result *validate.Result) string {
	var b strings.Builder

	if result.Valid {
		b.WriteString("VALID - no blocking issues\n")
	} else {
		b.WriteString(fmt.Sprintf("INVALID - %d blocking issues\n", len(result.Errors)))
	}

	if len(result.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, issue := range result.Errors {
			b.WriteString(fmt.Sprintf("- [%s] %s: %s\n", issue.Stage, issue.Code, issue.Message))
		}
	}
	if len(result.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, issue := range result.Warnings {
			b.WriteString(fmt.Sprintf("- [%s] %s: %s\n", issue.Stage, issue.Code, issue.Message))
		}
	}

	return b.String()
}

func formatReport(report *simulate.Report) string {
	var b strings.Builder

	if report.Passed {
		b.WriteString(fmt.Sprintf("SOLVABLE - winning shot found after %d attempts\n", report.Attempts))
	} else {
		b.WriteString(fmt.Sprintf("NOT PROVEN SOLVABLE - %d attempts exhausted\n", report.Attempts))
	}

	if report.BestShot != nil {
		s := report.BestShot
		b.WriteString(fmt.Sprintf("Best shot: angle=%.3f rad, power=%.0f, %d steps, final distance %.1f\n",
			s.Angle, s.Power, s.Steps, s.FinalDistance))
	}
	if report.Note != "" {
		b.WriteString(fmt.Sprintf("Note: %s\n", report.Note))
	}

	return b.String()
}

func formatCheckResult(checkID string, result *service.CheckResult) string {
	if result == nil {
		return "No check result available"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Check %s (game: %s)\n", checkID, result.GameID))
	if result.Name != "" {
		b.WriteString(fmt.Sprintf("Level: %s\n", result.Name))
	}

	if result.Publishable {
		b.WriteString("\nPUBLISHABLE\n")
	} else {
		b.WriteString("\nNOT PUBLISHABLE\n")
	}

	if len(result.Fixes) > 0 {
		b.WriteString(fmt.Sprintf("\nSanitizer fixes (%d):\n", len(result.Fixes)))
		for _, fix := range result.Fixes {
			b.WriteString(fmt.Sprintf("- %s\n", fix))
		}
	}

	if result.Validation != nil {
		b.WriteString("\n")
		b.WriteString(formatValidation(result.Validation))
	}

	if len(result.Lint) > 0 {
		b.WriteString("\nLint:\n")
		for _, issue := range result.Lint {
			b.WriteString(fmt.Sprintf("- %s: %s\n", issue.Code, issue.Message))
		}
	}

	if result.Solvable != nil {
		b.WriteString("\n")
		b.WriteString(formatReport(result.Solvable))
	}

	return b.String()
}

// formatLevel renders the grid so agents can see the course at a glance.
func formatLevel(lvl *grid.GridLevel) string {
	if lvl == nil {
		return "No level available"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Level (game: %s, %dx%d):\n\n", lvl.GameID, lvl.Grid.Cols, lvl.Grid.Rows))
	for _, row := range lvl.Grid.Tiles {
		b.WriteString(row)
		b.WriteString("\n")
	}

	if len(lvl.Entities.Portals) > 0 {
		b.WriteString("\nPortals:\n")
		for _, p := range lvl.Entities.Portals {
			b.WriteString(fmt.Sprintf("- %s: (%d,%d) -> (%d,%d), cooldown %.1fs, exit boost %.2f\n",
				p.ID, p.Entrance.X, p.Entrance.Y, p.Exit.X, p.Exit.Y, p.Cooldown, p.ExitBoost))
		}
	}
	if len(lvl.Entities.MovingBlocks) > 0 {
		b.WriteString("\nMoving blocks:\n")
		for _, m := range lvl.Entities.MovingBlocks {
			b.WriteString(fmt.Sprintf("- %s: origin (%d,%d), axis %s, range %d, speed %.1f, mode %s\n",
				m.ID, m.Origin.X, m.Origin.Y, m.Axis, m.Range, m.Speed, m.Mode))
		}
	}

	return b.String()
}
