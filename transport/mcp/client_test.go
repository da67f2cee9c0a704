package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/level/simulate"
	"github.com/playproof/levelproof/level/validate"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"count":  float64(1),
		"levels": []interface{}{"island-green"},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall("GET", "/api/levels", nil, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["count"] != expectedResponse["count"] {
		t.Errorf("Expected count %v, got %v", expectedResponse["count"], response["count"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api/levels", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/levels", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_JSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "game 'pinball' not supported"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("POST", "/api/levels/validate", map[string]string{}, nil)
	if err == nil {
		t.Fatal("Expected error for 422 response")
	}
	if !strings.Contains(err.Error(), "pinball") {
		t.Errorf("Expected API error message to surface, got: %v", err)
	}
}

func levelJSON(t *testing.T) string {
	t.Helper()
	lvl := &grid.GridLevel{
		Schema: grid.SchemaVersion,
		GameID: "mini-golf",
		Grid:   grid.GridSpec{Cols: 20, Rows: 14},
	}
	data, err := json.Marshal(lvl)
	if err != nil {
		t.Fatalf("Failed to marshal level: %v", err)
	}
	return string(data)
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestClient_handleValidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/levels/validate" {
			t.Errorf("Expected POST /api/levels/validate, got %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(validate.Result{
			Valid: false,
			Errors: []validate.Issue{{
				Stage:    validate.StagePlacement,
				Code:     "start_count",
				Severity: validate.SeverityError,
				Message:  "level has no start marker",
			}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "validate_level",
			Arguments: map[string]interface{}{"level": levelJSON(t)},
		},
	}

	result, err := client.handleValidate(context.Background(), request)
	if err != nil {
		t.Fatalf("handleValidate failed: %v", err)
	}

	text := toolText(t, result)
	if !strings.Contains(text, "INVALID") {
		t.Errorf("Expected INVALID verdict, got: %s", text)
	}
	if !strings.Contains(text, "start_count") {
		t.Errorf("Expected issue code in output, got: %s", text)
	}
}

func TestClient_handleValidate_BadLevelArgument(t *testing.T) {
	client := NewClient("http://localhost:8080")

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "validate_level",
			Arguments: map[string]interface{}{"level": "{nope"},
		},
	}

	result, err := client.handleValidate(context.Background(), request)
	if err != nil {
		t.Fatalf("handleValidate returned transport error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("Expected tool error result for malformed level JSON")
	}
}

func TestClient_NamedToolHandlers_MalformedArguments(t *testing.T) {
	client := NewClient("http://localhost:8080")

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"get_level":          client.handleGetLevel,
		"save_level":         client.handleSaveLevel,
		"check_stored_level": client.handleCheckStored,
	}

	// Arguments that are not a map must produce a tool error, not a panic.
	badArgs := []interface{}{nil, "name=windmill", []interface{}{"windmill"}}

	for tool, handler := range handlers {
		for _, args := range badArgs {
			request := mcp.CallToolRequest{
				Params: mcp.CallToolParams{
					Name:      tool,
					Arguments: args,
				},
			}

			result, err := handler(context.Background(), request)
			if err != nil {
				t.Fatalf("%s returned transport error: %v", tool, err)
			}
			if result == nil || !result.IsError {
				t.Errorf("%s: expected tool error result for arguments %#v", tool, args)
			}
		}
	}
}

func TestClient_handleGetLevel_MissingName(t *testing.T) {
	client := NewClient("http://localhost:8080")

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "get_level",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleGetLevel(context.Background(), request)
	if err != nil {
		t.Fatalf("handleGetLevel returned transport error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("Expected tool error result when name argument is absent")
	}
	if !strings.Contains(toolText(t, result), "name") {
		t.Error("Expected error text to mention the name argument")
	}
}

func TestClient_handleSimulate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Quick bool `json:"quick"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if !req.Quick {
			t.Error("Expected quick flag to be forwarded")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(simulate.Report{
			Passed:   true,
			Attempts: 7,
			BestShot: &simulate.Shot{Angle: 0, Power: 675, Steps: 80, Holed: true},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "simulate_level",
			Arguments: map[string]interface{}{
				"level": levelJSON(t),
				"quick": true,
			},
		},
	}

	result, err := client.handleSimulate(context.Background(), request)
	if err != nil {
		t.Fatalf("handleSimulate failed: %v", err)
	}

	text := toolText(t, result)
	if !strings.Contains(text, "SOLVABLE") {
		t.Errorf("Expected SOLVABLE verdict, got: %s", text)
	}
	if !strings.Contains(text, "7 attempts") {
		t.Errorf("Expected attempt count, got: %s", text)
	}
}

func TestClient_handleListLevels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count":  2,
			"levels": []string{"island-green", "windmill"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "list_levels",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleListLevels(context.Background(), request)
	if err != nil {
		t.Fatalf("handleListLevels failed: %v", err)
	}

	text := toolText(t, result)
	if !strings.Contains(text, "island-green") || !strings.Contains(text, "windmill") {
		t.Errorf("Expected level names in output, got: %s", text)
	}
}

func TestClient_handleLevelFormat(t *testing.T) {
	client := NewClient("http://localhost:8080")

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "level_format",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleLevelFormat(context.Background(), request)
	if err != nil {
		t.Fatalf("handleLevelFormat failed: %v", err)
	}

	text := toolText(t, result)
	expectedContent := []string{
		"playproof.level.v1",
		"TOKEN ALPHABET",
		"PLACEMENT RULES",
		"THE PUBLISH GATE",
	}
	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in format reference", content)
		}
	}
}

func TestFormatValidation(t *testing.T) {
	result := formatValidation(&validate.Result{Valid: true})
	if !strings.Contains(result, "VALID") {
		t.Errorf("Expected VALID in output, got: %s", result)
	}

	result = formatValidation(&validate.Result{
		Valid: false,
		Errors: []validate.Issue{
			{Stage: validate.StageShapes, Code: "wall_shape_size", Message: "wall blob too large"},
		},
		Warnings: []validate.Issue{
			{Stage: validate.StagePlacement, Code: "hazard_near_goal", Message: "hazard crowds the goal"},
		},
	})
	for _, want := range []string{"INVALID", "wall_shape_size", "Warnings", "hazard_near_goal"} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected '%s' in output, got: %s", want, result)
		}
	}
}

func TestFormatLevel(t *testing.T) {
	lvl := &grid.GridLevel{
		Schema: grid.SchemaVersion,
		GameID: "mini-golf",
		Grid: grid.GridSpec{
			Cols:  3,
			Rows:  2,
			Tiles: []string{"B.H", "..."},
		},
	}

	result := formatLevel(lvl)
	if !strings.Contains(result, "B.H") {
		t.Errorf("Expected grid rows in output, got: %s", result)
	}
	if !strings.Contains(result, "mini-golf") {
		t.Errorf("Expected game id in output, got: %s", result)
	}
}

func TestClient_Integration(t *testing.T) {
	client := NewClient("http://localhost:8080")

	if client == nil {
		t.Fatal("Failed to create client")
	}

	if client.mcpServer == nil {
		t.Fatal("MCP server not initialized")
	}

	if client.baseURL == "" {
		t.Error("Base URL not set")
	}

	if client.httpClient == nil {
		t.Error("HTTP client not initialized")
	}
}
