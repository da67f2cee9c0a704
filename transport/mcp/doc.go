// Package mcp provides a Model Context Protocol surface for the level pipeline.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for every pipeline stage
//   - Stored level browsing and checking
//   - Stdio transport for local MCP clients
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - validate_level: Run the three-stage validator on a level document
//   - lint_level: Run the non-blocking style checks
//   - sanitize_level: Clean a level and list the applied fixes
//   - simulate_level: Brute-force the level for a winning shot
//   - check_level: Run the whole pipeline and report publishability
//   - list_levels: List stored level names
//   - get_level: Fetch a stored level document
//   - save_level: Save a level document to the store
//   - check_stored_level: Run the whole pipeline on a stored level
//   - list_games: List supported game profiles
//   - level_format: Get the level document format and token reference
//
// Transport:
//
// The client is a thin proxy: every tool call is translated into a REST API
// request, so the MCP surface and the HTTP surface always agree. Levels are
// passed as JSON strings in the "level" argument.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to author levels: draft a grid, lint
// and validate it, let the sanitizer fix marker problems, and iterate with
// the quick solvability check until the level is publishable.
package mcp
