// Package service exposes the level pipeline behind a single interface.
//
// LevelService is what the transports program against: the REST API, the
// websocket hub, the MCP tools, and the CLI all call the same operations.
// The service resolves the game profile from the level's game id, runs the
// requested pipeline stage, and for the composite Check operation chains
// sanitize, validate, lint, and simulate into one report.
//
// Level persistence is abstracted behind the LevelStore interface so tests
// can substitute an in-memory store for the disk-backed one.
package service
