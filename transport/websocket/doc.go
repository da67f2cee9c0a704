// Package websocket provides real-time check event streaming for level review.
//
// The websocket package implements:
//   - Level-aware WebSocket subscriptions
//   - Broadcasting of pipeline milestones (check started/finished, level saved)
//   - Connection lifecycle management
//   - A firehose topic covering every level
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup. Slow clients are
// dropped rather than allowed to stall the broadcast path.
//
// Message Protocol:
//
// Outgoing messages are JSON-encoded:
//   - {level: "island-green", event: "check_started"}
//   - {level: "island-green", event: "check_finished", result: {...}}
//   - {level: "island-green", event: "level_saved"}
//
// Subscriptions:
//
// Clients subscribe to one level via query parameter (?level=island-green)
// when establishing the connection, or omit the parameter to receive events
// for every level. Clients do not send messages; the read pump exists only
// to detect disconnects and answer pings.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// In an HTTP handler:
//	hub.ServeWS(w, r, levelName)
//
//	// From the pipeline:
//	hub.BroadcastCheck(levelName, checkResult)
package websocket
