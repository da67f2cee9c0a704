// Package api provides HTTP REST API handlers for the level pipeline.
//
// The api package implements:
//   - Pipeline endpoints for ad-hoc level documents
//   - Stored level listing, retrieval, saving, and checking
//   - Game profile discovery
//   - WebSocket upgrade handling for check event streams
//   - Static file serving
//
// Endpoints:
//
// Pipeline (the request body is a level document unless noted):
//   - POST /api/levels/validate - Run the three-stage validator
//   - POST /api/levels/lint - Run the non-blocking lint pass
//   - POST /api/levels/sanitize - Return the cleaned document and fixes
//   - POST /api/levels/compile - Return the physics scene
//   - POST /api/levels/simulate - Run the solvability search
//     (body: {level: {...}, config: {...}, quick: true|false})
//   - POST /api/levels/check - Run the whole pipeline
//     (body: {level: {...}, config: {...}, quick: true|false})
//
// Stored Levels:
//   - GET /api/levels - List level names in the store
//   - GET /api/levels/{name} - Get a stored level document
//   - PUT /api/levels/{name} - Save a level document
//   - POST /api/levels/{name}/check - Run the whole pipeline on a stored level
//
// Games:
//   - GET /api/games - List supported game profiles
//   - GET /api/games/{id} - Get one game profile
//
// WebSocket:
//   - GET /ws?level={name} - Subscribe to check events for one level,
//     or omit the parameter to receive events for every level
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Pipeline runs carry a server-assigned
// check_id so streamed events can be correlated with the HTTP response.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
