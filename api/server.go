package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/level/service"
	"github.com/playproof/levelproof/level/simulate"
	"github.com/playproof/levelproof/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.LevelService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(levelService service.LevelService, hub *websocket.Hub) *Server {
	s := &Server{
		service: levelService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Pipeline operations on ad-hoc level documents
	// (fixed paths must be registered before the {name} pattern)
	api.HandleFunc("/levels/validate", s.handleValidate).Methods("POST")
	api.HandleFunc("/levels/lint", s.handleLint).Methods("POST")
	api.HandleFunc("/levels/sanitize", s.handleSanitize).Methods("POST")
	api.HandleFunc("/levels/compile", s.handleCompile).Methods("POST")
	api.HandleFunc("/levels/simulate", s.handleSimulate).Methods("POST")
	api.HandleFunc("/levels/check", s.handleCheck).Methods("POST")

	// Stored levels
	api.HandleFunc("/levels", s.handleListLevels).Methods("GET")
	api.HandleFunc("/levels/{name}", s.handleGetLevel).Methods("GET")
	api.HandleFunc("/levels/{name}", s.handleSaveLevel).Methods("PUT")
	api.HandleFunc("/levels/{name}/check", s.handleCheckStored).Methods("POST")

	// Game profiles
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static files (if needed)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeLevel(r *http.Request) (*grid.GridLevel, error) {
	var lvl grid.GridLevel
	if err := json.NewDecoder(r.Body).Decode(&lvl); err != nil {
		return nil, fmt.Errorf("invalid level document: %w", err)
	}
	return &lvl, nil
}

// checkRequest wraps a level with optional simulation settings.
type checkRequest struct {
	Level  *grid.GridLevel  `json:"level"`
	Config *simulate.Config `json:"config,omitempty"`
	Quick  bool             `json:"quick,omitempty"`
}

func decodeCheckRequest(r *http.Request) (*checkRequest, error) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if req.Level == nil {
		return nil, fmt.Errorf("request body must include a level")
	}
	if req.Quick && req.Config == nil {
		cfg := simulate.QuickConfig()
		req.Config = &cfg
	}
	return &req, nil
}

// Pipeline Handlers

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	lvl, err := decodeLevel(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.Validate(r.Context(), lvl)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	lvl, err := decodeLevel(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	issues, err := s.service.Lint(r.Context(), lvl)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(issues),
		"issues": issues,
	})
}

func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	lvl, err := decodeLevel(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.Sanitize(r.Context(), lvl)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	lvl, err := decodeLevel(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	spec, err := s.service.Compile(r.Context(), lvl)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, spec)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCheckRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.service.Simulate(r.Context(), req.Level, req.Config)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCheckRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	checkID := uuid.NewString()
	result, err := s.service.Check(r.Context(), req.Level, req.Config)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// Compact server log for observability
	fmt.Printf("[CHECK] id=%s game=%s valid=%t publishable=%t fixes=%d\n",
		checkID, result.GameID, result.Validation.Valid, result.Publishable, len(result.Fixes))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"check_id": checkID,
		"result":   result,
	})
}

// Stored Level Handlers

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	names, err := s.service.ListLevels(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sort.Strings(names)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(names),
		"levels": names,
	})
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := strings.TrimSuffix(vars["name"], ".json")

	lvl, err := s.service.LoadLevel(r.Context(), name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, lvl)
}

func (s *Server) handleSaveLevel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := strings.TrimSuffix(vars["name"], ".json")

	lvl, err := decodeLevel(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.SaveLevel(r.Context(), name, lvl); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// Broadcast to WebSocket clients
	if s.hub != nil {
		s.hub.BroadcastEvent(name, websocket.EventLevelSaved, nil)
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("Level %s saved", name),
		"name":    name,
	})
}

func (s *Server) handleCheckStored(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]

	var req struct {
		Config *simulate.Config `json:"config,omitempty"`
		Quick  bool             `json:"quick,omitempty"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Quick && req.Config == nil {
		cfg := simulate.QuickConfig()
		req.Config = &cfg
	}

	checkID := uuid.NewString()
	if s.hub != nil {
		s.hub.BroadcastEvent(name, websocket.EventCheckStarted, map[string]string{"check_id": checkID})
	}

	result, err := s.service.CheckStored(r.Context(), name, req.Config)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	// Broadcast to WebSocket clients
	if s.hub != nil {
		s.hub.BroadcastCheck(name, result)
	}

	fmt.Printf("[CHECK] id=%s level=%s game=%s valid=%t publishable=%t\n",
		checkID, name, result.GameID, result.Validation.Valid, result.Publishable)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"check_id": checkID,
		"result":   result,
	})
}

// Game Profile Handlers

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, games)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	profile, err := s.service.Profile(r.Context(), vars["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "streaming not enabled", http.StatusNotImplemented)
		return
	}

	// An empty level subscribes to events for every level
	s.hub.ServeWS(w, r, r.URL.Query().Get("level"))
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
