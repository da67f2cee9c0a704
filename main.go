// Command levelproof runs the PlayProof level pipeline.
//
// It exposes the pipeline three ways:
//  1. "serve" – HTTP server with REST API, WebSocket hub, and an /mcp HTTP endpoint
//  2. "mcp" – MCP stdio server backed by an internal HTTP API
//  3. file commands (validate, lint, sanitize, simulate, check) – run pipeline
//     stages against a level JSON file from the shell
//
// Flags control host/port, the levels directory, and debug logging.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/playproof/levelproof/api"
	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/level/service"
	"github.com/playproof/levelproof/level/simulate"
	"github.com/playproof/levelproof/level/store"
	"github.com/playproof/levelproof/transport/mcp"
	"github.com/playproof/levelproof/transport/websocket"
	"github.com/urfave/cli/v3"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "PlayProof Level Pipeline"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cmd := rootCommand()
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// rootCommand assembles the CLI tree. Server flags live on the commands that
// start servers; file commands take the level path as their first argument.
func rootCommand() *cli.Command {
	serverFlags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "HTTP server port",
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "HTTP server host",
			Sources: cli.EnvVars("HOST"),
		},
	}
	levelsFlag := &cli.StringFlag{
		Name:    "levels-dir",
		Value:   "levels",
		Usage:   "Directory containing level documents",
		Sources: cli.EnvVars("LEVELS_DIR"),
	}
	quickFlag := &cli.BoolFlag{
		Name:  "quick",
		Usage: "Use the coarse search budget",
	}

	return &cli.Command{
		Name:    "levelproof",
		Usage:   "validate, repair, and prove solvability of PlayProof levels",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server with REST API, WebSocket, and MCP endpoint",
				Flags:  append(serverFlags, levelsFlag),
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run an MCP stdio server backed by an internal HTTP API",
				Flags:   []cli.Flag{levelsFlag},
				Action:  runStdioMCP,
			},
			{
				Name:      "validate",
				Usage:     "Run the three-stage validator on a level file",
				ArgsUsage: "<level.json>",
				Action:    runValidate,
			},
			{
				Name:      "lint",
				Usage:     "Run the style checks on a level file",
				ArgsUsage: "<level.json>",
				Action:    runLint,
			},
			{
				Name:      "sanitize",
				Usage:     "Repair a level file and print the cleaned document",
				ArgsUsage: "<level.json>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "write",
						Usage: "Overwrite the input file with the cleaned level",
					},
				},
				Action: runSanitize,
			},
			{
				Name:      "simulate",
				Usage:     "Search for a winning shot on a level file",
				ArgsUsage: "<level.json>",
				Flags:     []cli.Flag{quickFlag},
				Action:    runSimulate,
			},
			{
				Name:      "check",
				Usage:     "Run the full pipeline (sanitize, validate, lint, simulate) on a level file",
				ArgsUsage: "<level.json>",
				Flags:     []cli.Flag{quickFlag},
				Action:    runCheck,
			},
			{
				Name:   "list",
				Usage:  "List stored levels",
				Flags:  []cli.Flag{levelsFlag},
				Action: runList,
			},
		},
	}
}

// newService builds the level service over the configured levels directory,
// creating the directory if it does not exist yet.
func newService(cmd *cli.Command) (service.LevelService, *store.Store, error) {
	dir := cmd.String("levels-dir")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create levels directory: %w", err)
	}
	st, err := store.New(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open level store: %w", err)
	}
	return service.NewLevelService(st), st, nil
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp
// proxy endpoint, then blocks until an interrupt arrives.
func runServe(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Starting %s v%s", AppName, Version)

	levelService, st, err := newService(cmd)
	if err != nil {
		return err
	}

	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(levelService, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	baseURL := fmt.Sprintf("http://%s", addr)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Evict cached levels when files change on disk
	go func() {
		if err := st.Watch(watchCtx); err != nil && watchCtx.Err() == nil {
			log.Printf("Level watcher stopped: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?level=<name>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// mcpHandler proxies POSTed MCP messages to the embedded MCP server.
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runStdioMCP runs an MCP stdio server. It reuses an external API at
// http://localhost:8080 when one is running; otherwise it starts a minimal
// internal HTTP API on a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	var baseURL string

	externalURL := "http://localhost:8080"
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		levelService, _, err := newService(cmd)
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()

		apiServer := api.NewServer(levelService, hub)
		httpServer := &http.Server{Handler: apiServer}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		// Wait a moment for the server to be ready
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// loadLevelFile reads and decodes the level document named by the command's
// first argument.
func loadLevelFile(cmd *cli.Command) (*grid.GridLevel, string, error) {
	path := cmd.Args().First()
	if path == "" {
		return nil, "", fmt.Errorf("expected a level file argument")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read level file: %w", err)
	}
	var lvl grid.GridLevel
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, "", fmt.Errorf("failed to parse level file %s: %w", path, err)
	}
	return &lvl, path, nil
}

// fileService builds a service with no backing store for commands that
// operate on a file argument only.
func fileService() service.LevelService {
	return service.NewLevelService(nil)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	lvl, _, err := loadLevelFile(cmd)
	if err != nil {
		return err
	}
	result, err := fileService().Validate(ctx, lvl)
	if err != nil {
		return err
	}
	if err := printJSON(result); err != nil {
		return err
	}
	if !result.Valid {
		return cli.Exit("level is invalid", 1)
	}
	return nil
}

func runLint(ctx context.Context, cmd *cli.Command) error {
	lvl, _, err := loadLevelFile(cmd)
	if err != nil {
		return err
	}
	issues, err := fileService().Lint(ctx, lvl)
	if err != nil {
		return err
	}
	return printJSON(issues)
}

func runSanitize(ctx context.Context, cmd *cli.Command) error {
	lvl, path, err := loadLevelFile(cmd)
	if err != nil {
		return err
	}
	result, err := fileService().Sanitize(ctx, lvl)
	if err != nil {
		return err
	}
	for _, fix := range result.Fixes {
		log.Printf("fix: %s", fix)
	}
	if cmd.Bool("write") {
		data, err := json.MarshalIndent(result.Level, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write cleaned level: %w", err)
		}
		log.Printf("Wrote cleaned level to %s (%d fixes)", path, len(result.Fixes))
		return nil
	}
	return printJSON(result.Level)
}

func runSimulate(ctx context.Context, cmd *cli.Command) error {
	lvl, _, err := loadLevelFile(cmd)
	if err != nil {
		return err
	}
	svc := fileService()
	var report *simulate.Report
	if cmd.Bool("quick") {
		report, err = svc.QuickCheck(ctx, lvl)
	} else {
		report, err = svc.Simulate(ctx, lvl, nil)
	}
	if err != nil {
		return err
	}
	if err := printJSON(report); err != nil {
		return err
	}
	if !report.Passed {
		return cli.Exit("no winning shot found", 1)
	}
	return nil
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	lvl, _, err := loadLevelFile(cmd)
	if err != nil {
		return err
	}
	var cfg *simulate.Config
	if cmd.Bool("quick") {
		quick := simulate.QuickConfig()
		cfg = &quick
	}
	result, err := fileService().Check(ctx, lvl, cfg)
	if err != nil {
		return err
	}
	if err := printJSON(result); err != nil {
		return err
	}
	if !result.Publishable {
		return cli.Exit("level is not publishable", 1)
	}
	return nil
}

func runList(ctx context.Context, cmd *cli.Command) error {
	svc, _, err := newService(cmd)
	if err != nil {
		return err
	}
	names, err := svc.ListLevels(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
