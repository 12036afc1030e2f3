// Command klotski runs the Klotski sliding-block puzzle server and its
// offline tools.
//
// Subcommands:
//   - serve (default) – HTTP server exposing the REST API, WebSocket hub, and an /mcp HTTP endpoint
//   - mcp             – MCP stdio server, reusing an external API server when one is running
//   - solve           – solve a puzzle offline and print the optimal path
//   - bench           – run the solver strategies against the catalog and compare them
//   - code            – convert between share codes and decimal layouts
//
// Flags control host/port, the configs and sessions directories, debug
// logging, and optional ngrok tunneling for easy external access during
// development. Environment variables and a .env file provide defaults.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/giraffishh/klotski/api"
	"github.com/giraffishh/klotski/game/board"
	"github.com/giraffishh/klotski/game/config"
	"github.com/giraffishh/klotski/game/engine"
	"github.com/giraffishh/klotski/game/service"
	"github.com/giraffishh/klotski/game/session"
	"github.com/giraffishh/klotski/game/solver"
	"github.com/giraffishh/klotski/transport/mcp"
	"github.com/giraffishh/klotski/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Klotski Puzzle Server"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Error loading .env file")
		}
	} else {
		log.Info().Msg("Loaded environment variables from .env file")
	}

	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "klotski",
		Usage:   "Klotski sliding-block puzzle server",
		Version: Version,
		Flags:   serveFlags(),
		Action:  runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server with REST API, WebSocket hub, and MCP endpoint (default)",
				Flags:  serveFlags(),
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run an MCP stdio server, reusing an external API server when one is running",
				Flags:   mcpFlags(),
				Action:  runMCP,
			},
			{
				Name:   "solve",
				Usage:  "Solve a puzzle offline and print the optimal path",
				Flags:  solveFlags(),
				Action: runSolve,
			},
			{
				Name:   "bench",
				Usage:  "Run the solver strategies against the catalog and compare them",
				Flags:  benchFlags(),
				Action: runBench,
			},
			{
				Name:      "code",
				Usage:     "Convert between share codes and decimal layouts",
				ArgsUsage: "<share-code or decimal layout>",
				Action:    runCode,
			},
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("KLOTSKI_HOST")},
		&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("KLOTSKI_PORT")},
		&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing puzzle configurations", Sources: cli.EnvVars("CONFIG_DIR")},
		&cli.StringFlag{Name: "sessions-dir", Value: "sessions", Usage: "Directory for persisted sessions", Sources: cli.EnvVars("SESSIONS_DIR")},
		&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("KLOTSKI_DEBUG")},
		&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
	}
}

func mcpFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "host", Value: "localhost", Usage: "Host of the API server to reuse", Sources: cli.EnvVars("KLOTSKI_HOST")},
		&cli.IntFlag{Name: "port", Value: 8080, Usage: "Port of the API server to reuse", Sources: cli.EnvVars("KLOTSKI_PORT")},
		&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing puzzle configurations", Sources: cli.EnvVars("CONFIG_DIR")},
		&cli.StringFlag{Name: "sessions-dir", Value: "sessions", Usage: "Directory for persisted sessions", Sources: cli.EnvVars("SESSIONS_DIR")},
		&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("KLOTSKI_DEBUG")},
	}
}

func solveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "Puzzle name from the configs directory (default: the classic opening)"},
		&cli.StringFlag{Name: "code", Usage: "Share code to solve instead of a named puzzle"},
		&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing puzzle configurations", Sources: cli.EnvVars("CONFIG_DIR")},
		&cli.StringFlag{Name: "strategy", Value: "hybrid", Usage: "Solver strategy: " + strings.Join(solver.StrategyNames(), ", ")},
		&cli.BoolFlag{Name: "boards", Usage: "Print every board on the optimal path"},
	}
}

func benchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing puzzle configurations", Sources: cli.EnvVars("CONFIG_DIR")},
		&cli.StringFlag{Name: "strategies", Value: strings.Join(solver.StrategyNames(), ","), Usage: "Comma-separated strategies to compare"},
	}
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp
// proxy endpoint. If ngrok is enabled (via flag or environment), it also
// provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Info().Msgf("Starting %s v%s", AppName, Version)

	gameService, hub, err := initializeServices(cmd.String("config-dir"), cmd.String("sessions-dir"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	apiServer := api.NewServer(gameService, hub)
	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))

	// The /mcp endpoint shares the stdio tool set with web-based agents.
	mcpClient := mcp.NewClient("http://" + addr)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHTTPHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Msgf("HTTP server listening on %s", addr)
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	sig := <-stop
	log.Info().Msgf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("Server stopped")
	return nil
}

// mcpHTTPHandler exposes the MCP server over plain HTTP POST so agents can
// use the tools without a stdio transport.
func mcpHTTPHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(data)
	}
}

// runNgrokTunnel provisions a public ngrok endpoint and serves the same
// router through it. Requires an auth token via flag or environment.
func runNgrokTunnel(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Warn().Msg("Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Info().Msg("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Info().Msgf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("Failed to start ngrok tunnel")
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	log.Info().Msgf("🚀 Ngrok tunnel established: %s", url)
	log.Info().Msgf("  REST API (ngrok): %s/api", url)
	log.Info().Msgf("  WebSocket (ngrok): %s/ws?session=<session_id>", url)
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", url)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("Ngrok server error")
	}
	log.Info().Msg("Ngrok tunnel closed")
}

// initializeServices wires the config manager, session persistence, session
// manager, WebSocket hub, and game service together. It also starts the
// background routines that prune stale sessions.
func initializeServices(configDir, sessionsDir string) (service.GameService, *websocket.Hub, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(sessionsDir, configManager)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Warn().Err(err).Msg("Failed to load persisted sessions")
	}

	// The hub doubles as the service's broadcaster for solve-job events.
	hub := websocket.NewHub()
	go hub.Run()

	gameService := service.NewGameService(sessionManager, configManager, hub)

	go sessionCleanupRoutine(sessionManager)
	go filesystemSyncRoutine(sessionManager, persistence)

	return gameService, hub, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpiredSessions(24 * time.Hour)
		if removed > 0 {
			log.Info().Msgf("Cleaned up %d expired sessions", removed)
		}
	}
}

// filesystemSyncRoutine periodically syncs in-memory sessions with
// filesystem state. It removes sessions from memory when their
// corresponding files are deleted.
func filesystemSyncRoutine(manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if persistence == nil {
			continue
		}

		pruned := 0
		for _, s := range manager.List() {
			if !persistence.Exists(s.ID) {
				if err := manager.DeleteFromMemory(s.ID); err == nil {
					pruned++
					log.Debug().Msgf("Pruned session %s from memory (file deleted)", s.ID)
				}
			}
		}

		if pruned > 0 {
			log.Info().Msgf("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
		}
	}
}

// runMCP runs an MCP stdio server. It reuses an external API server when one
// is answering; otherwise it boots an internal HTTP API on a random loopback
// port and targets that, so the stdio mode works standalone.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	externalURL := fmt.Sprintf("http://%s:%d", cmd.String("host"), cmd.Int("port"))
	log.Info().Msgf("Checking for external API server at %s...", externalURL)

	var baseURL string
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil {
		resp.Body.Close()
	}
	if err == nil && resp.StatusCode < 500 {
		log.Info().Msgf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		log.Info().Msg("No external API server found, starting internal HTTP server")

		gameService, hub, err := initializeServices(cmd.String("config-dir"), cmd.String("sessions-dir"))
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		internalAddr := listener.Addr().String()
		log.Info().Msgf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("Internal HTTP server error")
			}
		}()

		// Wait a moment for the server to be ready
		time.Sleep(100 * time.Millisecond)
		baseURL = "http://" + internalAddr
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runSolve solves one puzzle offline and prints the optimal move count,
// states explored, and timing. The puzzle comes from --code, --config, or
// defaults to the classic opening.
func runSolve(ctx context.Context, cmd *cli.Command) error {
	initial, name, err := resolveSolveLayout(cmd)
	if err != nil {
		return err
	}

	strategy, err := solver.NewStrategy(cmd.String("strategy"))
	if err != nil {
		return err
	}

	fmt.Printf("Solving %s with the %s strategy...\n", name, strategy.Name())

	start := time.Now()
	path, err := strategy.Solve(initial)
	elapsed := time.Since(start)

	if errors.Is(err, solver.ErrNoSolution) {
		return fmt.Errorf("no solution: the general can never reach the exit (%d states explored)", strategy.Explored())
	}
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}

	fmt.Printf("Optimal solution: %d moves\n", len(path)-1)
	fmt.Printf("States explored:  %d\n", strategy.Explored())
	fmt.Printf("Time:             %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Share code:       %s\n", initial.ShareCode())

	if cmd.Bool("boards") {
		for i, step := range path {
			b, err := step.Unpack()
			if err != nil {
				return err
			}
			fmt.Printf("\nStep %d:\n%s\n", i, b)
		}
	}
	return nil
}

// resolveSolveLayout picks the puzzle to solve: a share code wins over a
// named config, which wins over the built-in classic opening.
func resolveSolveLayout(cmd *cli.Command) (board.Layout, string, error) {
	if code := cmd.String("code"); code != "" {
		l, err := board.ParseShareCode(code)
		if err != nil {
			return 0, "", err
		}
		return l, code, nil
	}

	puzzle := engine.DefaultPuzzle()
	if name := cmd.String("config"); name != "" {
		manager, err := config.NewManager(cmd.String("config-dir"))
		if err != nil {
			return 0, "", err
		}
		puzzle, err = manager.LoadConfig(name)
		if err != nil {
			return 0, "", err
		}
	}

	l, err := board.Pack(puzzle.Board)
	if err != nil {
		return 0, "", err
	}
	return l, puzzle.Name, nil
}

// benchResult is one strategy × puzzle cell of the bench matrix.
type benchResult struct {
	puzzle   string
	strategy string
	moves    int
	explored int
	elapsed  time.Duration
	err      error
}

// runBench runs every requested strategy against every puzzle in the
// catalog concurrently and prints the matrix. Strategies disagreeing on an
// optimal length is a solver defect and fails the run.
func runBench(ctx context.Context, cmd *cli.Command) error {
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}
	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return fmt.Errorf("no puzzles found in %s", cmd.String("config-dir"))
	}

	names := strings.Split(cmd.String("strategies"), ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	for _, name := range names {
		if _, err := solver.NewStrategy(name); err != nil {
			return err
		}
	}

	results := make([]benchResult, len(infos)*len(names))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())

	for i, info := range infos {
		puzzle, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			return err
		}
		initial, err := board.Pack(puzzle.Board)
		if err != nil {
			return fmt.Errorf("%s: %w", info.ConfigID, err)
		}

		for j, name := range names {
			idx := i*len(names) + j
			g.Go(func() error {
				strategy, err := solver.NewStrategy(name)
				if err != nil {
					return err
				}
				start := time.Now()
				path, solveErr := strategy.Solve(initial)
				results[idx] = benchResult{
					puzzle:   info.ConfigID,
					strategy: name,
					moves:    len(path) - 1,
					explored: strategy.Explored(),
					elapsed:  time.Since(start),
					err:      solveErr,
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("%-20s %-10s %8s %12s %10s\n", "PUZZLE", "STRATEGY", "MOVES", "EXPLORED", "TIME")
	for _, r := range results {
		if r.err != nil {
			fmt.Printf("%-20s %-10s %8s %12d %10s  %v\n",
				r.puzzle, r.strategy, "-", r.explored, r.elapsed.Round(time.Millisecond), r.err)
			continue
		}
		fmt.Printf("%-20s %-10s %8d %12d %10s\n",
			r.puzzle, r.strategy, r.moves, r.explored, r.elapsed.Round(time.Millisecond))
	}

	mismatches := 0
	for i := 0; i < len(results); i += len(names) {
		row := results[i : i+len(names)]
		optimal := -1
		for _, r := range row {
			if r.err != nil {
				continue
			}
			if optimal == -1 {
				optimal = r.moves
			} else if r.moves != optimal {
				mismatches++
				fmt.Printf("⚠️  %s: strategies disagree on the optimal length\n", row[0].puzzle)
				break
			}
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%d puzzle(s) with disagreeing strategies", mismatches)
	}
	return nil
}

// runCode converts between the decimal wire form and share codes. Digits
// parse as a decimal layout, anything else as a share code.
func runCode(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.Args().First()
	if arg == "" {
		return fmt.Errorf("usage: klotski code <share-code or decimal layout>")
	}

	l, err := board.ParseLayout(arg)
	if err != nil {
		l, err = board.ParseShareCode(arg)
		if err != nil {
			return fmt.Errorf("not a layout or share code: %q", arg)
		}
	}

	b, err := l.Unpack()
	if err != nil {
		return err
	}

	fmt.Printf("Layout:     %s\n", l)
	fmt.Printf("Share code: %s\n", l.ShareCode())
	fmt.Printf("%s\n", b)
	return nil
}
