package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/manojxshrestha/win11web-sub000/docs" // swagger generated docs
	"github.com/manojxshrestha/win11web-sub000/src/api"
	"github.com/manojxshrestha/win11web-sub000/src/handler"
	"github.com/manojxshrestha/win11web-sub000/src/handler/command"
	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/handler/terminal"
	"github.com/manojxshrestha/win11web-sub000/src/lib"
	"github.com/manojxshrestha/win11web-sub000/src/mcp"
)

const shutdownTimeout = 10 * time.Second

// @title           Win11 Web Shell API
// @version         1.0
// @description     Virtual C: drive, recycle bin and terminal sessions behind the browser desktop.

// @host      localhost:8080
// @BasePath  /
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Debug(".env file not found")
	}

	cfg, err := lib.LoadConfig()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	cfg.ConfigureLogging()

	// Define command-line flags
	port := flag.Int("port", cfg.Port, "Port to listen on")
	shortPort := flag.Int("p", cfg.Port, "Port to listen on (shorthand)")
	commandLine := flag.String("command", "", "Run one simulated command and exit")
	shortCommand := flag.String("c", "", "Run one simulated command and exit (shorthand)")
	shell := flag.String("shell", "powershell", "Shell dialect for -command: powershell or cmd")
	flag.Parse()

	portValue := *port
	if *shortPort != cfg.Port {
		portValue = *shortPort
	}
	commandValue := *commandLine
	if *shortCommand != "" {
		commandValue = *shortCommand
	}

	fs := filesystem.NewFilesystem()
	bin := filesystem.NewRecycleBin(fs)
	shares := filesystem.NewShareRegistry()
	sessions := terminal.NewSessionManager(fs, terminal.WithGeometry(cfg.TerminalCols, cfg.TerminalRows))
	commands := command.NewRouter(fs, bin, sessions)

	if commandValue != "" {
		res := commands.Execute(command.Context{Shell: terminal.ParseShellKind(*shell)}, commandValue)
		if res.Output != "" {
			fmt.Println(res.Output)
		}
		os.Exit(res.ExitCode)
	}

	docs.SwaggerInfo.Host = fmt.Sprintf("%s:%d", cfg.Host, portValue)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	terminalHandler := handler.NewTerminalHandler(sessions, commands)
	stopMetrics := handler.TrackFilesystemMetrics(fs, bin)
	defer stopMetrics()
	sessions.StartCleanup(ctx, cfg.SessionCleanupInterval, cfg.SessionIdleTimeout)

	deps := api.Dependencies{
		FileSystem:           fs,
		RecycleBin:           bin,
		Shares:               shares,
		Sessions:             sessions,
		Terminal:             terminalHandler,
		EnableProcessingTime: true,
	}
	if cfg.MCPEnabled {
		deps.MCP = mcp.NewServer(&mcp.Handlers{
			FileSystem: fs,
			RecycleBin: bin,
			Terminal:   terminalHandler,
		}).Handler()
	}
	router := api.SetupRouter(deps)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, portValue),
		Handler: router,
	}

	go func() {
		logrus.Infof("Starting shell API server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
	sessions.DestroyAllSessions()
}
