// SRPServer is a minimal HTTPS demo service exposing the SRP-6a
// authentication engine over a stateless request/response API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-srp/srp6a/internal/api"
	"github.com/go-srp/srp6a/internal/api/handlers"
	"github.com/go-srp/srp6a/internal/api/middleware"
	"github.com/go-srp/srp6a/internal/auth"
	"github.com/go-srp/srp6a/internal/config"
	"github.com/go-srp/srp6a/internal/logging"
)

var (
	// version is set by build flags
	version = "dev"
	// commit is set by build flags
	commit = "none"
)

func main() {
	configPath := flag.String("config", "/etc/srp6a/config.yaml", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logger := logging.New(logging.LevelError, logging.FormatJSON)
		logger.Error("service failed", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(parseLogLevel(cfg.Logging.Level), parseLogFormat(cfg.Logging.Format))

	sessionTTL, err := cfg.GetSessionTTL()
	if err != nil {
		return fmt.Errorf("failed to parse session TTL: %w", err)
	}
	handshakeTTL, err := cfg.GetHandshakeTTL()
	if err != nil {
		return fmt.Errorf("failed to parse handshake TTL: %w", err)
	}
	verifierPath, err := cfg.VerifierFilePath()
	if err != nil {
		return fmt.Errorf("failed to resolve verifier file path: %w", err)
	}

	logger.Info("SRP-6a demo server starting", map[string]any{
		"version":        version,
		"commit":         commit,
		"log_level":      cfg.Logging.Level,
		"log_format":     cfg.Logging.Format,
		"listen_address": fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		"session_ttl":    sessionTTL.String(),
		"group_bits":     cfg.Srp.GroupBits,
	})

	record, err := auth.LoadVerifierRecord(verifierPath)
	if err != nil {
		return fmt.Errorf("failed to load verifier record: %w", err)
	}

	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return fmt.Errorf("failed to generate session secret: %w", err)
	}

	sessionManager := auth.NewSessionManager(secret, sessionTTL)
	defer sessionManager.Stop()

	rateLimiter := auth.NewRateLimiter()
	defer rateLimiter.Stop()

	srpStore := auth.NewSRPStore(handshakeTTL)

	stdLogger := log.New(os.Stdout, "", log.LstdFlags)
	authHandler := handlers.NewAuthHandler(record, srpStore, sessionManager, rateLimiter, stdLogger)

	server, err := api.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	mux := server.Handler()
	if mux == nil {
		return fmt.Errorf("failed to get server handler")
	}

	authMiddleware := middleware.NewAuthMiddleware(sessionManager)
	loggingMiddleware := middleware.Logging(logger)
	errorMiddleware := middleware.ErrorHandler(logger)

	wrap := func(h http.Handler) http.Handler {
		return loggingMiddleware(errorMiddleware(h))
	}

	mux.Handle("/auth/srp/salt", wrap(http.HandlerFunc(authHandler.HandleSRPSalt)))
	mux.Handle("/auth/srp/init", wrap(http.HandlerFunc(authHandler.HandleSRPInit)))
	mux.Handle("/auth/srp/verify", wrap(http.HandlerFunc(authHandler.HandleSRPVerify)))

	// Example authenticated endpoint: demonstrates that the post-auth
	// session token gates access to anything behind it.
	mux.Handle("/whoami", wrap(authMiddleware.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := middleware.GetSession(r.Context())
		middleware.WriteJSON(w, map[string]string{"identity": session.Username}, http.StatusOK)
	}))))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("HTTPS server ready to accept connections")
	notifySystemd("READY=1")

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("SRP-6a demo server stopped")
	notifySystemd("STOPPING=1")

	return nil
}

// notifySystemd sends a notification to systemd if NOTIFY_SOCKET is set.
func notifySystemd(state string) {
	notifySocket := os.Getenv("NOTIFY_SOCKET")
	if notifySocket == "" {
		return
	}

	conn, err := net.DialUnix("unixgram", nil, &net.UnixAddr{Name: notifySocket, Net: "unixgram"})
	if err != nil {
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	_, _ = conn.Write([]byte(state))
}

func parseLogLevel(level string) logging.LogLevel {
	switch level {
	case "debug":
		return logging.LevelDebug
	case "info":
		return logging.LevelInfo
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseLogFormat(format string) logging.LogFormat {
	switch format {
	case "json":
		return logging.FormatJSON
	case "human":
		return logging.FormatHuman
	default:
		return logging.FormatJSON
	}
}
