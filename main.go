package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/catalog"
	"github.com/neelkamal0666/dremio-mcp/pkg/cli"
	"github.com/neelkamal0666/dremio-mcp/pkg/config"
	"github.com/neelkamal0666/dremio-mcp/pkg/dremio"
	"github.com/neelkamal0666/dremio-mcp/pkg/handlers"
	"github.com/neelkamal0666/dremio-mcp/pkg/llm"
	"github.com/neelkamal0666/dremio-mcp/pkg/logging"
	mcpserver "github.com/neelkamal0666/dremio-mcp/pkg/mcp"
	"github.com/neelkamal0666/dremio-mcp/pkg/mcp/tools"
	"github.com/neelkamal0666/dremio-mcp/pkg/middleware"
	"github.com/neelkamal0666/dremio-mcp/pkg/nlq"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	mode := flag.String("mode", "http", "run mode: http, mcp, or interactive")
	flag.Parse()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := dremio.NewClient(cfg.Dremio, logger)
	if err != nil {
		logger.Fatal("failed to create Dremio client", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := client.Authenticate(ctx); err != nil {
		cancel()
		logger.Fatal("Dremio authentication failed",
			zap.String("error", logging.SanitizeError(err)))
	}

	store := catalog.NewStore(client, logger)
	if err := store.Refresh(ctx); err != nil {
		logger.Warn("initial catalog refresh failed; starting with an empty catalog",
			zap.String("error", logging.SanitizeError(err)))
	}
	cancel()

	opts := []nlq.Option{
		nlq.WithDefaultLimit(cfg.Query.DefaultRowLimit),
		nlq.WithResolver(nlq.Resolver{
			MinScore:           cfg.Query.MinResolveScore,
			PreferShortestPath: cfg.Query.PreferShortestPath,
		}),
	}
	if chain := llm.NewChain(cfg.AI, logger); chain != nil {
		opts = append(opts, nlq.WithGenerator(chain))
	}
	pipeline := nlq.NewPipeline(store, client, logger, opts...)

	switch *mode {
	case "http":
		runHTTP(cfg, logger, store, client, pipeline)
	case "mcp":
		runMCP(cfg, logger, client, pipeline)
	case "interactive":
		loop := cli.NewLoop(store, pipeline, os.Stdin, os.Stdout)
		if err := loop.Run(context.Background()); err != nil {
			logger.Fatal("interactive session failed", zap.Error(err))
		}
	default:
		log.Fatalf("unknown mode %q (want http, mcp, or interactive)", *mode)
	}
}

func runHTTP(cfg *config.Config, logger *zap.Logger, store *catalog.Store, client *dremio.Client, pipeline *nlq.Pipeline) {
	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg).RegisterRoutes(mux)
	handlers.NewTablesHandler(store, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(pipeline, logger).RegisterRoutes(mux)

	// The MCP tool surface is also reachable over HTTP, alongside the REST routes.
	srv := mcpserver.NewServer(handlers.ServiceName, cfg.Version, logger)
	tools.RegisterAll(srv.MCP(), tools.Deps{
		Dremio:       client,
		Pipeline:     pipeline,
		DefaultLimit: cfg.Query.DefaultRowLimit,
		Logger:       logger.Named("mcp"),
	})
	mux.Handle("/mcp", srv.NewStreamableHTTPServer())

	handler := middleware.Recover(logger)(middleware.CORS(middleware.RequestLogger(logger)(mux)))

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting HTTP server",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func runMCP(cfg *config.Config, logger *zap.Logger, client *dremio.Client, pipeline *nlq.Pipeline) {
	srv := mcpserver.NewServer(handlers.ServiceName, cfg.Version, logger)
	tools.RegisterAll(srv.MCP(), tools.Deps{
		Dremio:       client,
		Pipeline:     pipeline,
		DefaultLimit: cfg.Query.DefaultRowLimit,
		Logger:       logger.Named("mcp"),
	})

	logger.Info("starting MCP server on stdio", zap.String("version", cfg.Version))
	if err := srv.ServeStdio(); err != nil {
		logger.Fatal("mcp server failed", zap.Error(err))
	}
}
