// cmd/shopify-mcp/main.go
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

	"shopifymcp/internal/mcp"
	"shopifymcp/internal/rest"
	"shopifymcp/internal/tools"
	"shopifymcp/pkg/config"
	"shopifymcp/pkg/credentials"
	"shopifymcp/pkg/logger"
	"shopifymcp/pkg/middleware"
	"shopifymcp/pkg/shopify"
)

var version = "dev"

func main() {
	port := flag.Int("port", 0, "Also serve the REST mirror on this port")
	httpOnly := flag.Bool("http-only", false, "Serve only the REST mirror (requires --port or SHOPIFY_MCP_HTTP_ADDR)")
	flag.Parse()

	cfg := config.Load()
	if *port > 0 {
		cfg = cfg.WithPort(*port)
	}
	log := logger.New(cfg.Env, cfg.Debug)
	defer func() { _ = log.Sync() }()

	creds, err := credentials.FromEnv(os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shopify-mcp: %v\nrun shopify-mcp-launch, or export %s and %s\n", err, credentials.KeyShopURL, credentials.KeyAccessToken)
		os.Exit(1)
	}
	log.Infow("credentials", "creds", creds.Redacted())

	shutdownTracing := middleware.InitTracing("shopify-mcp")
	client, err := shopify.New(creds, cfg.HTTPTimeout, log, shopify.WithTransport(middleware.Transport(nil)))
	if err != nil {
		log.Fatalw("shopify client", "err", err)
	}
	d := tools.NewDispatcher(client, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Debug {
		go func() {
			cctx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout)
			defer cancel()
			_ = d.CheckConnection(cctx)
		}()
	}

	var srv *http.Server
	if *port > 0 || *httpOnly {
		srv = &http.Server{Addr: cfg.HTTPAddr, Handler: rest.NewRouter(cfg, d, log, version), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			log.Infow("rest mirror listening", "addr", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("ListenAndServe", "err", err)
				stop()
			}
		}()
	}

	if *httpOnly {
		<-ctx.Done()
	} else {
		log.Infow("serving MCP on stdio", "tools", len(d.Tools()))
		if err := mcp.NewServer(d, log, version).Serve(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("mcp", "err", err)
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if srv != nil {
		_ = srv.Shutdown(sctx)
	}
	_ = shutdownTracing(sctx)
	log.Infow("shopify-mcp stopped")
}
