// cmd/shopify-mcp-launch/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shopifymcp/internal/launcher"
	"shopifymcp/pkg/config"
	"shopifymcp/pkg/credentials"
	"shopifymcp/pkg/logger"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "setup":
			if err := launcher.Setup(args[1:], os.Stdin, os.Stdout); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "tools":
			if err := launcher.WriteCatalog(os.Stdout); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "-h", "--help", "help":
			usage()
			return
		}
	}

	opts, err := launcher.ParseArgs(args)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		usage()
		os.Exit(1)
	}

	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.Debug)
	defer func() { _ = log.Sync() }()

	res, err := credentials.NewResolver(log)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(launcher.ExitCredentials)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code, err := launcher.New(res, log).Run(ctx, opts)
	stop()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}

func usage() {
	_, _ = fmt.Fprintln(os.Stderr, "shopify-mcp-launch [--port N] [args...]")
	_, _ = fmt.Fprintln(os.Stderr, "shopify-mcp-launch setup --shop <domain> [--api-key <k>] [--profile <path>] [--force]  (token or password read from stdin)")
	_, _ = fmt.Fprintln(os.Stderr, "shopify-mcp-launch tools")
	_, _ = fmt.Fprintln(os.Stderr, "")
	_, _ = fmt.Fprintln(os.Stderr, "Credentials are read from $SHOPIFY_MCP_PROFILE (default ~/.shopify_mcp_profile, mode 0600)")
	_, _ = fmt.Fprintln(os.Stderr, "or ./.env, with SHOPIFY_SHOP_URL and SHOPIFY_ACCESS_TOKEN (or SHOPIFY_API_KEY + SHOPIFY_PASSWORD).")
	_, _ = fmt.Fprintln(os.Stderr, "Unknown arguments are passed to the server.")
}
