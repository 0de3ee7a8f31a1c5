package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EricA1019/godot-mcp-index/internal/config"
	"github.com/EricA1019/godot-mcp-index/internal/control"
	"github.com/EricA1019/godot-mcp-index/internal/httpapi"
	"github.com/EricA1019/godot-mcp-index/internal/ignore"
	"github.com/EricA1019/godot-mcp-index/internal/indexstore"
	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

const usage = `Usage:
	godotmcp [OPTIONS]                 run the MCP server on stdio
	godotmcp scan [path]               index new and changed files, then exit
	godotmcp reconcile [path]          full sweep: index live files, drop stale entries
	godotmcp query <term>              run a one-shot search and print hits
	godotmcp watch                     run the change monitor in the foreground
	godotmcp --version                 print version and build info
`

var commands = map[string]func(ctx context.Context, surface *control.Surface, args []string) error{
	"scan":      runScan,
	"reconcile": runReconcile,
	"query":     runQuery,
	"watch":     runWatch,
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("godot-mcp-index\nVersion: %s\nBuild Time: %s\nSQLite driver: %s (%s)\n",
			version, buildTime, indexstore.DriverName(), indexstore.BuildMode())
		os.Exit(0)
	}

	log.SetOutput(os.Stderr)

	cfgPath := os.Getenv("GODOTMCP_CONFIG")
	if cfgPath == "" {
		cfgPath = "godotmcp.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err := indexstore.Open(cfg.Index.Dir)
	if err != nil {
		log.Fatalf("failed to open index store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ig := ignore.NewSet(ignore.DefaultDirs, cfg.Scan.IgnoreExtra, cfg.Index.Dir)
	surface := control.New(store, ig, cfg.Scan.Root, control.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(os.Args) > 1 {
		cmd, ok := commands[os.Args[1]]
		if !ok {
			fmt.Print(usage)
			os.Exit(1)
		}
		if err := cmd(ctx, surface, os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "ERR:", err)
			os.Exit(exitCodeFor(err))
		}
		return
	}

	runServer(ctx, cancel, surface, cfg)
}

func runServer(ctx context.Context, cancel context.CancelFunc, surface *control.Surface, cfg *config.Config) {
	log.Printf("godot-mcp-index v%s starting...", version)

	if cfg.Server.AutoStartWatchers {
		if _, err := surface.AutoStartWatchers(ctx); err != nil {
			log.Printf("failed to auto-start change monitor: %v", err)
		}
	}

	srv := control.NewServer(surface)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- srv.Serve(ctx)
	}()

	var httpSrv *http.Server
	if cfg.Server.Port != 0 {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		httpSrv = &http.Server{Addr: addr, Handler: httpapi.New(surface)}
		go func() {
			log.Printf("httpapi listening on %s...", addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
	}

	select {
	case sig := <-sigChan:
		log.Printf("received signal %v, shutting down gracefully...", sig)
		cancel()
		surface.WatchStop()
	case err := <-errChan:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}

	if httpSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}

	log.Println("server stopped")
}

func runScan(ctx context.Context, surface *control.Surface, args []string) error {
	result, err := surface.Scan(ctx, firstArg(args))
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d files\n", result.Indexed)
	return nil
}

func runReconcile(ctx context.Context, surface *control.Surface, args []string) error {
	result, err := surface.Reconcile(ctx, firstArg(args))
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d files\n", result.Indexed)
	return nil
}

func runQuery(ctx context.Context, surface *control.Surface, args []string) error {
	if len(args) == 0 {
		return errors.New("query requires a search term")
	}
	result, err := surface.Query(ctx, args[0], nil)
	if err != nil {
		return err
	}
	for _, hit := range result.Hits {
		fmt.Printf("%.4f  %s\n", hit.Score, hit.Path)
	}
	return nil
}

func runWatch(ctx context.Context, surface *control.Surface, args []string) error {
	status, err := surface.WatchStart(ctx)
	if err != nil {
		return err
	}
	log.Printf("watch: %s", status)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Printf("watch: %s", surface.WatchStop())
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, types.ErrIndexUnavailable):
		return 2
	case errors.Is(err, types.ErrQueryInvalid):
		return 3
	default:
		return 1
	}
}
