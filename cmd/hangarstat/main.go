package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/evetools/hangarstat/internal/api"
	"github.com/evetools/hangarstat/internal/config"
	"github.com/evetools/hangarstat/internal/database"
	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/engine"
	"github.com/evetools/hangarstat/internal/esi"
	"github.com/evetools/hangarstat/internal/export"
	"github.com/evetools/hangarstat/internal/pricing"
	"github.com/evetools/hangarstat/internal/refdata"
	"github.com/evetools/hangarstat/internal/refresh"
	"github.com/evetools/hangarstat/internal/snapshot"
	"github.com/evetools/hangarstat/internal/synthetic"
	"github.com/evetools/hangarstat/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// services bundles the wired pipeline shared by every command.
type services struct {
	cfg       config.Config
	engine    *engine.Engine
	prices    *pricing.Service
	refresher *refresh.Service
}

func buildServices() *services {
	cfg := config.Load()
	owner := cfg.Owner()

	client := esi.NewClient(cfg.ESIURL, cfg.ESIToken, cfg.ESIRetryMax, cfg.ESIRetryBaseDelay)
	store := refdata.NewStore()
	prices := pricing.NewService(client)
	scopes := synthetic.StaticScopes{owner.Key(): cfg.GrantedScopes}
	eng := engine.New(store, prices, scopes)
	refresher := refresh.NewService(owner, client, client, store, prices, eng)

	return &services{cfg: cfg, engine: eng, prices: prices, refresher: refresher}
}

func connectDB(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return pool, nil
}

func sheetsHook(ctx context.Context, cfg config.Config, repo snapshot.Repository, ownerKey string) worker.AfterSnapshotHook {
	if cfg.GoogleCredentialsJSON == "" || cfg.SheetsSpreadsheetID == "" {
		return nil
	}
	writer, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.GoogleCredentialsJSON)
	if err != nil {
		slog.Error("sheets writer unavailable, export hook disabled", "error", err)
		return nil
	}
	return export.NewService(repo, writer, ownerKey)
}

func serveAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svcs := buildServices()
	cfg := svcs.cfg
	ownerKey := cfg.Owner().Key()

	pool, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	snapshotRepo := snapshot.NewPgRepository(pool)
	snapshotSvc := snapshot.NewService(svcs.refresher, snapshotRepo)

	if _, err := snapshotRepo.EnsureOwner(ctx, ownerKey, cfg.OwnerName); err != nil {
		return fmt.Errorf("ensuring owner: %w", err)
	}

	hook := sheetsHook(ctx, cfg, snapshotRepo, ownerKey)

	priceWorker := worker.NewPriceWorker(svcs.prices, cfg.PriceWorkerInterval)
	go priceWorker.Run(ctx)

	snapshotWorker := worker.NewSnapshotWorker(snapshotSvc, ownerKey, cfg.SnapshotWorkerInterval, hook)
	go snapshotWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, refresh endpoint is unprotected")
	}

	srv := api.NewServer(cfg.HTTPPort, svcs.engine, snapshotSvc, ownerKey, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

func snapshotAction(c *cli.Context) error {
	svcs := buildServices()
	cfg := svcs.cfg
	ownerKey := cfg.Owner().Key()

	pool, err := connectDB(c.Context, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	snapshotRepo := snapshot.NewPgRepository(pool)
	snapshotSvc := snapshot.NewService(svcs.refresher, snapshotRepo)

	if _, err := snapshotRepo.EnsureOwner(c.Context, ownerKey, cfg.OwnerName); err != nil {
		return fmt.Errorf("ensuring owner: %w", err)
	}

	now := time.Now().UTC()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	summary, err := snapshotSvc.Generate(c.Context, ownerKey, date)
	if err != nil {
		return fmt.Errorf("generating snapshot: %w", err)
	}

	fmt.Printf("%s net worth: %s ISK\n", ownerKey, domain.FormatISK(summary.NetWorth))
	return nil
}

func exportAction(c *cli.Context) error {
	svcs := buildServices()

	summary, err := svcs.refresher.RefreshOwner(c.Context)
	if err != nil {
		return fmt.Errorf("refreshing owner: %w", err)
	}

	mode := domain.ParseMode(c.String("mode"))
	roots := svcs.engine.Tree(mode, "", "")

	out := c.String("out")
	if err := export.WriteWorkbook(out, summary, roots); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%s mode, net worth %s ISK)\n", out, mode, domain.FormatISK(summary.NetWorth))
	return nil
}

func main() {
	app := &cli.App{
		Name:  "hangarstat",
		Usage: "EVE Online asset valuation and aggregation service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API with background refresh workers",
				Action: serveAction,
			},
			{
				Name:   "snapshot",
				Usage:  "refresh the owner once and store a net-worth snapshot",
				Action: snapshotAction,
			},
			{
				Name:  "export",
				Usage: "refresh the owner once and write the asset tree to an xlsx workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: "hangarstat.xlsx", Usage: "output file path"},
					&cli.StringFlag{Name: "mode", Value: "all", Usage: "aggregation mode to export"},
				},
				Action: exportAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
