package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qrcard/cmd/bootstrap"
	"qrcard/cmd/bootstrap/components"
	"qrcard/internal/domain/issuance"
	"qrcard/internal/domain/token"
	"qrcard/internal/pkg/config"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/pkg/password"
	"qrcard/internal/usecase/commands"
	"qrcard/internal/usecase/queries"
	"qrcard/migrations"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type options struct {
	cardID       string
	quantity     int
	chunkSize    int
	images       bool
	archives     bool
	extra        string
	list         bool
	stats        bool
	migrate      bool
	hashPassword string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.cardID, "card", "", "card id to issue tokens for")
	flag.IntVar(&o.quantity, "quantity", 200_000, "number of tokens to mint")
	flag.IntVar(&o.chunkSize, "chunk", 0, "tokens per store write (0 uses ISSUANCE_DEFAULT_CHUNK_SIZE)")
	flag.BoolVar(&o.images, "images", true, "render a PNG per token")
	flag.BoolVar(&o.archives, "archives", true, "package rendered images into zip segments")
	flag.StringVar(&o.extra, "extra", "", "JSON object stored verbatim on every minted token")
	flag.BoolVar(&o.list, "list", false, "list cards with their token counts")
	flag.BoolVar(&o.stats, "stats", false, "print store statistics")
	flag.BoolVar(&o.migrate, "migrate", false, "apply the embedded schema migrations")
	flag.StringVar(&o.hashPassword, "hash-password", "", "print a bcrypt hash for OPERATOR_PASSWORD_HASH and exit")
	flag.Parse()
	return o
}

func (o options) request(defaultChunkSize int) (issuance.Request, error) {
	chunk := o.chunkSize
	if chunk == 0 {
		chunk = defaultChunkSize
	}
	req := issuance.Request{
		Quantity:      o.quantity,
		ChunkSize:     chunk,
		RenderImages:  o.images,
		BuildArchives: o.archives && o.images,
	}
	if o.cardID != "" {
		id, err := uuid.Parse(o.cardID)
		if err != nil {
			return issuance.Request{}, fmt.Errorf("invalid card id %q: %w", o.cardID, err)
		}
		req.CardID = id
	}
	if o.extra != "" {
		var extra token.Extra
		if err := json.Unmarshal([]byte(o.extra), &extra); err != nil {
			return issuance.Request{}, fmt.Errorf("invalid -extra JSON: %w", err)
		}
		req.Extra = extra
	}
	return req, nil
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if o.hashPassword != "" {
		hash, err := password.HashPassword(o.hashPassword)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	}

	// The first SIGINT stops the run between chunks; the partial result is still reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		cfg    config.Config
		store  *components.Store
		issuer commands.IssuanceCommands
		cards  queries.CardQueries
	)
	app := fx.New(
		bootstrap.CoreModule,
		fx.NopLogger,
		fx.Populate(&cfg, &store, &issuer, &cards),
	)
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			slog.Error("failed to stop application", "error", err)
		}
	}()

	g := &generator{
		out:     os.Stdout,
		issuer:  issuer,
		cards:   cards,
		driver:  cfg.Store.Driver,
		baseURL: cfg.Issuance.BaseURL,
		now:     time.Now,
	}

	switch {
	case o.migrate:
		return applyMigrations(ctx, store)
	case o.list:
		return g.listCards(ctx)
	case o.stats:
		return g.stats(ctx)
	}

	req, err := o.request(cfg.Issuance.DefaultChunkSize)
	if err != nil {
		return err
	}
	err = g.generate(ctx, req)
	if errs.Is(err, queries.ErrCardNotFound) {
		return fmt.Errorf("card %s not found", req.CardID)
	}
	return err
}

func applyMigrations(ctx context.Context, store *components.Store) error {
	if store.Postgres == nil {
		fmt.Println("SQLite schema is applied on open; nothing to do")
		return nil
	}
	if err := migrations.Apply(ctx, store.Postgres); err != nil {
		return err
	}
	fmt.Println("Migrations applied")
	return nil
}
