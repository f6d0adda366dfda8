package commands

import (
	"context"
	"fmt"
	"log/slog"

	"qrcard/internal/domain/card"
	"qrcard/internal/domain/issuance"
	"qrcard/internal/domain/token"
	"qrcard/internal/infra"
	"qrcard/internal/pkg/clock"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/pkg/ids"
	"qrcard/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCardNotFound              = errs.Mark(errs.New("card not found"), errs.ErrNotFound)
	ErrCollisionRetriesExhausted = errs.Mark(errs.New("token id collisions persisted after retries"), errs.ErrIssuanceFailed)
	ErrIssuanceCancelled         = errs.Mark(errs.New("issuance cancelled"), errs.ErrIssuanceFailed)
)

const (
	RunOutcomeCompleted = "completed"
	RunOutcomeFailed    = "failed"
	RunOutcomeCancelled = "cancelled"
)

// IssuanceError carries the partial result of a run that did not complete.
type IssuanceError struct {
	Result *issuance.Result
	cause  error
}

func (e *IssuanceError) Error() string {
	return fmt.Sprintf("issuance stopped after %d of %d tokens: %v", e.Result.Minted, e.Result.Requested, e.cause)
}

func (e *IssuanceError) Unwrap() error {
	return e.cause
}

// ProgressObserver receives a copy of the run's progress after each chunk.
type ProgressObserver func(issuance.Progress)

type IssuanceCommands interface {
	Issue(ctx context.Context, req issuance.Request, observer ProgressObserver) (*issuance.Result, error)
}

type IssuanceSettings struct {
	Policy      issuance.Policy
	Payloads    token.PayloadBuilder
	StoreDriver string
}

type IssuanceOption func(*issuanceUseCaseImpl)

// WithIDGenerator replaces uuid.New as the token id source.
func WithIDGenerator(gen func() uuid.UUID) IssuanceOption {
	return func(uc *issuanceUseCaseImpl) {
		uc.newID = gen
	}
}

type issuanceUseCaseImpl struct {
	uow      shared.UnitOfWork
	renderer Renderer
	exporter Exporter
	metrics  Metrics
	clock    clock.Clock
	settings IssuanceSettings
	newID    func() uuid.UUID
}

func NewIssuanceCommands(uow shared.UnitOfWork, renderer Renderer, exporter Exporter, metrics Metrics, clk clock.Clock, settings IssuanceSettings, opts ...IssuanceOption) IssuanceCommands {
	uc := &issuanceUseCaseImpl{
		uow:      uow,
		renderer: renderer,
		exporter: exporter,
		metrics:  metrics,
		clock:    clk,
		settings: settings,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// issuanceRun holds the state owned by one Issue call.
type issuanceRun struct {
	req      issuance.Request
	card     *card.Card
	slug     string
	progress issuance.Progress
	result   issuance.Result
	export   Export
	packager *Packager
	observer ProgressObserver
}

func (uc *issuanceUseCaseImpl) Issue(ctx context.Context, req issuance.Request, observer ProgressObserver) (*issuance.Result, error) {
	policy := uc.settings.Policy
	if err := req.Validate(policy); err != nil {
		return nil, err
	}

	snap, err := uc.uow.CommandReads().CardByID(ctx, req.CardID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Wrap(ErrCardNotFound, req.CardID.String())
		}
		return nil, errs.Wrap(err, "load card")
	}
	owner := card.Reconstruct(snap.ID, snap.Name, snap.CompanyName, snap.Phone, snap.ViewCount, snap.CreatedAt)

	startedAt := uc.clock.Now()
	run := &issuanceRun{
		req:      req,
		card:     owner,
		slug:     owner.ExportSlug(),
		progress: issuance.NewProgress(req.Quantity, startedAt),
		observer: observer,
		result: issuance.Result{
			RunID:     ids.NewRunID(startedAt),
			CardID:    owner.ID(),
			Requested: req.Quantity,
		},
	}
	run.result.Manifest = issuance.Manifest{RunID: run.result.RunID, CardID: owner.ID()}

	if req.RenderImages {
		export, beginErr := uc.exporter.Begin(ctx, ExportInfo{
			RunID:       run.result.RunID,
			CardID:      owner.ID(),
			CompanyName: owner.CompanyName(),
			Slug:        run.slug,
			BaseURL:     uc.settings.Payloads.BaseURL(),
			StoreDriver: uc.settings.StoreDriver,
			Requested:   req.Quantity,
			StartedAt:   startedAt,
		})
		if beginErr != nil {
			return nil, errs.Mark(errs.Wrap(beginErr, "prepare export"), errs.ErrIssuanceFailed)
		}
		run.export = export
		run.result.ExportDir = export.Dir()
		if req.BuildArchives {
			run.packager = NewPackager(policy.ArchiveCap, run.slug, export)
		}
	}

	slog.Info("issuance started",
		"run_id", run.result.RunID,
		"card_id", owner.ID().String(),
		"quantity", req.Quantity,
		"chunk_size", req.ChunkSize,
		"render_images", req.RenderImages,
		"build_archives", req.BuildArchives)

	for run.progress.Minted < req.Quantity {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return uc.stop(run, RunOutcomeCancelled, errs.Wrap(ErrIssuanceCancelled, ctxErr.Error()))
		}

		n := min(req.ChunkSize, req.Quantity-run.progress.Minted)
		chunk, mintErr := uc.mintChunk(run, n)
		if mintErr != nil {
			return uc.stop(run, RunOutcomeFailed, errs.Mark(mintErr, errs.ErrIssuanceFailed))
		}

		// A chunk write is never interrupted; cancellation is observed between chunks.
		if writeErr := uc.writeChunk(context.WithoutCancel(ctx), chunk); writeErr != nil {
			msg := fmt.Sprintf("write chunk %d", run.progress.Chunks+1)
			return uc.stop(run, RunOutcomeFailed, errs.Mark(errs.Wrap(writeErr, msg), errs.ErrIssuanceFailed))
		}

		firstIndex := run.progress.Minted + 1
		run.progress.Minted += len(chunk)
		run.progress.Chunks++
		uc.metrics.ObserveChunk(len(chunk))

		if req.RenderImages {
			if renderErr := uc.renderChunk(run, firstIndex, chunk); renderErr != nil {
				return uc.stop(run, RunOutcomeFailed, errs.Mark(renderErr, errs.ErrIssuanceFailed))
			}
		}

		uc.publish(run)
	}

	return uc.stop(run, RunOutcomeCompleted, nil)
}

func (uc *issuanceUseCaseImpl) mintChunk(run *issuanceRun, n int) ([]*token.Token, error) {
	now := uc.clock.Now()
	cardID := run.card.ID()
	chunk := make([]*token.Token, 0, n)
	for range n {
		id := uc.newID()
		t, err := token.Mint(id, uc.settings.Payloads.Build(&cardID, id), &cardID, now, run.req.Extra)
		if err != nil {
			return nil, errs.Wrap(err, "mint token")
		}
		chunk = append(chunk, t)
	}
	return chunk, nil
}

// writeChunk persists one chunk in a single transaction. Positions rejected by
// a uniqueness conflict are reissued with fresh ids, up to CollisionRetries rounds.
func (uc *issuanceUseCaseImpl) writeChunk(ctx context.Context, chunk []*token.Token) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		batch := chunk
		positions := make([]int, len(chunk))
		for i := range positions {
			positions[i] = i
		}

		for round := 0; ; round++ {
			conflicts, err := tx.Tokens().InsertMany(ctx, batch)
			if err != nil {
				return err
			}
			if len(conflicts) == 0 {
				return nil
			}
			if round >= uc.settings.Policy.CollisionRetries {
				return errs.Wrap(ErrCollisionRetriesExhausted, fmt.Sprintf("%d ids still colliding", len(conflicts)))
			}

			slog.Warn("token id collision, reissuing", "count", len(conflicts), "round", round+1)

			nextBatch := make([]*token.Token, 0, len(conflicts))
			nextPositions := make([]int, 0, len(conflicts))
			for _, c := range conflicts {
				pos := positions[c]
				id := uc.newID()
				reissued := chunk[pos].Reissue(id, uc.settings.Payloads.Build(chunk[pos].OwnerCardID(), id))
				chunk[pos] = reissued
				nextBatch = append(nextBatch, reissued)
				nextPositions = append(nextPositions, pos)
			}
			batch, positions = nextBatch, nextPositions
		}
	})
}

// renderChunk renders and stores each committed token. Render and save
// failures are skipped; archive failures stop the run.
func (uc *issuanceUseCaseImpl) renderChunk(run *issuanceRun, firstIndex int, chunk []*token.Token) error {
	for i, t := range chunk {
		name := issuance.ImageName(run.slug, firstIndex+i, t.ID())

		png, err := uc.renderer.Render(t.Payload())
		if err == nil {
			err = run.export.SaveImage(name, png)
		}
		if err != nil {
			run.progress.Skipped++
			uc.metrics.ObserveSkipped(1)
			slog.Warn("artifact skipped",
				"token_id", t.ID().String(),
				"error", errs.Mark(err, errs.ErrRenderSkipped).Error())
			continue
		}
		run.progress.Rendered++

		if run.packager != nil {
			if err := run.packager.Add(name, png); err != nil {
				return errs.Wrap(err, "package artifact")
			}
		}
	}
	return nil
}

func (uc *issuanceUseCaseImpl) publish(run *issuanceRun) {
	snapshot := run.progress
	uc.metrics.ObserveProgress(snapshot)
	if run.observer != nil {
		run.observer(snapshot)
	}
}

// stop closes the run's export in every outcome and builds the result.
// The open archive segment is finalized even when the run failed or was cancelled.
func (uc *issuanceUseCaseImpl) stop(run *issuanceRun, outcome string, cause error) (*issuance.Result, error) {
	if run.export != nil {
		if finishErr := uc.finishExport(run); finishErr != nil {
			if cause == nil {
				outcome = RunOutcomeFailed
				cause = errs.Mark(finishErr, errs.ErrIssuanceFailed)
			} else {
				slog.Error("failed to close export after stop", "run_id", run.result.RunID, "error", finishErr.Error())
			}
		}
	}

	res := run.result
	res.Minted = run.progress.Minted
	res.Rendered = run.progress.Rendered
	res.Skipped = run.progress.Skipped
	res.Chunks = run.progress.Chunks
	res.Elapsed = clock.Since(uc.clock, run.progress.StartedAt)

	uc.metrics.ObserveRun(outcome, res.Elapsed)

	attrs := []any{
		"run_id", res.RunID,
		"card_id", res.CardID.String(),
		"outcome", outcome,
		"minted", res.Minted,
		"requested", res.Requested,
		"rendered", res.Rendered,
		"skipped", res.Skipped,
		"segments", len(res.Manifest.Segments),
		"elapsed", issuance.FormatDuration(res.Elapsed),
	}
	if cause != nil {
		slog.Error("issuance stopped", append(attrs, "error", cause.Error())...)
		return &res, &IssuanceError{Result: &res, cause: cause}
	}
	slog.Info("issuance completed", attrs...)
	return &res, nil
}

func (uc *issuanceUseCaseImpl) finishExport(run *issuanceRun) error {
	if run.packager != nil {
		if err := run.packager.Finish(); err != nil {
			return err
		}
		run.result.Manifest.Segments = run.packager.Segments()
	}
	run.result.Manifest.Images = run.progress.Rendered
	run.result.Manifest.Skipped = run.progress.Skipped
	if err := run.export.WriteManifest(run.result.Manifest); err != nil {
		return errs.Wrap(err, "write manifest")
	}
	size, err := run.export.Size()
	if err != nil {
		return errs.Wrap(err, "measure export")
	}
	run.result.ExportBytes = size
	return nil
}
