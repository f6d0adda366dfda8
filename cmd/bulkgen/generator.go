package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"qrcard/internal/domain/issuance"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/commands"
	"qrcard/internal/usecase/queries"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const listPageSize = 100

type generator struct {
	out     io.Writer
	issuer  commands.IssuanceCommands
	cards   queries.CardQueries
	driver  string
	baseURL string
	now     func() time.Time
}

func (g *generator) listCards(ctx context.Context) error {
	var cursor *queries.Cursor
	n := 0
	for {
		items, next, err := g.cards.ListCards(ctx, cursor, listPageSize)
		if err != nil {
			return fmt.Errorf("failed to list cards: %w", err)
		}
		if n == 0 && len(items) == 0 {
			fmt.Fprintln(g.out, "No cards found. Create one with POST /api/cards first.")
			return nil
		}
		if n == 0 {
			fmt.Fprintln(g.out, "Available cards:")
		}
		for _, c := range items {
			n++
			label := c.CompanyName
			if c.Name != "" {
				label += " (" + c.Name + ")"
			}
			fmt.Fprintf(g.out, "%3d. %s\n", n, label)
			fmt.Fprintf(g.out, "     ID: %s\n", c.ID)
			fmt.Fprintf(g.out, "     Tokens: %s (spent %s)\n", humanize.Comma(c.TokenCount), humanize.Comma(c.SpentCount))
		}
		if next == nil {
			return nil
		}
		cursor = next
	}
}

func (g *generator) stats(ctx context.Context) error {
	s, err := g.cards.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read store stats: %w", err)
	}
	fmt.Fprintln(g.out, "Store statistics:")
	fmt.Fprintf(g.out, "  Cards:        %s\n", humanize.Comma(s.Cards))
	fmt.Fprintf(g.out, "  Tokens:       %s\n", humanize.Comma(s.Tokens))
	fmt.Fprintf(g.out, "  Fresh tokens: %s\n", humanize.Comma(s.FreshTokens))
	fmt.Fprintf(g.out, "  Spent tokens: %s\n", humanize.Comma(s.SpentTokens))
	fmt.Fprintf(g.out, "  Store driver: %s\n", g.driver)
	return nil
}

func (g *generator) generate(ctx context.Context, req issuance.Request) error {
	if req.CardID == uuid.Nil {
		return errs.New("a card id is required; run with -list to see the available cards")
	}
	c, err := g.cards.GetCard(ctx, req.CardID)
	if err != nil {
		return err
	}

	fmt.Fprintf(g.out, "Starting bulk generation for %s (%s)\n", c.CompanyName, c.ID)
	fmt.Fprintf(g.out, "  Quantity:       %s\n", humanize.Comma(int64(req.Quantity)))
	fmt.Fprintf(g.out, "  Chunk size:     %s (%s writes)\n", humanize.Comma(int64(req.ChunkSize)), humanize.Comma(int64(req.ChunkCount())))
	fmt.Fprintf(g.out, "  Base URL:       %s\n", g.baseURL)
	fmt.Fprintf(g.out, "  Render images:  %s\n", yesNo(req.RenderImages))
	fmt.Fprintf(g.out, "  Build archives: %s\n", yesNo(req.BuildArchives))

	chunks := req.ChunkCount()
	res, err := g.issuer.Issue(ctx, req, func(p issuance.Progress) {
		fmt.Fprintf(g.out, "\r%s [chunk %d/%d]", p.Report(g.now()), p.Chunks, chunks)
	})
	fmt.Fprintln(g.out)

	var ierr *commands.IssuanceError
	if errs.As(err, &ierr) {
		if errs.Is(err, commands.ErrIssuanceCancelled) {
			fmt.Fprintln(g.out, "Generation interrupted")
		} else {
			fmt.Fprintln(g.out, "Generation failed")
		}
		g.printResult(c.CompanyName, ierr.Result)
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(g.out, "Bulk generation completed")
	g.printResult(c.CompanyName, res)
	return nil
}

func (g *generator) printResult(company string, res *issuance.Result) {
	if res == nil {
		return
	}
	fmt.Fprintf(g.out, "  Company:        %s\n", company)
	fmt.Fprintf(g.out, "  Generated:      %s of %s QR codes\n", humanize.Comma(int64(res.Minted)), humanize.Comma(int64(res.Requested)))
	fmt.Fprintf(g.out, "  Images created: %s\n", humanize.Comma(int64(res.Rendered)))
	if res.Skipped > 0 {
		fmt.Fprintf(g.out, "  Images skipped: %s\n", humanize.Comma(int64(res.Skipped)))
	}
	fmt.Fprintf(g.out, "  Time taken:     %s\n", issuance.FormatDuration(res.Elapsed))
	fmt.Fprintf(g.out, "  Average rate:   %.0f codes/second\n", res.AverageRate())
	if res.ExportDir == "" {
		return
	}
	fmt.Fprintf(g.out, "  Output:         %s\n", res.ExportDir)
	for _, s := range res.Manifest.Segments {
		fmt.Fprintf(g.out, "    %s (%s images)\n", s.Name, humanize.Comma(int64(s.Members)))
	}
	fmt.Fprintf(g.out, "  Output size:    %s\n", humanize.Bytes(uint64(max(res.ExportBytes, 0))))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
