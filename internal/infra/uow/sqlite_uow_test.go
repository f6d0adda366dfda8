//go:build unit

package uow_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"qrcard/internal/domain/card"
	"qrcard/internal/domain/issuance"
	"qrcard/internal/domain/token"
	"qrcard/internal/infra"
	"qrcard/internal/infra/sqlitestore"
	"qrcard/internal/infra/uow"
	"qrcard/internal/pkg/clock"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/commands"
	"qrcard/internal/usecase/queries"
	"qrcard/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://cards.example.test"

type sqliteEnv struct {
	db    *sql.DB
	uow   shared.UnitOfWork
	cards queries.CardQueries
	toks  queries.TokenQueries
	clock *clock.MockClock
}

func newSQLiteEnv(t *testing.T) *sqliteEnv {
	t.Helper()
	db, cleanup, err := sqlitestore.Open(filepath.Join(t.TempDir(), "qrcard.db"))
	require.NoError(t, err)
	t.Cleanup(cleanup)
	require.NoError(t, sqlitestore.Migrate(context.Background(), db))

	return &sqliteEnv{
		db:    db,
		uow:   uow.NewSQLiteUoW(db),
		cards: queries.NewCardQueries(sqlitestore.NewCardReadStore(db)),
		toks:  queries.NewTokenQueries(sqlitestore.NewTokenReadStore(db)),
		clock: clock.NewMockClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)),
	}
}

func (e *sqliteEnv) createCard(t *testing.T, company string) uuid.UUID {
	t.Helper()
	id, err := commands.NewCardCommands(e.uow, e.clock).CreateCard(context.Background(),
		commands.CreateCardRequest{Name: "Jane Doe", CompanyName: company})
	require.NoError(t, err)
	return id
}

func (e *sqliteEnv) insert(t *testing.T, tokens ...*token.Token) []int {
	t.Helper()
	var conflicts []int
	err := e.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		conflicts, err = tx.Tokens().InsertMany(ctx, tokens)
		return err
	})
	require.NoError(t, err)
	return conflicts
}

func mint(t *testing.T, id uuid.UUID, owner *uuid.UUID, at time.Time) *token.Token {
	t.Helper()
	payloads, err := token.NewPayloadBuilder(baseURL)
	require.NoError(t, err)
	tk, err := token.Mint(id, payloads.Build(owner, id), owner, at, nil)
	require.NoError(t, err)
	return tk
}

func TestSQLiteInsertManyReportsConflicts(t *testing.T) {
	env := newSQLiteEnv(t)
	cardID := env.createCard(t, "Acme Corp")
	now := env.clock.Now()

	existing := mint(t, uuid.New(), &cardID, now)
	require.Empty(t, env.insert(t, existing))

	t.Run("duplicate id", func(t *testing.T) {
		dup, err := token.Mint(existing.ID(), "https://other.example.test/x", &cardID, now, nil)
		require.NoError(t, err)
		conflicts := env.insert(t, mint(t, uuid.New(), &cardID, now), dup, mint(t, uuid.New(), &cardID, now))
		assert.Equal(t, []int{1}, conflicts)
	})

	t.Run("duplicate payload", func(t *testing.T) {
		dup, err := token.Mint(uuid.New(), existing.Payload(), &cardID, now, nil)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, env.insert(t, dup))
	})

	stats, err := env.cards.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Tokens, "conflicting rows are not written")
	assert.Equal(t, int64(3), stats.FreshTokens)
}

func TestSQLiteInsertManyUnknownOwner(t *testing.T) {
	env := newSQLiteEnv(t)
	ghost := uuid.New()

	err := env.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Tokens().InsertMany(ctx, []*token.Token{mint(t, uuid.New(), &ghost, env.clock.Now())})
		return err
	})
	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindForeignKeyViolated))
}

func TestSQLiteTokenReadRejectsInconsistentRow(t *testing.T) {
	env := newSQLiteEnv(t)
	cardID := env.createCard(t, "Acme Corp")
	tk := mint(t, uuid.New(), &cardID, env.clock.Now())
	env.insert(t, tk)

	ctx := context.Background()
	conn, err := env.db.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.ExecContext(ctx, "PRAGMA ignore_check_constraints = ON")
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "UPDATE tokens SET state = 'spent' WHERE id = ?", tk.ID())
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "PRAGMA ignore_check_constraints = OFF")
	require.NoError(t, err)

	_, err = env.toks.GetToken(ctx, tk.ID())
	require.Error(t, err)
	assert.ErrorIs(t, err, token.ErrStateInconsistent)
}

func TestSQLiteTokenRoundTrip(t *testing.T) {
	env := newSQLiteEnv(t)
	cardID := env.createCard(t, "Acme Corp")
	id := uuid.New()

	payloads, err := token.NewPayloadBuilder(baseURL)
	require.NoError(t, err)
	tk, err := token.Mint(id, payloads.Build(&cardID, id), &cardID, env.clock.Now(), token.Extra{"batch": "spring", "seq": float64(7)})
	require.NoError(t, err)
	env.insert(t, tk)

	view, err := env.toks.GetToken(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, tk.Payload(), view.Payload)
	assert.Equal(t, "fresh", view.State)
	assert.Equal(t, &cardID, view.OwnerCardID)
	assert.True(t, env.clock.Now().Equal(view.MintedAt))
	assert.Nil(t, view.SpentAt)
	assert.Equal(t, map[string]any{"batch": "spring", "seq": float64(7)}, view.Extra)
}

func TestSQLiteConcurrentRedemptionGrantsOnce(t *testing.T) {
	env := newSQLiteEnv(t)
	cardID := env.createCard(t, "Acme Corp")
	tk := mint(t, uuid.New(), &cardID, env.clock.Now())
	env.insert(t, tk)

	redeemer := commands.NewRedemptionCommands(env.uow, commands.NopMetrics{}, env.clock)

	const attempts = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[commands.RedemptionStatus]int{}
	)
	start := make(chan struct{})
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			out, err := redeemer.Redeem(context.Background(), tk.ID())
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			statuses[out.Status]++
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, statuses[commands.OutcomeGranted])
	assert.Equal(t, attempts-1, statuses[commands.OutcomeAlreadyUsed])

	c, err := env.cards.GetCard(context.Background(), cardID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ViewCount)
}

func TestSQLiteSpentStateIsTerminal(t *testing.T) {
	env := newSQLiteEnv(t)
	cardID := env.createCard(t, "Acme Corp")
	tk := mint(t, uuid.New(), &cardID, env.clock.Now())
	env.insert(t, tk)

	redeemer := commands.NewRedemptionCommands(env.uow, commands.NopMetrics{}, env.clock)
	first, err := redeemer.Redeem(context.Background(), tk.ID())
	require.NoError(t, err)
	require.True(t, first.Granted())
	firstSpentAt := *first.SpentAt

	env.clock.Add(time.Hour)
	for range 3 {
		again, err := redeemer.Redeem(context.Background(), tk.ID())
		require.NoError(t, err)
		assert.Equal(t, commands.OutcomeAlreadyUsed, again.Status)
		require.NotNil(t, again.SpentAt)
		assert.True(t, firstSpentAt.Equal(*again.SpentAt), "spent_at never moves")
	}

	c, err := env.cards.GetCard(context.Background(), cardID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ViewCount)
}

func TestSQLiteOrphanTokenIsConsumed(t *testing.T) {
	env := newSQLiteEnv(t)
	tk := mint(t, uuid.New(), nil, env.clock.Now())
	env.insert(t, tk)
	assert.Contains(t, tk.Payload(), "/scan?qr=")

	redeemer := commands.NewRedemptionCommands(env.uow, commands.NopMetrics{}, env.clock)
	out, err := redeemer.Redeem(context.Background(), tk.ID())
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeNotFound, out.Status)

	view, err := env.toks.GetToken(context.Background(), tk.ID())
	require.NoError(t, err)
	assert.Equal(t, "spent", view.State)
}

// Issue three tokens in chunks of two, redeem the second one twice at the
// same time, the first one once and an unknown id once.
func TestSQLiteIssueAndRedeemScenario(t *testing.T) {
	env := newSQLiteEnv(t)
	cardID := env.createCard(t, "Acme Corp")

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	next := 0
	gen := func() uuid.UUID {
		id := ids[next%len(ids)]
		next++
		return id
	}

	payloads, err := token.NewPayloadBuilder(baseURL)
	require.NoError(t, err)
	issuer := commands.NewIssuanceCommands(env.uow, nil, nil, commands.NopMetrics{}, env.clock,
		commands.IssuanceSettings{Policy: issuance.DefaultPolicy(), Payloads: payloads, StoreDriver: "sqlite"},
		commands.WithIDGenerator(gen))

	res, err := issuer.Issue(context.Background(), issuance.Request{CardID: cardID, Quantity: 3, ChunkSize: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Minted)
	assert.Equal(t, 2, res.Chunks)

	redeemer := commands.NewRedemptionCommands(env.uow, commands.NopMetrics{}, env.clock)

	var wg sync.WaitGroup
	outs := make([]*commands.RedemptionOutcome, 2)
	for i := range outs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := redeemer.Redeem(context.Background(), ids[1])
			assert.NoError(t, err)
			outs[i] = out
		}()
	}
	wg.Wait()

	require.NotNil(t, outs[0])
	require.NotNil(t, outs[1])
	granted := 0
	for _, o := range outs {
		if o.Granted() {
			granted++
			assert.Equal(t, "Acme Corp", o.Card.CompanyName)
		} else {
			assert.Equal(t, commands.OutcomeAlreadyUsed, o.Status)
		}
	}
	assert.Equal(t, 1, granted)

	first, err := redeemer.Redeem(context.Background(), ids[0])
	require.NoError(t, err)
	assert.True(t, first.Granted())
	assert.Equal(t, int64(2), first.Card.ViewCount)

	unknown, err := redeemer.Redeem(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeNotFound, unknown.Status)

	c, err := env.cards.GetCard(context.Background(), cardID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.ViewCount)

	stats, err := env.cards.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, queries.StoreStats{Cards: 1, Tokens: 3, FreshTokens: 1, SpentTokens: 2}, *stats)

	third, err := env.toks.GetToken(context.Background(), ids[2])
	require.NoError(t, err)
	assert.Equal(t, "fresh", third.State)
}

func TestSQLiteListCards(t *testing.T) {
	env := newSQLiteEnv(t)
	var created []uuid.UUID
	for _, company := range []string{"Alpha", "Beta", "Gamma"} {
		created = append(created, env.createCard(t, company))
		env.clock.Add(time.Minute)
	}
	env.insert(t, mint(t, uuid.New(), &created[0], env.clock.Now()), mint(t, uuid.New(), &created[0], env.clock.Now()))

	page, next, err := env.cards.ListCards(context.Background(), nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.Equal(t, "Gamma", page[0].CompanyName, "newest first")
	assert.Equal(t, "Beta", page[1].CompanyName)

	rest, next, err := env.cards.ListCards(context.Background(), next, 2)
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, rest, 1)
	assert.Equal(t, created[0], rest[0].ID)
	assert.Equal(t, int64(2), rest[0].TokenCount)
	assert.Zero(t, rest[0].SpentCount)
}

func TestSQLiteCardValidation(t *testing.T) {
	env := newSQLiteEnv(t)
	_, err := commands.NewCardCommands(env.uow, env.clock).CreateCard(context.Background(),
		commands.CreateCardRequest{CompanyName: ""})
	assert.ErrorIs(t, err, card.ErrCompanyNameRequired)

	_, err = env.cards.GetCard(context.Background(), uuid.New())
	assert.ErrorIs(t, err, queries.ErrCardNotFound)
}

// failingUoW delegates to the SQLite unit of work but makes the n-th
// transaction fail after its writes, so they are rolled back.
type failingUoW struct {
	shared.UnitOfWork
	failOn int
	calls  int
	err    error
}

func (u *failingUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.calls++
	if u.calls != u.failOn {
		return u.UnitOfWork.Within(ctx, fn)
	}
	return u.UnitOfWork.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return u.err
	})
}

func recordingIDs(dst *[]uuid.UUID) func() uuid.UUID {
	return func() uuid.UUID {
		id := uuid.New()
		*dst = append(*dst, id)
		return id
	}
}

func (e *sqliteEnv) issuer(t *testing.T, uw shared.UnitOfWork, minted *[]uuid.UUID) commands.IssuanceCommands {
	t.Helper()
	payloads, err := token.NewPayloadBuilder(baseURL)
	require.NoError(t, err)
	return commands.NewIssuanceCommands(uw, nil, nil, commands.NopMetrics{}, e.clock,
		commands.IssuanceSettings{Policy: issuance.DefaultPolicy(), Payloads: payloads, StoreDriver: "sqlite"},
		commands.WithIDGenerator(recordingIDs(minted)))
}

// assertRedeemable checks that the store holds exactly want tokens for the
// card and that each of them is granted once.
func (e *sqliteEnv) assertRedeemable(t *testing.T, cardID uuid.UUID, ids []uuid.UUID, want int) {
	t.Helper()
	ctx := context.Background()

	stats, err := e.cards.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(want), stats.Tokens)
	assert.Equal(t, int64(want), stats.FreshTokens)

	items, _, err := e.cards.ListCards(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, cardID, items[0].ID)
	assert.Equal(t, int64(want), items[0].TokenCount)

	redeemer := commands.NewRedemptionCommands(e.uow, commands.NopMetrics{}, e.clock)
	granted := 0
	for _, id := range ids {
		out, err := redeemer.Redeem(ctx, id)
		require.NoError(t, err)
		if out.Status == commands.OutcomeNotFound {
			continue
		}
		assert.True(t, out.Granted(), "token %s", id)
		granted++
	}
	assert.Equal(t, want, granted)

	c, err := e.cards.GetCard(ctx, cardID)
	require.NoError(t, err)
	assert.Equal(t, int64(want), c.ViewCount)
}

func TestSQLiteIssueChunkFailureKeepsEarlierChunks(t *testing.T) {
	env := newSQLiteEnv(t)
	cardID := env.createCard(t, "Acme Corp")

	var minted []uuid.UUID
	flaky := &failingUoW{
		UnitOfWork: env.uow,
		failOn:     3,
		err:        infra.WrapRepoErr("failed to insert tokens", errors.New("disk I/O error")),
	}
	res, err := env.issuer(t, flaky, &minted).Issue(context.Background(),
		issuance.Request{CardID: cardID, Quantity: 7, ChunkSize: 2}, nil)

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrIssuanceFailed))
	var issErr *commands.IssuanceError
	require.ErrorAs(t, err, &issErr)
	assert.Equal(t, 4, issErr.Result.Minted)
	assert.Equal(t, 2, issErr.Result.Chunks)
	assert.Equal(t, 4, res.Minted)
	require.Len(t, minted, 6, "the third chunk was minted but rolled back")

	env.assertRedeemable(t, cardID, minted, 4)
}

func TestSQLiteIssueCancelledKeepsEarlierChunks(t *testing.T) {
	env := newSQLiteEnv(t)
	cardID := env.createCard(t, "Acme Corp")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var minted []uuid.UUID
	res, err := env.issuer(t, env.uow, &minted).Issue(ctx,
		issuance.Request{CardID: cardID, Quantity: 7, ChunkSize: 2},
		func(p issuance.Progress) {
			if p.Chunks == 2 {
				cancel()
			}
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrIssuanceCancelled)
	var issErr *commands.IssuanceError
	require.ErrorAs(t, err, &issErr)
	assert.Equal(t, 4, issErr.Result.Minted)
	assert.Equal(t, 4, res.Minted)
	require.Len(t, minted, 4)

	env.assertRedeemable(t, cardID, minted, 4)
}
