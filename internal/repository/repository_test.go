// Package repository tests use testcontainers-go to spin up a PostgreSQL
// container; they are skipped when Docker is unavailable.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"twitch-casino-bot/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

// setupTestDB creates a PostgreSQL container, applies the schema and
// returns a connection pool. Skips the test if Docker is not available.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return pool, cleanup
}

func TestBalanceRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewBalanceRepository(pool)

	t.Run("Get missing account", func(t *testing.T) {
		_, err := repo.Get(ctx, "chan", "nobody")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("Create grants the starting balance", func(t *testing.T) {
		account, err := repo.Create(ctx, "chan", "alice", 1000)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), account.Balance)

		// Creating again does not re-grant.
		again, err := repo.Create(ctx, "chan", "alice", 1000)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), again.Balance)

		entries, err := NewLedgerEntryRepository(pool).Replay(ctx, "chan", "alice")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, model.EntryTypeAdminAdjust, entries[0].Type)
	})

	t.Run("ApplyDelta writes entry with snapshots", func(t *testing.T) {
		account, err := repo.ApplyDelta(ctx, "chan", "alice", -300, model.EntryTypeBetLoss, "slot roll")
		require.NoError(t, err)
		assert.Equal(t, int64(700), account.Balance)
		assert.Equal(t, int64(300), account.TotalSpent)

		account, err = repo.ApplyDelta(ctx, "chan", "alice", 140, model.EntryTypeBetWin, "slot payout")
		require.NoError(t, err)
		assert.Equal(t, int64(840), account.Balance)
		assert.Equal(t, int64(1140), account.TotalEarned)

		entries, err := NewLedgerEntryRepository(pool).Replay(ctx, "chan", "alice")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		last := entries[len(entries)-1]
		assert.Equal(t, int64(700), last.BalanceBefore)
		assert.Equal(t, int64(840), last.BalanceAfter)
	})

	t.Run("ApplyDelta refuses overdraft without an entry", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, "chan", "alice", -5000, model.EntryTypeBetLoss, "slot roll")
		assert.ErrorIs(t, err, ErrInsufficientFunds)

		account, err := repo.Get(ctx, "chan", "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(840), account.Balance)

		entries, err := NewLedgerEntryRepository(pool).Replay(ctx, "chan", "alice")
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("ApplyDelta on missing account", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, "chan", "nobody", 100, model.EntryTypeBetWin, "test")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("TopByBalance orders by balance", func(t *testing.T) {
		_, err := repo.Create(ctx, "chan", "bob", 2000)
		require.NoError(t, err)

		top, err := repo.TopByBalance(ctx, "chan", 10)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "bob", top[0].Username)
	})

	t.Run("Accounts are scoped per channel", func(t *testing.T) {
		_, err := repo.Get(ctx, "other", "alice")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("Daily and activity stamps", func(t *testing.T) {
		now := time.Now().Unix()
		require.NoError(t, repo.SetDailyClaim(ctx, "chan", "alice", now))
		require.NoError(t, repo.SetActivityReward(ctx, "chan", "alice", now))

		account, err := repo.IncrementMessageCount(ctx, "chan", "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1), account.MessageCount)
		assert.Equal(t, now, account.LastDailyClaim)
		assert.Equal(t, now, account.LastActivityReward)
	})
}

func TestLedgerEntryRepositoryHistory(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	balances := NewBalanceRepository(pool)
	entries := NewLedgerEntryRepository(pool)

	_, err := balances.Create(ctx, "chan", "alice", 1000)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := balances.ApplyDelta(ctx, "chan", "alice", 10, model.EntryTypeBetWin, "test")
		require.NoError(t, err)
	}

	history, err := entries.History(ctx, "chan", "alice", 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	replay, err := entries.Replay(ctx, "chan", "alice")
	require.NoError(t, err)
	require.Len(t, replay, 6)

	// Replay order reproduces the balance.
	var sum int64
	for _, e := range replay {
		assert.Equal(t, e.BalanceBefore+e.Amount, e.BalanceAfter)
		sum += e.Amount
	}
	account, err := balances.Get(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.Equal(t, account.Balance, sum)
}

func TestBetHistoryRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewBetHistoryRepository(pool)

	records := []*model.BetRecord{
		{Channel: "chan", Username: "alice", SlotResult: "Cherry | Cherry | Cherry", ResultType: "jackpot", Rarity: "common"},
		{Channel: "chan", Username: "alice", SlotResult: "Cherry | Lemon | Grape", ResultType: "miss", Rarity: "rare"},
		{Channel: "chan", Username: "alice", SlotResult: "Cherry | Cherry | Lemon", ResultType: "partial", Rarity: "common"},
	}
	for _, rec := range records {
		require.NoError(t, repo.Append(ctx, rec))
	}

	byUser, err := repo.ByUser(ctx, "chan", "alice", 10)
	require.NoError(t, err)
	assert.Len(t, byUser, 3)

	stats, err := repo.StatsByUser(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalBets)
	assert.Equal(t, int64(1), stats.Jackpots)
	assert.Equal(t, int64(1), stats.Partials)
	assert.Equal(t, int64(1), stats.Misses)

	stats, err = repo.StatsByUser(ctx, "chan", "bob")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalBets)
}

func TestEquipmentRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewEquipmentRepository(pool)

	require.NoError(t, repo.AddItem(ctx, "chan", "alice", "hourglass", time.Now().Add(time.Hour)))
	require.NoError(t, repo.AddItem(ctx, "chan", "alice", "mod_badge", time.Now().Add(-time.Hour)))

	// Expired items are filtered by the read, not deleted.
	items, err := repo.ActiveItems(ctx, "chan", "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "hourglass", items[0].ItemType)

	has, err := repo.HasActiveItem(ctx, "chan", "alice", "hourglass")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasActiveItem(ctx, "chan", "alice", "mod_badge")
	require.NoError(t, err)
	assert.False(t, has)
}
