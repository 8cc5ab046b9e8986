package economy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitch-casino-bot/internal/equipment"
	"twitch-casino-bot/internal/model"
	"twitch-casino-bot/internal/pkg/lock"
)

// stubEffects returns a fixed effect set.
type stubEffects struct {
	effects []equipment.Effect
}

func (s *stubEffects) ActiveEffects(context.Context, string, string) ([]equipment.Effect, error) {
	return s.effects, nil
}

func newTestBonusService(store BalanceStore, effects []equipment.Effect) *BonusService {
	locks := lock.NewAccountLock()
	ledger := NewLedger(store, locks, 1000, 100, 5000)
	return NewBonusService(store, ledger, &stubEffects{effects: effects}, locks, BonusConfig{
		DailyReward:      500,
		DailyCooldown:    24 * time.Hour,
		ActivityReward:   50,
		ActivityMessages: 25,
		ActivityInterval: 10 * time.Minute,
	})
}

func TestClaimDaily(t *testing.T) {
	ctx := context.Background()
	store := newFakeBalanceStore()
	svc := newTestBonusService(store, nil)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	result, err := svc.ClaimDaily(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.True(t, result.Claimed)
	assert.Equal(t, int64(500), result.Amount)

	// Second claim inside the cooldown is refused with the remaining time.
	svc.now = func() time.Time { return base.Add(6 * time.Hour) }
	result, err = svc.ClaimDaily(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.False(t, result.Claimed)
	assert.Equal(t, 18*time.Hour, result.Remaining)

	// After the cooldown the claim succeeds again.
	svc.now = func() time.Time { return base.Add(25 * time.Hour) }
	result, err = svc.ClaimDaily(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.True(t, result.Claimed)

	account, err := store.Get(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), account.Balance)
}

func TestClaimDailyEquipmentMultiplier(t *testing.T) {
	ctx := context.Background()
	store := newFakeBalanceStore()
	svc := newTestBonusService(store, []equipment.Effect{
		{Kind: equipment.DailyBonusMultiplier, Factor: 2.0, ItemName: "Golden Calendar"},
	})

	result, err := svc.ClaimDaily(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.True(t, result.Claimed)
	assert.Equal(t, int64(1000), result.Amount)
}

func TestRecordMessageActivityReward(t *testing.T) {
	ctx := context.Background()
	store := newFakeBalanceStore()
	svc := newTestBonusService(store, nil)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	// The first 24 messages pay nothing; the 25th crosses the threshold.
	for i := 0; i < 24; i++ {
		credited, err := svc.RecordMessage(ctx, "chan", "alice")
		require.NoError(t, err)
		assert.Zero(t, credited)
	}
	credited, err := svc.RecordMessage(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(50), credited)

	account, err := store.Get(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1050), account.Balance)
	assert.Equal(t, int64(25), account.MessageCount)

	// The next threshold inside the throttle interval pays nothing.
	svc.now = func() time.Time { return base.Add(time.Minute) }
	for i := 0; i < 25; i++ {
		credited, err = svc.RecordMessage(ctx, "chan", "alice")
		require.NoError(t, err)
	}
	assert.Zero(t, credited)

	// Outside the interval the next threshold pays again.
	svc.now = func() time.Time { return base.Add(time.Hour) }
	for i := 0; i < 25; i++ {
		credited, err = svc.RecordMessage(ctx, "chan", "alice")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(50), credited)

	// Every credit left an audit entry.
	activity := 0
	for _, e := range store.entriesFor("chan", "alice") {
		if e.Type == model.EntryTypeActivity {
			activity++
		}
	}
	assert.Equal(t, 2, activity)
}
