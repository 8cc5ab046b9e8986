package economy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitch-casino-bot/internal/equipment"
	"twitch-casino-bot/internal/model"
)

type grantedItem struct {
	channel   string
	username  string
	itemType  string
	expiresAt time.Time
}

type fakeEquipmentStore struct {
	granted []grantedItem
	now     time.Time
}

func (f *fakeEquipmentStore) AddItem(_ context.Context, channel, username, itemType string, expiresAt time.Time) error {
	f.granted = append(f.granted, grantedItem{channel, username, itemType, expiresAt})
	return nil
}

func (f *fakeEquipmentStore) HasActiveItem(_ context.Context, channel, username, itemType string) (bool, error) {
	now := f.now
	if now.IsZero() {
		now = time.Now()
	}
	for _, g := range f.granted {
		if g.channel == channel && g.username == username && g.itemType == itemType && g.expiresAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}

func TestPurchase(t *testing.T) {
	ctx := context.Background()
	store := newFakeBalanceStore()
	ledger := newTestLedger(store)
	writer := &fakeEquipmentStore{}
	svc := NewShopService(ledger, writer)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	item, err := svc.Purchase(ctx, "chan", "alice", equipment.ItemEspressoShot)
	require.NoError(t, err)
	assert.Equal(t, "Espresso Shot", item.Name)

	account, err := store.Get(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(500), account.Balance)

	require.Len(t, writer.granted, 1)
	assert.Equal(t, string(equipment.ItemEspressoShot), writer.granted[0].itemType)
	assert.Equal(t, now.Add(item.Duration), writer.granted[0].expiresAt)

	// The debit is in the audit trail as a shop purchase.
	found := false
	for _, e := range store.entriesFor("chan", "alice") {
		if e.Type == model.EntryTypeShopPurchase && e.Amount == -500 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPurchaseUnknownItem(t *testing.T) {
	ctx := context.Background()
	svc := NewShopService(newTestLedger(newFakeBalanceStore()), &fakeEquipmentStore{})

	_, err := svc.Purchase(ctx, "chan", "alice", equipment.ItemType("rocket_boots"))
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPurchaseWhileItemActive(t *testing.T) {
	ctx := context.Background()
	store := newFakeBalanceStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	writer := &fakeEquipmentStore{now: now}
	svc := NewShopService(newTestLedger(store), writer)
	svc.now = func() time.Time { return now }

	_, err := svc.Purchase(ctx, "chan", "alice", equipment.ItemEspressoShot)
	require.NoError(t, err)

	// A second copy is refused while the first is still active, and no
	// money moves.
	_, err = svc.Purchase(ctx, "chan", "alice", equipment.ItemEspressoShot)
	assert.ErrorIs(t, err, ErrItemAlreadyActive)
	assert.Len(t, writer.granted, 1)

	account, err := store.Get(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(500), account.Balance)

	// Once the first expires the item can be bought again.
	writer.now = now.Add(writer.granted[0].expiresAt.Sub(now) + time.Minute)
	_, err = svc.Purchase(ctx, "chan", "alice", equipment.ItemEspressoShot)
	require.NoError(t, err)
	assert.Len(t, writer.granted, 2)
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	store := newFakeBalanceStore()
	writer := &fakeEquipmentStore{}
	svc := NewShopService(newTestLedger(store), writer)

	// Golden Calendar costs 2500, starting balance is 1000.
	_, err := svc.Purchase(ctx, "chan", "alice", equipment.ItemGoldenCalendar)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Empty(t, writer.granted)

	account, err := store.Get(ctx, "chan", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), account.Balance)
}
