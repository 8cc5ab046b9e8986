// Package model defines the persisted data models for the casino bot.
package model

import "time"

// BalanceAccount is the per-(channel,user) coin account. Accounts are
// created lazily on first lookup with the configured starting balance and
// are never deleted.
type BalanceAccount struct {
	Channel            string    `db:"channel"`
	Username           string    `db:"username"`
	Balance            int64     `db:"balance"`
	TotalEarned        int64     `db:"total_earned"`
	TotalSpent         int64     `db:"total_spent"`
	LastDailyClaim     int64     `db:"last_daily_claim"`
	LastBonusStreamID  string    `db:"last_bonus_stream_id"`
	MessageCount       int64     `db:"message_count"`
	LastActivityReward int64     `db:"last_activity_reward"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// LedgerEntry is one immutable signed balance change with before/after
// snapshots. Replaying all entries for an account in timestamp order must
// reproduce its current balance exactly.
type LedgerEntry struct {
	ID            int64     `db:"id"`
	Channel       string    `db:"channel"`
	Username      string    `db:"username"`
	Type          string    `db:"type"`
	Amount        int64     `db:"amount"`
	BalanceBefore int64     `db:"balance_before"`
	BalanceAfter  int64     `db:"balance_after"`
	Description   string    `db:"description"`
	CreatedAt     time.Time `db:"created_at"`
}

// BetRecord is one persisted slot roll, write-only from the betting engine
// and read back only for statistics.
type BetRecord struct {
	ID         int64     `db:"id"`
	Channel    string    `db:"channel"`
	Username   string    `db:"username"`
	SlotResult string    `db:"slot_result"`
	ResultType string    `db:"result_type"`
	Rarity     string    `db:"rarity"`
	CreatedAt  time.Time `db:"created_at"`
}

// UserEquipmentItem is a time-boxed purchased item. Expiry is lazy: rows
// past expires_at are filtered at query time, never eagerly deleted.
type UserEquipmentItem struct {
	ID        int64     `db:"id"`
	Channel   string    `db:"channel"`
	Username  string    `db:"username"`
	ItemType  string    `db:"item_type"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Ledger entry types for categorizing balance changes.
const (
	EntryTypeBetLoss       = "bet_loss"       // Slot roll stake debit
	EntryTypeBetWin        = "bet_win"        // Slot roll payout credit
	EntryTypeConsolation   = "consolation"    // Miss outcome consolation prize
	EntryTypeTransfer      = "transfer"       // User-to-user transfer
	EntryTypeDaily         = "daily"          // Daily bonus claim
	EntryTypeActivity      = "activity"       // Chat activity reward
	EntryTypeMinigamePrize = "minigame_prize" // Minigame win payout
	EntryTypeMinigameFee   = "minigame_fee"   // RPS entry fee debit
	EntryTypeShopPurchase  = "shop_purchase"  // Equipment purchase
	EntryTypeAdminAdjust   = "admin_adjust"   // Manual balance adjustment
)

// Slot outcome types as persisted in bet records.
const (
	ResultTypeJackpot = "jackpot"
	ResultTypePartial = "partial"
	ResultTypeMiss    = "miss"
)

// BetStats aggregates a user's bet history per outcome type.
type BetStats struct {
	TotalBets int64 `db:"total_bets"`
	Jackpots  int64 `db:"jackpots"`
	Partials  int64 `db:"partials"`
	Misses    int64 `db:"misses"`
}
