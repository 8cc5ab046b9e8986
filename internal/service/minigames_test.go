package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitch-casino-bot/internal/game/minigame"
	"twitch-casino-bot/internal/model"
)

func testMinigameConfig() MinigameConfig {
	return MinigameConfig{
		SessionDuration: 5 * time.Minute,
		Number:          minigame.NumberConfig{Prize: 1000, Decrement: 50, Floor: 300},
		Word:            minigame.WordConfig{Ceiling: 1000, Decrement: 200, Floor: 300},
		RPS:             minigame.RPSConfig{BaseBank: 500, EntryFee: 50},
	}
}

func newTestMinigameService(wallet *fakeWallet, seed int64) *MinigameService {
	return NewMinigameServiceWithRand(minigame.NewStore(), wallet, testMinigameConfig(),
		rand.New(rand.NewSource(seed)))
}

func TestGuessNumberCreditsWinner(t *testing.T) {
	ctx := context.Background()
	wallet := newFakeWallet()
	svc := newTestMinigameService(wallet, 1)

	g, err := svc.StartNumber("chan")
	require.NoError(t, err)
	require.GreaterOrEqual(t, g.Target, 1)
	require.LessOrEqual(t, g.Target, 100)

	result, err := svc.GuessNumber(ctx, "chan", "alice", g.Target)
	require.NoError(t, err)
	assert.True(t, result.Won)

	require.Len(t, wallet.entries, 1)
	assert.Equal(t, model.EntryTypeMinigamePrize, wallet.entries[0].entryType)
	assert.Equal(t, int64(1000), wallet.entries[0].amount)
}

func TestGuessWordCompletingRevealCreditsDecayedPrize(t *testing.T) {
	ctx := context.Background()
	wallet := newFakeWallet()
	svc := newTestMinigameService(wallet, 1)

	_, err := svc.StartWord("chan", "raft", "floats")
	require.NoError(t, err)

	for _, letter := range []rune{'r', 'a', 'f'} {
		result, err := svc.GuessLetter(ctx, "chan", "alice", letter)
		require.NoError(t, err)
		require.False(t, result.Won)
	}

	result, err := svc.GuessLetter(ctx, "chan", "bob", 't')
	require.NoError(t, err)
	assert.True(t, result.Won)
	// Three decaying reveals: 1000 - 3*200 = 400.
	assert.Equal(t, int64(400), result.Prize)

	require.Len(t, wallet.entries, 1)
	assert.Equal(t, int64(400), wallet.entries[0].amount)
}

func TestChooseRPSDebitsFeeOnce(t *testing.T) {
	ctx := context.Background()
	wallet := newFakeWallet()
	svc := newTestMinigameService(wallet, 1)

	_, err := svc.StartRPS("chan")
	require.NoError(t, err)

	require.NoError(t, svc.ChooseRPS(ctx, "chan", "alice", minigame.Rock))
	require.Len(t, wallet.entries, 1)
	assert.Equal(t, model.EntryTypeMinigameFee, wallet.entries[0].entryType)
	assert.Equal(t, int64(-50), wallet.entries[0].amount)

	// A repeat choice is refused before any debit happens.
	err = svc.ChooseRPS(ctx, "chan", "alice", minigame.Paper)
	assert.ErrorIs(t, err, minigame.ErrAlreadyChosen)
	assert.Len(t, wallet.entries, 1)
}

func TestChooseRPSInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	wallet := newFakeWallet()
	wallet.balances["chan:alice"] = 10
	svc := newTestMinigameService(wallet, 1)

	_, err := svc.StartRPS("chan")
	require.NoError(t, err)

	err = svc.ChooseRPS(ctx, "chan", "alice", minigame.Rock)
	require.Error(t, err)

	// The choice was never recorded, so a later attempt is not a duplicate.
	chosen, err := svc.Store().HasChosen("chan", "alice")
	require.NoError(t, err)
	assert.False(t, chosen)
}

func TestFinalizeRPSCreditsWinners(t *testing.T) {
	ctx := context.Background()
	wallet := newFakeWallet()

	// Find a seed whose bot choice is scissors so rock wins.
	var svc *MinigameService
	for seed := int64(0); seed < 100; seed++ {
		if minigame.Choice(rand.New(rand.NewSource(seed)).Intn(3)) == minigame.Scissors {
			svc = newTestMinigameService(wallet, seed)
			break
		}
	}
	require.NotNil(t, svc)

	_, err := svc.StartRPS("chan")
	require.NoError(t, err)

	require.NoError(t, svc.ChooseRPS(ctx, "chan", "alice", minigame.Rock))
	require.NoError(t, svc.ChooseRPS(ctx, "chan", "bob", minigame.Rock))
	require.NoError(t, svc.ChooseRPS(ctx, "chan", "carol", minigame.Paper))

	result, err := svc.FinalizeRPS(ctx, "chan")
	require.NoError(t, err)
	assert.Equal(t, minigame.Scissors, result.BotChoice)
	assert.Equal(t, int64(650), result.Bank)
	assert.Equal(t, int64(325), result.Share)
	require.Len(t, result.Winners, 2)

	// 3 fee debits + 2 prize credits.
	prizes := 0
	for _, e := range wallet.entries {
		if e.entryType == model.EntryTypeMinigamePrize {
			prizes++
			assert.Equal(t, int64(325), e.amount)
		}
	}
	assert.Equal(t, 2, prizes)
}
