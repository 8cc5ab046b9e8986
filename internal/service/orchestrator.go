package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/chat"
	"twitch-casino-bot/internal/game/minigame"
)

// Scheduling windows. The first session of a stream starts 15 to 30
// minutes in; later sessions wait 30 to 60 minutes after the previous one.
const (
	firstSessionMinDelay = 15 * time.Minute
	firstSessionMaxDelay = 30 * time.Minute
	nextSessionMinDelay  = 30 * time.Minute
	nextSessionMaxDelay  = 60 * time.Minute
)

// Orchestrator schedules minigame sessions on live channels. On every tick
// it first sweeps expired sessions, then considers each configured channel
// for a new session: the channel must be live, have no active session, and
// have reached its randomized eligibility time. When a stream goes offline
// any in-flight session is force-finished.
type Orchestrator struct {
	minigames *MinigameService
	sink      chat.Sink
	streams   chat.StreamStatus
	words     WordSource
	channels  []string
	tick      time.Duration

	rng          *rand.Rand
	nextEligible map[string]time.Time
	wasLive      map[string]bool

	now func() time.Time
}

// NewOrchestrator creates a new Orchestrator instance.
func NewOrchestrator(minigames *MinigameService, sink chat.Sink, streams chat.StreamStatus, words WordSource, channels []string, tick time.Duration) *Orchestrator {
	return &Orchestrator{
		minigames:    minigames,
		sink:         sink,
		streams:      streams,
		words:        words,
		channels:     channels,
		tick:         tick,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		nextEligible: make(map[string]time.Time),
		wasLive:      make(map[string]bool),
		now:          time.Now,
	}
}

// Run drives the scheduling loop until the context is cancelled.
func (o *Orchestrator) Run(ctx context.Context) {
	log.Info().
		Dur("tick", o.tick).
		Strs("channels", o.channels).
		Msg("Minigame orchestrator started")

	ticker := time.NewTicker(o.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Minigame orchestrator stopped")
			return
		case <-ticker.C:
			o.Tick(ctx)
		}
	}
}

// Tick runs one scheduling pass. Exported so tests can drive the
// orchestrator without the timer.
func (o *Orchestrator) Tick(ctx context.Context) {
	o.sweepExpired(ctx)
	for _, channel := range o.channels {
		o.considerChannel(ctx, channel)
	}
}

// sweepExpired finishes every session that has passed its end time.
// Expired rock-paper-scissors rounds still settle so the collected bank
// pays out; number and word games are simply aborted.
func (o *Orchestrator) sweepExpired(ctx context.Context) {
	for _, exp := range o.minigames.Store().ExpiredSessions(o.now()) {
		o.finishSession(ctx, exp.Channel, exp.Kind)
	}
}

func (o *Orchestrator) finishSession(ctx context.Context, channel string, kind minigame.Kind) {
	switch kind {
	case minigame.KindRPS:
		result, err := o.minigames.FinalizeRPS(ctx, channel)
		if err != nil {
			log.Error().Err(err).Str("channel", channel).Msg("Failed to finalize rock-paper-scissors")
			return
		}
		o.announce(ctx, channel, rpsSummary(result))
	default:
		if err := o.minigames.Store().Abort(channel, kind); err != nil {
			log.Error().Err(err).
				Str("channel", channel).
				Str("kind", kind.String()).
				Msg("Failed to abort session")
			return
		}
		o.announce(ctx, channel, fmt.Sprintf("Time's up! The %s game ended without a winner.", kind))
	}
}

// considerChannel decides whether to start a session on the channel.
func (o *Orchestrator) considerChannel(ctx context.Context, channel string) {
	live, startedAt, err := o.streams.Live(ctx, channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("Failed to check stream status")
		return
	}

	if !live {
		if o.wasLive[channel] {
			o.forceFinish(ctx, channel)
			o.wasLive[channel] = false
			delete(o.nextEligible, channel)
		}
		return
	}

	if !o.wasLive[channel] {
		o.wasLive[channel] = true
		o.nextEligible[channel] = startedAt.Add(o.randomDelay(firstSessionMinDelay, firstSessionMaxDelay))
	}

	if o.minigames.Store().HasAny(channel) {
		return
	}
	if o.now().Before(o.nextEligible[channel]) {
		return
	}

	o.startSession(ctx, channel)
	o.nextEligible[channel] = o.now().Add(o.randomDelay(nextSessionMinDelay, nextSessionMaxDelay))
}

// forceFinish ends every active session on the channel, settling
// rock-paper-scissors and aborting the rest.
func (o *Orchestrator) forceFinish(ctx context.Context, channel string) {
	for _, kind := range o.minigames.Store().ActiveKinds(channel) {
		log.Info().
			Str("channel", channel).
			Str("kind", kind.String()).
			Msg("Stream offline, force-finishing session")
		o.finishSession(ctx, channel, kind)
	}
}

// startSession starts a uniformly chosen minigame on the channel.
func (o *Orchestrator) startSession(ctx context.Context, channel string) {
	kind := minigame.Kind(o.rng.Intn(3))

	var announcement string
	switch kind {
	case minigame.KindNumber:
		g, err := o.minigames.StartNumber(channel)
		if err != nil {
			log.Error().Err(err).Str("channel", channel).Msg("Failed to start number game")
			return
		}
		announcement = fmt.Sprintf("Number game! Guess a number from 1 to 100. Prize: %d coins.", g.Prize)
	case minigame.KindWord:
		word, hint := o.words.RandomWord()
		g, err := o.minigames.StartWord(channel, word, hint)
		if err != nil {
			log.Error().Err(err).Str("channel", channel).Msg("Failed to start word game")
			return
		}
		announcement = fmt.Sprintf("Word game! Hint: %s. Prize starts at %d coins.", g.Hint, g.Prize)
	case minigame.KindRPS:
		g, err := o.minigames.StartRPS(channel)
		if err != nil {
			log.Error().Err(err).Str("channel", channel).Msg("Failed to start rock-paper-scissors")
			return
		}
		announcement = fmt.Sprintf("Rock-paper-scissors! Entry fee %d coins, bank starts at %d.", g.EntryFee, g.BaseBank)
	}

	log.Info().
		Str("channel", channel).
		Str("kind", kind.String()).
		Msg("Minigame session started")
	o.announce(ctx, channel, announcement)
}

func (o *Orchestrator) announce(ctx context.Context, channel, message string) {
	if err := o.sink.Send(ctx, channel, message); err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("Failed to send announcement")
	}
}

// randomDelay returns a uniform duration in [min,max].
func (o *Orchestrator) randomDelay(min, max time.Duration) time.Duration {
	return min + time.Duration(o.rng.Int63n(int64(max-min)+1))
}

// rpsSummary renders the settled round for chat.
func rpsSummary(r *minigame.RPSResult) string {
	if r.Participants == 0 {
		return fmt.Sprintf("Rock-paper-scissors is over! I picked %s, but nobody played.", r.BotChoice)
	}
	if len(r.Winners) == 0 {
		return fmt.Sprintf("Rock-paper-scissors is over! I picked %s; nobody picked %s, the bank of %d is gone.",
			r.BotChoice, r.WinningChoice, r.Bank)
	}
	return fmt.Sprintf("Rock-paper-scissors is over! I picked %s; %s beat me. %d winner(s) take %d coins each.",
		r.BotChoice, r.WinningChoice, len(r.Winners), r.Share)
}
