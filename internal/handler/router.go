// Package handler parses chat commands and dispatches them to the
// economy and game services. It is transport-agnostic: an IRC adapter
// feeds every chat line into the Router and relays the reply back.
package handler

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/chat"
)

// CommandPrefix marks a chat line as a bot command.
const CommandPrefix = "!"

// Router dispatches chat lines. Non-command lines still count toward the
// activity reward.
type Router struct {
	account  *AccountHandler
	game     *GameHandler
	minigame *MinigameHandler
	shop     *ShopHandler
}

// NewRouter creates a new Router instance.
func NewRouter(account *AccountHandler, game *GameHandler, minigame *MinigameHandler, shop *ShopHandler) *Router {
	return &Router{
		account:  account,
		game:     game,
		minigame: minigame,
		shop:     shop,
	}
}

// Handle processes one chat line and returns the bot's reply, empty when
// the line needs no response.
func (r *Router) Handle(ctx context.Context, channel, username, text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, CommandPrefix) {
		return r.account.HandleMessage(ctx, channel, username)
	}

	fields := strings.Fields(strings.TrimPrefix(text, CommandPrefix))
	if len(fields) == 0 {
		return ""
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	switch command {
	case "balance":
		return r.account.HandleBalance(ctx, channel, username)
	case "daily":
		return r.account.HandleDaily(ctx, channel, username)
	case "give":
		return r.account.HandleTransfer(ctx, channel, username, args)
	case "top":
		return r.account.HandleTop(ctx, channel)
	case "history":
		return r.account.HandleHistory(ctx, channel, username)
	case "roll":
		return r.game.HandleRoll(ctx, channel, username, args)
	case "stats":
		return r.game.HandleStats(ctx, channel, username)
	case "guess":
		return r.minigame.HandleGuess(ctx, channel, username, args)
	case "word":
		return r.minigame.HandleWord(ctx, channel, username, args)
	case "rps":
		return r.minigame.HandleRPS(ctx, channel, username, args)
	case "shop":
		return r.shop.HandleList()
	case "buy":
		return r.shop.HandleBuy(ctx, channel, username, args)
	default:
		return ""
	}
}

// Reply handles one line and sends any response through the sink.
func (r *Router) Reply(ctx context.Context, sink chat.Sink, channel, username, text string) {
	reply := r.Handle(ctx, channel, username, text)
	if reply == "" {
		return
	}
	if err := sink.Send(ctx, channel, reply); err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("Failed to send reply")
	}
}
