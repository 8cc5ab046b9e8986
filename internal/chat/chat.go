// Package chat defines the outbound chat boundary. The bot core is
// transport-agnostic: services announce results and apply timeouts
// through a Sink, and a concrete IRC or API adapter plugs in behind it.
package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sink delivers bot output to a channel.
type Sink interface {
	// Send posts a message to the channel.
	Send(ctx context.Context, channel, message string) error
	// Timeout mutes a user in the channel for the given number of seconds.
	Timeout(ctx context.Context, channel, username string, seconds int) error
}

// StreamStatus reports whether a channel's stream is live. The minigame
// orchestrator only schedules sessions on live channels.
type StreamStatus interface {
	Live(ctx context.Context, channel string) (live bool, startedAt time.Time, err error)
}

// LogSink writes chat output to the structured log. It stands in for a
// real transport in development and tests.
type LogSink struct{}

// NewLogSink creates a new LogSink instance.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Send logs the outgoing message.
func (s *LogSink) Send(_ context.Context, channel, message string) error {
	log.Info().
		Str("channel", channel).
		Str("message", message).
		Msg("Chat send")
	return nil
}

// Timeout logs the timeout that would be applied.
func (s *LogSink) Timeout(_ context.Context, channel, username string, seconds int) error {
	log.Info().
		Str("channel", channel).
		Str("user", username).
		Int("seconds", seconds).
		Msg("Chat timeout")
	return nil
}

// StaticStreamStatus reports every channel as live since process start.
// Used when no stream platform integration is configured.
type StaticStreamStatus struct {
	startedAt time.Time
}

// NewStaticStreamStatus creates a StaticStreamStatus anchored at now.
func NewStaticStreamStatus() *StaticStreamStatus {
	return &StaticStreamStatus{startedAt: time.Now()}
}

// Live always reports live.
func (s *StaticStreamStatus) Live(_ context.Context, _ string) (bool, time.Time, error) {
	return true, s.startedAt, nil
}
