package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/question"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// Broadcaster listens for question events on Redis Pub/Sub and forwards them
// to every feed connection.
type Broadcaster struct {
	redis   *redis.Client
	hub     *ws.Hub
	channel string
	logger  zerolog.Logger
}

// NewBroadcaster creates a Pub/Sub powered question event broadcaster.
func NewBroadcaster(redis *redis.Client, hub *ws.Hub, channel string, logger zerolog.Logger) *Broadcaster {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Broadcaster{
		redis:   redis,
		hub:     hub,
		channel: channel,
		logger:  logger.With().Str("component", "question_broadcaster").Logger(),
	}
}

// Run subscribes to the event channel and blocks until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	if b.redis == nil || b.hub == nil {
		return nil
	}

	sub := b.redis.Subscribe(ctx, b.channel)
	defer sub.Close()

	b.logger.Info().Str("channel", b.channel).Msg("subscribed to question events")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.forward(msg.Payload)
		}
	}
}

func (b *Broadcaster) forward(payload string) {
	var evt question.Event
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		b.logger.Warn().Err(err).Msg("failed to decode question event payload")
		return
	}
	if evt.Type != question.EventCreated && evt.Type != question.EventDeleted {
		b.logger.Warn().Str("event", evt.Type).Msg("ignoring unknown question event")
		return
	}

	msg, err := ws.NewMessage(ws.TypeQuestionEvent, evt)
	if err != nil {
		b.logger.Warn().Err(err).Msg("failed to marshal question event WS payload")
		return
	}
	if err := b.hub.BroadcastAll(msg); err != nil {
		b.logger.Warn().Err(err).Msg("failed to broadcast question event")
	}
}
