package handler

import (
	"context"
	"fmt"

	"slack_gateway/internal/dispatch"
	"slack_gateway/internal/model"
)

type chatClient interface {
	IsSelf(id string) bool
	PostMessage(ctx context.Context, channel, text string) error
	PostEphemeral(ctx context.Context, channel, user, text string) error
}

// HelloEvent greets the channel whenever someone other than the bot itself
// mentions the bot.
type HelloEvent struct {
	client chatClient
}

func NewHelloEvent(client chatClient) *HelloEvent {
	return &HelloEvent{client: client}
}

func (e *HelloEvent) Name() string { return "hello" }

func (e *HelloEvent) EventType() string { return dispatch.EventAppMention }

func (e *HelloEvent) Handle(ctx context.Context, env *model.Envelope) error {
	// Ignore our own mentions to prevent loops
	if e.client.IsSelf(env.Event.User.ID) {
		return nil
	}
	greeting := fmt.Sprintf("Hello, <@%s>! :wave:", env.Event.User.ID)
	return e.client.PostMessage(ctx, env.Event.Channel.ID, greeting)
}
