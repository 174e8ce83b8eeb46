// Package slack wraps the outbound Slack Web API client. The gateway core
// only needs "send a message" and "is this user the bot itself"; everything
// else stays behind this wrapper.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Client is an explicitly constructed Slack client. Identity fields are
// populated once by Bootstrap during startup, not lazily; construct it,
// bootstrap it, then hand it to whatever needs it. Safe for concurrent use
// after Bootstrap.
type Client struct {
	api            *slackapi.Client
	log            *zap.Logger
	defaultChannel string
	adminID        string

	botID  string
	userID string
	appID  string
	name   string
}

func New(token, defaultChannel, adminID string, log *zap.Logger) *Client {
	return &Client{
		api:            slackapi.New(token),
		log:            log,
		defaultChannel: defaultChannel,
		adminID:        adminID,
	}
}

// Bootstrap resolves the bot's own identity via auth.test and bots.info.
// Must be called once before the client serves IsSelf checks.
func (c *Client) Bootstrap(ctx context.Context) error {
	auth, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("auth test failed: %v", err)
	}
	c.userID = auth.UserID
	c.botID = auth.BotID
	c.name = auth.User

	if auth.BotID != "" {
		bot, err := c.api.GetBotInfoContext(ctx, slackapi.GetBotInfoParameters{Bot: auth.BotID})
		if err != nil {
			// auth.test already gave us enough to answer IsSelf
			c.log.Warn("bots.info lookup failed", zap.Error(err))
		} else {
			c.appID = bot.AppID
			c.name = bot.Name
		}
	}

	c.log.Info("slack identity bootstrapped",
		zap.String("bot_id", c.botID),
		zap.String("user_id", c.userID),
		zap.String("app_id", c.appID),
		zap.String("name", c.name))
	return nil
}

// IsSelf reports whether id belongs to this bot: its bot ID, its user ID,
// or the configured admin ID.
func (c *Client) IsSelf(id string) bool {
	if id == "" {
		return false
	}
	return id == c.botID || id == c.userID || (c.adminID != "" && id == c.adminID)
}

// PostMessage posts text to a channel. An empty channel falls back to the
// configured default channel.
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	if channel == "" {
		channel = c.defaultChannel
	}
	_, _, err := c.api.PostMessageContext(ctx, channel, slackapi.MsgOptionText(text, false))
	if err != nil {
		c.log.Error("failed to post message", zap.String("channel", channel), zap.Error(err))
		return fmt.Errorf("failed to post message: %v", err)
	}
	return nil
}

// PostEphemeral posts text visible only to one user in a channel.
func (c *Client) PostEphemeral(ctx context.Context, channel, user, text string) error {
	if channel == "" {
		channel = c.defaultChannel
	}
	_, err := c.api.PostEphemeralContext(ctx, channel, user, slackapi.MsgOptionText(text, false))
	if err != nil {
		c.log.Error("failed to post ephemeral message",
			zap.String("channel", channel),
			zap.String("user", user),
			zap.Error(err))
		return fmt.Errorf("failed to post ephemeral message: %v", err)
	}
	return nil
}
