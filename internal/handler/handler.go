package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slack_gateway/internal/dispatch"
	"slack_gateway/internal/logger"
	"slack_gateway/internal/model"
)

// HandleEvents serves POST /slack/events: the url_verification handshake
// and Events API envelopes. Dispatch failures are logged and still acked
// with 200 so Slack does not retry-storm the endpoint.
func (h *SlackHandler) HandleEvents(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		h.log.Error("empty request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		h.log.Error("failed to decode event body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	kind, err := dispatch.Classify(payload)
	if err != nil {
		h.rejectUnclassifiable(c, payload, err)
		return
	}

	switch kind {
	case dispatch.KindChallenge:
		var challenge model.Challenge
		if err := json.Unmarshal(body, &challenge); err != nil {
			h.log.Error("failed to decode challenge", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse challenge"})
			return
		}
		c.Set(logger.OutcomeKey, "challenge_echoed")
		c.Header("Content-Type", "text/plain")
		c.String(http.StatusOK, challenge.Challenge)

	case dispatch.KindEnvelope:
		var env model.Envelope
		if err := json.Unmarshal(body, &env); err != nil {
			// recognized shape but undecodable details: ack, record internally
			h.log.Error("failed to decode event envelope", zap.Error(err))
			c.Set(logger.OutcomeKey, "event_undecodable")
			c.String(http.StatusOK, "")
			return
		}

		ctx := c.Request.Context()
		h.firehose.Emit(ctx, firehoseEvent, &env)
		if err := h.events.Dispatch(ctx, &env); err != nil {
			h.log.Error("event dispatch failed",
				zap.String("event_type", env.EventType()),
				zap.String("event_id", env.EventID),
				zap.Error(err))
		}
		c.Set(logger.OutcomeKey, "event_dispatched")
		c.String(http.StatusOK, "")

	default:
		// interactions and commands do not belong on this endpoint
		h.rejectUnclassifiable(c, payload, dispatch.ErrUnclassifiablePayload)
	}
}

// HandleActions serves POST /slack/actions: interactive-component
// callbacks delivered as a form-encoded "payload" field. Candidate trigger
// keys fan out to passive listeners; at most one registered responder may
// produce the response body.
func (h *SlackHandler) HandleActions(c *gin.Context) {
	payloadField := c.PostForm("payload")
	if payloadField == "" {
		h.log.Error("missing payload form field")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing payload form field"})
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(payloadField), &payload); err != nil {
		h.log.Error("failed to decode action payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action payload"})
		return
	}

	kind, err := dispatch.Classify(payload)
	if err != nil || kind != dispatch.KindInteraction {
		h.rejectUnclassifiable(c, payload, dispatch.ErrUnclassifiablePayload)
		return
	}

	in := model.InteractionFromMap(payload)
	keys := dispatch.TriggerKeys(in)
	ctx := c.Request.Context()

	for _, key := range keys {
		h.actions.Emit(ctx, key, in)
	}
	h.firehose.Emit(ctx, firehoseInteraction, in)

	responder, matched, err := h.registry.Resolve(keys)
	if err != nil {
		// configuration bug: two responders claim this action; fail loudly
		h.log.Error("ambiguous action route",
			zap.Strings("candidate_keys", keys),
			zap.Error(err))
		c.Set(logger.OutcomeKey, "rejected_ambiguous")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ambiguous action route"})
		return
	}
	if responder == nil {
		// normal outcome: nobody answers directly, listeners already fired
		h.log.Debug("no responder matched", zap.Strings("candidate_keys", keys))
		c.Set(logger.OutcomeKey, "action_unrouted")
		c.String(http.StatusOK, "")
		return
	}

	response, err := responder(ctx, in)
	if err != nil {
		h.log.Error("responder failed",
			zap.String("routing_key", matched),
			zap.Error(err))
		c.Set(logger.OutcomeKey, "action_failed")
		c.String(http.StatusOK, "")
		return
	}

	c.Set(logger.OutcomeKey, "action_resolved")
	c.String(http.StatusOK, response)
}

// HandleCommands serves POST /slack/commands. Commands are acked with an
// empty 200 right away; the real reply goes out asynchronously via the
// command's response_url from whatever listener handles it.
func (h *SlackHandler) HandleCommands(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.log.Error("failed to parse command form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form body"})
		return
	}

	cmd := model.SlashCommandFromForm(c.Request.PostForm)
	if cmd.Command == "" {
		h.rejectUnclassifiable(c, map[string]any{}, dispatch.ErrUnclassifiablePayload)
		return
	}

	ctx := c.Request.Context()
	h.commands.Emit(ctx, cmd.Name(), cmd)
	h.firehose.Emit(ctx, firehoseCommand, cmd)

	c.Set(logger.OutcomeKey, "command_emitted")
	c.String(http.StatusOK, "")
}

// HandleHealth serves GET /healthz.
func (h *SlackHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"environment": string(h.cfg.Environment),
	})
}

// rejectUnclassifiable logs the discriminant fields of an unroutable
// payload and rejects with a client error.
func (h *SlackHandler) rejectUnclassifiable(c *gin.Context, payload map[string]any, err error) {
	typ, _ := payload["type"].(string)
	_, hasEvent := payload["event"]
	_, hasCommand := payload["command"]
	h.log.Error("unclassifiable payload",
		zap.String("type", typ),
		zap.Bool("has_event", hasEvent),
		zap.Bool("has_command", hasCommand),
		zap.Error(err))
	c.Set(logger.OutcomeKey, "rejected_unclassifiable")
	c.JSON(http.StatusBadRequest, gin.H{"error": "unclassifiable payload"})
}
