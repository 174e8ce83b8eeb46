package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slack_gateway/internal/config"
	"slack_gateway/internal/dispatch"
	"slack_gateway/internal/logger"
	"slack_gateway/internal/model"
	"slack_gateway/internal/notify"
	"slack_gateway/internal/storage"
)

// firehose kind keys: one emission per dispatched request, used by
// cross-cutting sinks (archive, notification publisher).
const (
	firehoseEvent       = "event"
	firehoseInteraction = "interaction"
	firehoseCommand     = "command"
)

// SlackHandler owns the dispatch tables for one gateway instance: the
// single-responder registry, the event router, and the passive-listener
// emitters. All registration happens through it at startup; once Router is
// serving, the tables are read-only.
type SlackHandler struct {
	cfg    *config.Config
	client chatClient
	log    *zap.Logger

	registry *dispatch.Registry
	events   *dispatch.EventRouter
	actions  *dispatch.Emitter
	commands *dispatch.Emitter
	firehose *dispatch.Emitter
}

// Options carries the injected collaborators. Archive and Notifier are
// optional; nil disables the corresponding sink.
type Options struct {
	Config   *config.Config
	Client   chatClient
	Archive  storage.ArchiveStore
	Notifier *notify.Publisher
}

// NewSlackHandler builds a handler and wires the built-in events and
// listeners. Any registration failure is fatal: a broken dispatch table
// must never start serving.
func NewSlackHandler(opts Options) (*SlackHandler, error) {
	log := logger.Named("dispatch")
	h := &SlackHandler{
		cfg:      opts.Config,
		client:   opts.Client,
		log:      log,
		registry: dispatch.NewRegistry(),
		events:   dispatch.NewEventRouter(log),
		actions:  dispatch.NewEmitter("actions", log),
		commands: dispatch.NewEmitter("commands", log),
		firehose: dispatch.NewEmitter("firehose", log),
	}

	if err := h.events.AddCustomEvent(NewHelloEvent(opts.Client)); err != nil {
		return nil, err
	}

	// /test replies only to the invoking user, without channel noise
	h.commands.On("test", func(ctx context.Context, payload any) error {
		cmd, ok := payload.(*model.SlashCommand)
		if !ok {
			return fmt.Errorf("unexpected command payload type %T", payload)
		}
		return opts.Client.PostEphemeral(ctx, cmd.ChannelID, cmd.UserID,
			fmt.Sprintf("hello, <@%s>", cmd.UserID))
	})

	if opts.Archive != nil {
		sink := archiveSink(opts.Archive)
		h.firehose.On(firehoseEvent, sink)
		h.firehose.On(firehoseInteraction, sink)
		h.firehose.On(firehoseCommand, sink)
	}
	if opts.Notifier != nil {
		sink := notifySink(opts.Notifier)
		h.firehose.On(firehoseInteraction, sink)
		h.firehose.On(firehoseCommand, sink)
	}

	return h, nil
}

// RegisterResponder binds a routing key to the one responder allowed to
// answer it. Startup only.
func (h *SlackHandler) RegisterResponder(key string, fn dispatch.Responder) error {
	return h.registry.Register(key, fn)
}

// OnAction subscribes a passive listener to an action trigger key.
func (h *SlackHandler) OnAction(key string, l dispatch.Listener) {
	h.actions.On(key, l)
}

// OnCommand subscribes a passive listener to a command name (without the
// leading slash).
func (h *SlackHandler) OnCommand(key string, l dispatch.Listener) {
	h.commands.On(key, l)
}

// AddCustomEvent registers a custom event on the event router.
func (h *SlackHandler) AddCustomEvent(ev dispatch.CustomEvent) error {
	return h.events.AddCustomEvent(ev)
}

// Router builds the gin engine with the full middleware chain. The three
// webhook routes share request verification and retry short-circuiting, in
// that order: a retry delivery must still carry a valid signature before it
// is acked.
func (h *SlackHandler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinLogMiddleware())

	r.GET("/healthz", h.HandleHealth)

	slackRoutes := r.Group("/slack",
		VerifySlackRequest(h.cfg.SlackSigningSecret, h.cfg.ReplayWindow),
		HandleSlackRetry())
	slackRoutes.POST("/events", h.HandleEvents)
	slackRoutes.POST("/actions", h.HandleActions)
	slackRoutes.POST("/commands", h.HandleCommands)

	h.log.Info("gateway routes ready",
		zap.Strings("responder_keys", h.registry.Keys()))

	return r
}

// Drain waits for all detached listener tasks, for shutdown and tests.
func (h *SlackHandler) Drain() {
	h.actions.Drain()
	h.commands.Drain()
	h.firehose.Drain()
}

// archiveSink persists the raw payload of every routed request.
func archiveSink(store storage.ArchiveStore) dispatch.Listener {
	return func(ctx context.Context, payload any) error {
		kind, key, body, err := describePayload(payload)
		if err != nil {
			return err
		}
		return store.Put(ctx, kind, key, body)
	}
}

// notifySink publishes routed interactions and commands to Kafka.
func notifySink(publisher *notify.Publisher) dispatch.Listener {
	return func(ctx context.Context, payload any) error {
		_, key, _, err := describePayload(payload)
		if err != nil {
			return err
		}
		return publisher.Publish(ctx, key, payload)
	}
}

func describePayload(payload any) (kind, key string, body []byte, err error) {
	switch p := payload.(type) {
	case *model.Envelope:
		kind, key = firehoseEvent, p.EventType()
		body, err = json.Marshal(p)
	case *model.Interaction:
		kind, key = firehoseInteraction, p.Type
		body, err = json.Marshal(p.Raw)
	case *model.SlashCommand:
		kind, key = firehoseCommand, p.Name()
		body, err = json.Marshal(p)
	default:
		err = fmt.Errorf("unexpected payload type %T", payload)
	}
	return kind, key, body, err
}
