package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/calendarplan/calendarplan/internal/utils"
	"github.com/calendarplan/calendarplan/pkg/calendar"
	"github.com/calendarplan/calendarplan/pkg/gemini"
	log "github.com/sirupsen/logrus"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrClosed       = errors.New("assistant is closed")
)

type Options struct {
	// Timeout bounds each generation; zero means no bound.
	Timeout time.Duration
	// Queue is how many messages may wait behind the one being processed.
	Queue   int
	Welcome bool
	Clock   utils.Clock
}

// Turn is what one user message produced.
type Turn struct {
	// Messages are the entries appended for this turn, user message first.
	Messages []ChatMessage
	Action   ActionKind
	Outcome  Outcome
}

// ShowEvents tells the presentation layer to render the event list.
func (t Turn) ShowEvents() bool {
	return t.Action.ShowsEvents()
}

type request struct {
	message ChatMessage
	reply   chan Turn
}

// Assistant is the conversation behind the chat screen. Messages are handled
// one at a time, in the order they were sent, by a single worker goroutine;
// the worker is the only writer of the conversation and of the view.
type Assistant struct {
	generator gemini.Generator
	parser    *Parser
	processor *Processor
	view      *calendar.Projection
	clock     utils.Clock
	timeout   time.Duration

	mu         sync.RWMutex
	messages   []ChatMessage
	lastAction ActionKind
	pending    int

	enqueue  sync.Mutex
	requests chan request
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewAssistant(generator gemini.Generator, parser *Parser, processor *Processor, view *calendar.Projection, opts Options) *Assistant {
	if opts.Clock == nil {
		opts.Clock = utils.SystemClock{}
	}
	if opts.Queue < 0 {
		opts.Queue = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Assistant{
		generator:  generator,
		parser:     parser,
		processor:  processor,
		view:       view,
		clock:      opts.Clock,
		timeout:    opts.Timeout,
		messages:   []ChatMessage{},
		lastAction: KindNone,
		requests:   make(chan request, opts.Queue),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	if opts.Welcome {
		a.messages = append(a.messages, ChatMessage{Content: welcomeMessage, Timestamp: a.clock.Now()})
	}
	go a.run()
	return a
}

// Post queues text and returns without waiting for the reply. The user
// message is visible in Messages immediately.
func (a *Assistant) Post(text string) (<-chan Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	a.enqueue.Lock()
	defer a.enqueue.Unlock()
	if a.ctx.Err() != nil {
		return nil, ErrClosed
	}
	req := request{
		message: ChatMessage{Content: text, FromUser: true, Timestamp: a.clock.Now()},
		reply:   make(chan Turn, 1),
	}
	a.mu.Lock()
	a.messages = append(a.messages, req.message)
	a.pending++
	a.mu.Unlock()

	select {
	case a.requests <- req:
		return req.reply, nil
	case <-a.ctx.Done():
		a.mu.Lock()
		a.pending--
		a.mu.Unlock()
		return nil, ErrClosed
	}
}

// Send queues text and waits for its turn to complete. If ctx ends first the
// turn still completes in the background and its messages are appended.
func (a *Assistant) Send(ctx context.Context, text string) (Turn, error) {
	reply, err := a.Post(text)
	if err != nil {
		return Turn{}, err
	}
	select {
	case turn, ok := <-reply:
		if !ok {
			return Turn{}, ErrClosed
		}
		return turn, nil
	case <-ctx.Done():
		return Turn{}, ctx.Err()
	}
}

func (a *Assistant) run() {
	defer close(a.done)
	for {
		select {
		case <-a.ctx.Done():
			return
		case req := <-a.requests:
			// select picks at random when Close races a queued request
			if a.ctx.Err() != nil {
				a.drop(req)
				continue
			}
			turn := a.handle(req.message)
			req.reply <- turn
			close(req.reply)
		}
	}
}

func (a *Assistant) handle(userMessage ChatMessage) Turn {
	known := a.view.Events()
	prompt := BuildPrompt(known, a.view.Coercer().Now(), userMessage.Content)

	ctx := a.ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(a.ctx, a.timeout)
		defer cancel()
	}

	reply, err := a.generator.Generate(ctx, prompt)
	if err != nil && !errors.Is(err, gemini.ErrEmptyResponse) {
		log.Errorf("Generation failed: %v", err)
		return a.finish(userMessage, KindNone, Outcome{Events: known}, ChatMessage{Content: serviceFailureMessage(err)})
	}
	if strings.TrimSpace(reply) == "" {
		log.Warn("Model returned an empty reply")
		return a.finish(userMessage, KindNone, Outcome{Events: known}, ChatMessage{Content: emptyReplyMessage})
	}
	log.Debugf("Raw model reply: %s", reply)

	action := a.parser.Parse(reply, known)
	outcome, err := a.processor.Apply(context.WithoutCancel(ctx), action, a.view)
	if err != nil {
		log.Warnf("%s action kept in memory only: %v", action.Kind, err)
	}

	replies := []ChatMessage{{
		Content:        action.Narrative,
		Event:          action.Event,
		ReadyForCommit: action.ReadyForCommit,
	}}
	if outcome.Confirmation != "" {
		replies = append(replies, ChatMessage{Content: outcome.Confirmation})
	}
	return a.finish(userMessage, action.Kind, outcome, replies...)
}

// finish stamps and appends the replies and records the action.
func (a *Assistant) finish(userMessage ChatMessage, kind ActionKind, outcome Outcome, replies ...ChatMessage) Turn {
	now := a.clock.Now()
	for i := range replies {
		replies[i].Timestamp = now
	}

	a.mu.Lock()
	a.messages = append(a.messages, replies...)
	a.lastAction = kind
	a.pending--
	a.mu.Unlock()

	return Turn{
		Messages: append([]ChatMessage{userMessage}, replies...),
		Action:   kind,
		Outcome:  outcome,
	}
}

// Messages returns a snapshot of the conversation.
func (a *Assistant) Messages() []ChatMessage {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]ChatMessage, len(a.messages))
	copy(out, a.messages)
	return out
}

// LastAction is the kind of the most recently processed action.
func (a *Assistant) LastAction() ActionKind {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastAction
}

// Busy reports whether any message is still waiting for its reply.
func (a *Assistant) Busy() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pending > 0
}

// Events is the assistant view of the collection.
func (a *Assistant) Events() []calendar.Event {
	return a.view.Events()
}

// Reload re-reads the store into the assistant view.
func (a *Assistant) Reload(ctx context.Context) error {
	return a.view.Reload(ctx)
}

func (a *Assistant) drop(req request) {
	a.mu.Lock()
	a.pending--
	a.mu.Unlock()
	close(req.reply)
}

// Close stops the worker after the message in progress, if any. Queued
// messages are dropped.
func (a *Assistant) Close() {
	a.cancel()
	<-a.done

	a.enqueue.Lock()
	defer a.enqueue.Unlock()
	for {
		select {
		case req := <-a.requests:
			a.drop(req)
		default:
			log.Debug("Assistant closed")
			return
		}
	}
}
