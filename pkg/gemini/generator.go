package gemini

import (
	"context"
	"errors"
	"sync"
)

var ErrEmptyResponse = errors.New("model returned no text")

// Generator turns a single prompt into free text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StubGenerator replays scripted replies in order and records the prompts it
// was given. When the script runs out, Fallback is returned.
type StubGenerator struct {
	mu       sync.Mutex
	replies  []StubReply
	prompts  []string
	Fallback string
}

type StubReply struct {
	Text string
	Err  error
}

func NewStubGenerator(replies ...StubReply) *StubGenerator {
	return &StubGenerator{replies: replies}
}

// Reply queues a successful reply.
func (s *StubGenerator) Reply(text string) *StubGenerator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, StubReply{Text: text})
	return s
}

// Fail queues a failed generation.
func (s *StubGenerator) Fail(err error) *StubGenerator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, StubReply{Err: err})
	return s
}

func (s *StubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if len(s.replies) == 0 {
		return s.Fallback, nil
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	return next.Text, next.Err
}

// Prompts returns every prompt received so far.
func (s *StubGenerator) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}
