package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var ErrClosed = errors.New("session closed")

// Session holds the current Result for a single document.  Each Update
// supersedes and releases the previous Result.
type Session struct {
	eng Engine

	mu      sync.Mutex
	current *Result
	closed  bool
}

func NewSession(eng Engine) *Session {
	return &Session{eng: eng}
}

// Update parses source and makes the decoded result current.  On error
// the previous result stays current.
func (s *Session) Update(ctx context.Context, source []byte) (*Result, error) {
	out, err := s.eng.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	res, err := Decode(out)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		res.Release()
		return nil, ErrClosed
	}
	prev := s.current
	s.current = res
	if prev != nil {
		if err := prev.Release(); err != nil {
			slog.Warn("releasing superseded result", "error", err)
		}
	}
	return res, nil
}

// Current returns the live result, or nil.
func (s *Session) Current() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close releases the live result.  Later updates fail with ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	cur := s.current
	s.current = nil
	if cur == nil {
		return nil
	}
	return cur.Release()
}
