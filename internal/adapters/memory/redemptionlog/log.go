package redemptionlog

import (
	"context"
	"sync"

	"github.com/avril-atelier/storefront-api/internal/domain"
	"github.com/avril-atelier/storefront-api/internal/ports/out/redemptionlog"
)

// Log is an in-memory implementation of redemptionlog.Log.
// It is safe for concurrent use.
type Log struct {
	mu     sync.RWMutex
	events []redemptionlog.Event
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Append(ctx context.Context, ev redemptionlog.Event) error {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

func (l *Log) ListBySubject(ctx context.Context, subject domain.SubjectID) ([]redemptionlog.Event, error) {
	_ = ctx
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]redemptionlog.Event, 0)
	for _, ev := range l.events {
		if ev.Subject == subject {
			out = append(out, ev)
		}
	}
	return out, nil
}
