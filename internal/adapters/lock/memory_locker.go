package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/payslip_portal/internal/apperrors"
	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
)

// MemoryLocker is the single-process fallback used when no Redis is configured.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

var _ portssvc.BatchLocker = (*MemoryLocker)(nil)

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (l *MemoryLocker) Acquire(_ context.Context, batchID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[batchID]; busy {
		return nil, fmt.Errorf("%w: batch %s is locked", apperrors.ErrConflict, batchID)
	}
	l.held[batchID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, batchID)
			l.mu.Unlock()
		})
	}, nil
}
