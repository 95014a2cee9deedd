package discord

import (
	"sync"
	"time"
)

// userLimiter deja pasar un click por usuario por ventana.
type userLimiter struct {
	mu   sync.Mutex
	next map[string]time.Time
	win  time.Duration
	now  func() time.Time
}

func newUserLimiter(window time.Duration) *userLimiter {
	return &userLimiter{next: map[string]time.Time{}, win: window, now: time.Now}
}

func (l *userLimiter) Allow(userID string) bool {
	if l == nil || l.win <= 0 {
		return true
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.next[userID]; ok && now.Before(until) {
		return false
	}
	l.next[userID] = now.Add(l.win)
	if len(l.next) > 1024 {
		l.sweep(now)
	}
	return true
}

// sweep borra las ventanas vencidas; se llama con mu tomado.
func (l *userLimiter) sweep(now time.Time) {
	for id, until := range l.next {
		if !now.Before(until) {
			delete(l.next, id)
		}
	}
}
