package admin

import (
	"sync"
	"time"
)

// attemptWindow — за какой период считаются неудачные попытки.
const attemptWindow = time.Hour

// attempts — неудачные попытки входа по клиенту, в памяти процесса.
type attempts struct {
	mu     sync.Mutex
	failed map[string][]time.Time
	now    func() time.Time
}

func newAttempts() *attempts {
	return &attempts{failed: make(map[string][]time.Time), now: time.Now}
}

// recent — число неудачных попыток клиента за attemptWindow.
func (a *attempts) recent(client string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.prune(client))
}

func (a *attempts) fail(client string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failed[client] = append(a.prune(client), a.now())
}

func (a *attempts) reset(client string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.failed, client)
}

func (a *attempts) prune(client string) []time.Time {
	cutoff := a.now().Add(-attemptWindow)
	var kept []time.Time
	for _, t := range a.failed[client] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(a.failed, client)
		return nil
	}
	a.failed[client] = kept
	return kept
}
