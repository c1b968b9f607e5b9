package fsmkit

import (
	"context"
	"sync"
)

// Change describes one committed transition as delivered to Watch
// subscribers.
type Change struct {
	From State
	To   State
}

// Watch returns a channel that delivers every transition committed after
// the call. The subscription lives until ctx is cancelled, at which point
// the channel is closed. Each subscriber has its own buffer (see
// WithWatchBuffer); when it is full, changes are dropped for that
// subscriber rather than blocking Switch.
func (m *Machine) Watch(ctx context.Context) <-chan Change {
	return m.watchers.subscribe(ctx, m.watchBuffer)
}

// watcherSet fans committed transitions out to subscriber channels.
// Sends never block: a full buffer drops the change, and the slow
// subscriber keeps its subscription.
type watcherSet struct {
	mu       sync.RWMutex
	watchers map[*watcher]struct{}
}

type watcher struct {
	ch chan Change
}

func newWatcherSet() *watcherSet {
	return &watcherSet{watchers: make(map[*watcher]struct{})}
}

func (s *watcherSet) subscribe(ctx context.Context, buffer int) <-chan Change {
	w := &watcher{ch: make(chan Change, max(buffer, 1))}

	s.mu.Lock()
	s.watchers[w] = struct{}{}
	s.mu.Unlock()

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			s.unsubscribe(w)
		}()
	}
	return w.ch
}

// unsubscribe closes the channel under the write lock, so it can never
// race a publish in flight.
func (s *watcherSet) unsubscribe(w *watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watchers[w]; !ok {
		return
	}
	delete(s.watchers, w)
	close(w.ch)
}

func (s *watcherSet) publish(c Change) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for w := range s.watchers {
		select {
		case w.ch <- c:
		default:
		}
	}
}
