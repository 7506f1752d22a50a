// ABOUTME: Subscriptions delivering cache entry snapshots to screens
// ABOUTME: Closing the last subscription cancels interval refetch and arms GC

package query

import "time"

// Subscription is one screen's attachment to a cache entry. Updates
// always holds the most recent snapshot; stale intermediate snapshots
// are dropped rather than queued.
type Subscription struct {
	cache  *Cache
	entry  *entry
	ch     chan Result
	closed bool
}

// Updates yields entry snapshots. The channel is closed by Close.
func (s *Subscription) Updates() <-chan Result {
	return s.ch
}

// push replaces any undelivered snapshot with r. Called with the cache
// mutex held, so pushes never race each other.
func (s *Subscription) push(r Result) {
	if s.closed {
		return
	}
	select {
	case s.ch <- r:
	default:
		select {
		case <-s.ch:
		default:
		}
		s.ch <- r
	}
}

// Close detaches from the entry. When the last subscriber leaves, the
// interval refetch stops immediately and the entry is scheduled for
// eviction after the GC delay.
func (s *Subscription) Close() {
	c := s.cache
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)

	e := s.entry
	if e == nil {
		return
	}
	delete(e.subs, s)
	if len(e.subs) == 0 {
		if e.stopInterval != nil {
			close(e.stopInterval)
			e.stopInterval = nil
		}
		key := e.key.String()
		entryRef := e
		e.gcTimer = time.AfterFunc(c.gcTime(e.opts), func() {
			c.evict(key, entryRef)
		})
	}
}
