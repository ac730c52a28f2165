package adapter

import (
	"sync"

	"github.com/1ureka/roswebrtc/internal/media"
	"github.com/1ureka/roswebrtc/internal/util"
)

// correlation matches inbound tracks to the requests that asked for them.
// Every entry is removed when it fires.
type correlation struct {
	mu       sync.Mutex
	closed   bool
	done     chan struct{}
	streams  map[string]*Future[*Subscription] // pending, by stream id
	removals map[string]*Future[media.Track]   // by track id
	resolved map[string]*Stream                // by stream id
}

func newCorrelation() *correlation {
	return &correlation{
		done:     make(chan struct{}),
		streams:  make(map[string]*Future[*Subscription]),
		removals: make(map[string]*Future[media.Track]),
		resolved: make(map[string]*Stream),
	}
}

// expect registers a wait for streamID.
func (c *correlation) expect(streamID string) (*Future[*Subscription], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if _, ok := c.streams[streamID]; ok {
		return nil, ErrStreamPending
	}
	if _, ok := c.resolved[streamID]; ok {
		return nil, ErrStreamPending
	}

	f := newFuture[*Subscription]()
	c.streams[streamID] = f
	return f, nil
}

// resolve routes an inbound track. It reports whether the track settled a
// pending request. Tracks of an already resolved stream join its handle.
func (c *correlation) resolve(t media.Track) bool {
	sid := t.StreamID()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}

	if s, ok := c.resolved[sid]; ok {
		s.add(t)
		c.mu.Unlock()
		util.LogDebug("track %s joined stream %s", t.ID(), sid)
		go c.watch(s, t)
		return false
	}

	f, ok := c.streams[sid]
	if !ok {
		c.mu.Unlock()
		util.LogDebug("ignoring track %s of unrequested stream %s", t.ID(), sid)
		return false
	}
	delete(c.streams, sid)

	s := &Stream{ID: sid, tracks: []media.Track{t}}
	c.resolved[sid] = s

	removed := newFuture[media.Track]()
	c.removals[t.ID()] = removed
	c.mu.Unlock()

	go c.watch(s, t)
	return f.resolve(&Subscription{Stream: s, Removed: removed})
}

func (c *correlation) watch(s *Stream, t media.Track) {
	select {
	case <-t.Done():
		c.trackRemoved(s, t)
	case <-c.done:
	}
}

func (c *correlation) trackRemoved(s *Stream, t media.Track) {
	c.mu.Lock()
	f, ok := c.removals[t.ID()]
	if ok {
		delete(c.removals, t.ID())
	}
	if s.remove(t) == 0 && c.resolved[s.ID] == s {
		delete(c.resolved, s.ID)
	}
	c.mu.Unlock()

	util.LogDebug("track %s of stream %s removed", t.ID(), s.ID)
	if ok && f.resolve(t) {
		util.Stats.AddRemoved()
	}
}

// rejectAll fails every outstanding wait with err and refuses new ones.
func (c *correlation) rejectAll(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)

	streams, removals := c.streams, c.removals
	c.streams = make(map[string]*Future[*Subscription])
	c.removals = make(map[string]*Future[media.Track])
	c.resolved = make(map[string]*Stream)
	c.mu.Unlock()

	for _, f := range streams {
		f.reject(err)
	}
	for _, f := range removals {
		f.reject(err)
	}
}

// pending reports the number of unresolved stream waits.
func (c *correlation) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.streams)
}
