package session

import (
	"context"
	"sync"
)

// EventType marks a session transition.
type EventType string

const (
	SignedIn  EventType = "signed_in"
	SignedOut EventType = "signed_out"
)

// Event is delivered to subscribers on every session transition. OAuth
// callbacks complete asynchronously relative to the login redirect, so
// interested components listen here instead of polling.
type Event struct {
	Type    EventType
	Token   string
	Profile Profile
}

// Cache is the process-wide session state: an in-memory mirror of the
// durable store plus a change-notification channel. A token that resolves
// to no profile is anonymous; after Deactivate any pending use of the
// token fails authentication.
type Cache struct {
	mu      sync.RWMutex
	store   Store
	active  map[string]Profile
	subs    map[int]chan Event
	nextSub int
}

func NewCache(store Store) *Cache {
	return &Cache{
		store:  store,
		active: make(map[string]Profile),
		subs:   make(map[int]chan Event),
	}
}

// Activate transitions anonymous -> authenticated: the session is written
// to durable storage first, then mirrored in memory, then announced.
func (c *Cache) Activate(ctx context.Context, token string, profile Profile) error {
	if err := c.store.Save(ctx, token, profile); err != nil {
		return err
	}

	c.mu.Lock()
	c.active[token] = profile
	c.mu.Unlock()

	c.notify(Event{Type: SignedIn, Token: token, Profile: profile})
	return nil
}

// Resolve looks up the profile for a token. Misses fall back to durable
// storage so sessions survive a process restart; absent or corrupt entries
// resolve to anonymous (nil, nil).
func (c *Cache) Resolve(ctx context.Context, token string) (*Profile, error) {
	c.mu.RLock()
	profile, ok := c.active[token]
	c.mu.RUnlock()
	if ok {
		return &profile, nil
	}

	stored, err := c.store.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}

	c.mu.Lock()
	c.active[token] = *stored
	c.mu.Unlock()
	return stored, nil
}

// Deactivate transitions authenticated -> anonymous: durable storage is
// cleared, the memory mirror dropped, and the sign-out announced.
func (c *Cache) Deactivate(ctx context.Context, token string) error {
	profile, err := c.Resolve(ctx, token)
	if err != nil {
		return err
	}

	if err := c.store.Delete(ctx, token); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.active, token)
	c.mu.Unlock()

	ev := Event{Type: SignedOut, Token: token}
	if profile != nil {
		ev.Profile = *profile
	}
	c.notify(ev)
	return nil
}

// Subscribe returns a channel of session transitions and an unsubscribe
// function. Teardown = unsubscribe; slow consumers miss events rather
// than blocking transitions.
func (c *Cache) Subscribe() (<-chan Event, func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan Event, 8)
	c.subs[id] = ch
	c.mu.Unlock()

	unsubscribe := func() {
		c.mu.Lock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
		c.mu.Unlock()
	}
	return ch, unsubscribe
}

func (c *Cache) notify(ev Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
