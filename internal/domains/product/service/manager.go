package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"productstore-backend/internal/config"
	"productstore-backend/internal/domains/product/model"
	"productstore-backend/internal/domains/product/repository"
	"productstore-backend/internal/session"
	"productstore-backend/pkg/logger"
)

// Sessions that lapse via the store TTL never emit a sign-out event, so
// idle workspaces are swept out on the same horizon.
const (
	workspaceIdleTTL       = config.SessionTTLHours * time.Hour
	workspaceSweepInterval = time.Hour
)

// Manager hands out one Workspace per owner and tears them down when the
// session cache announces a sign-out, so a token that was logged out can
// no longer reach a live workspace.
type Manager struct {
	mu         sync.Mutex
	workspaces map[uuid.UUID]*workspaceEntry

	store    repository.Repository
	objects  ObjectStore
	images   ImageProcessor
	sessions *session.Cache

	unsubscribe func()
	done        chan struct{}
}

type workspaceEntry struct {
	ws       *Workspace
	lastUsed time.Time
}

func NewManager(store repository.Repository, objects ObjectStore, images ImageProcessor, sessions *session.Cache) *Manager {
	m := &Manager{
		workspaces: make(map[uuid.UUID]*workspaceEntry),
		store:      store,
		objects:    objects,
		images:     images,
		sessions:   sessions,
		done:       make(chan struct{}),
	}

	events, unsubscribe := sessions.Subscribe()
	m.unsubscribe = unsubscribe
	go m.watchSessions(events)
	go m.sweepIdle()

	return m
}

// Workspace resolves the session token and returns the owner's workspace,
// creating it on first use. An unresolvable token fails with
// ErrNotAuthenticated before any remote call.
func (m *Manager) Workspace(ctx context.Context, token string) (*Workspace, error) {
	profile, err := m.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, model.ErrNotAuthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.workspaces[profile.UserID]
	if !ok {
		entry = &workspaceEntry{ws: newWorkspace(profile.UserID, m.store, m.objects, m.images)}
		m.workspaces[profile.UserID] = entry
	}
	entry.lastUsed = time.Now()
	return entry.ws, nil
}

func (m *Manager) watchSessions(events <-chan session.Event) {
	for ev := range events {
		if ev.Type != session.SignedOut {
			continue
		}

		m.mu.Lock()
		delete(m.workspaces, ev.Profile.UserID)
		m.mu.Unlock()

		logger.Info("workspace dropped on sign-out", map[string]interface{}{
			"user_id": ev.Profile.UserID,
		})
	}
}

func (m *Manager) sweepIdle() {
	ticker := time.NewTicker(workspaceSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.evictIdle(time.Now())
		}
	}
}

// evictIdle drops workspaces not touched within the session lifetime.
// Their tokens no longer resolve, so nothing can still reach them.
func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ownerID, entry := range m.workspaces {
		if now.Sub(entry.lastUsed) > workspaceIdleTTL {
			delete(m.workspaces, ownerID)
		}
	}
}

// Close stops the session listener and the idle sweeper.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	close(m.done)
}
