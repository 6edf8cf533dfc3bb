package sessionservice

import (
	"context"
	"errors"
	"lending/services/snapshot"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// Holder keeps the one session of a single-user client and persists it in
// the snapshot store until logout.
type Holder struct {
	service SessionService
	store   snapshot.Repository
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.RWMutex
	current *Session
}

func NewHolder(service SessionService, store snapshot.Repository, logger *zap.Logger) *Holder {
	return &Holder{service: service, store: store, logger: logger, now: time.Now}
}

// Restore loads the persisted session. An expired one is discarded.
func (h *Holder) Restore(ctx context.Context) (Session, error) {
	snap, err := h.store.Load(ctx, snapshot.SessionSnapshot)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	var s Session
	if err := jsoniter.Unmarshal(snap.Payload, &s); err != nil || s.Token == "" {
		h.logger.Warn("discarding unreadable session snapshot", zap.Error(err))
		_ = h.store.Delete(ctx, snapshot.SessionSnapshot)
		return Session{}, ErrNoSession
	}
	if s.Expired(h.now()) {
		_ = h.store.Delete(ctx, snapshot.SessionSnapshot)
		return Session{}, ErrExpired
	}
	h.set(&s)
	return s, nil
}

func (h *Holder) Login(ctx context.Context, username, password string) (Session, error) {
	s, err := h.service.Login(ctx, LoginReq{Username: username, Password: password})
	if err != nil {
		return Session{}, err
	}
	return s, h.persist(ctx, s)
}

func (h *Holder) Signup(ctx context.Context, req SignupReq) (Session, error) {
	s, err := h.service.Signup(ctx, req)
	if err != nil {
		return Session{}, err
	}
	return s, h.persist(ctx, s)
}

// Logout always clears the local session; a failed remote logout is
// reported after the fact.
func (h *Holder) Logout(ctx context.Context) error {
	h.mu.Lock()
	current := h.current
	h.current = nil
	h.mu.Unlock()

	if err := h.store.Delete(ctx, snapshot.SessionSnapshot); err != nil {
		h.logger.Warn("failed to delete session snapshot", zap.Error(err))
	}
	if current == nil {
		return ErrNoSession
	}
	return h.service.Logout(ctx, *current)
}

func (h *Holder) Current() (Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil || h.current.Expired(h.now()) {
		return Session{}, false
	}
	return *h.current, true
}

// Context returns ctx carrying the current session.
func (h *Holder) Context(ctx context.Context) (context.Context, error) {
	s, ok := h.Current()
	if !ok {
		return ctx, ErrNoSession
	}
	return NewContext(ctx, s), nil
}

func (h *Holder) persist(ctx context.Context, s Session) error {
	h.set(&s)
	payload, err := jsoniter.Marshal(s)
	if err != nil {
		return err
	}
	return h.store.Save(ctx, snapshot.SessionSnapshot, payload)
}

func (h *Holder) set(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = s
}
