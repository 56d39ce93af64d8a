package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"illustraBack/internal/models"
	"illustraBack/utils"
)

// Authenticator checks admin credentials against an identity provider.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (models.Identity, error)
}

// Logger provides minimal logging required by the gateway.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Gateway owns the in-memory admin sessions. Sessions are created on
// sign-in and destroyed on sign-out or expiry; listeners hear about every
// such change.
type Gateway struct {
	auth   Authenticator
	tokens *utils.Manager
	ttl    time.Duration
	logger Logger
	now    func() time.Time

	mu        sync.Mutex
	sessions  map[string]models.Session
	listeners map[uint64]func(models.SessionEvent)
	nextID    uint64
}

func NewGateway(auth Authenticator, tokens *utils.Manager, ttl time.Duration, logger Logger) *Gateway {
	return &Gateway{
		auth:      auth,
		tokens:    tokens,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]models.Session),
		listeners: make(map[uint64]func(models.SessionEvent)),
	}
}

// SignIn authenticates the admin and opens a session.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (models.Session, error) {
	if email == "" || password == "" {
		return models.Session{}, fmt.Errorf("%w: email and password are required", models.ErrInvalidCredentials)
	}
	identity, err := g.auth.Authenticate(ctx, email, password)
	if err != nil {
		if !errors.Is(err, models.ErrInvalidCredentials) {
			g.logger.Errorf("sign-in for %s: %v", email, err)
		}
		return models.Session{}, err
	}

	now := g.now()
	s := models.Session{
		ID:        uuid.NewString(),
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(g.ttl),
	}
	s.Token, err = g.tokens.NewJWT(s.ID, g.ttl)
	if err != nil {
		return models.Session{}, fmt.Errorf("sign session token: %w", err)
	}

	g.mu.Lock()
	g.sessions[s.ID] = s
	g.mu.Unlock()

	g.logger.Infof("admin %s signed in (session %s)", identity.Email, s.ID)
	id := identity
	g.emit(models.SessionEvent{SessionID: s.ID, Identity: &id})
	return s, nil
}

// SignOut destroys the session behind token.
func (g *Gateway) SignOut(_ context.Context, token string) error {
	s, err := g.session(token)
	if err != nil {
		return err
	}
	g.end(s.ID)
	g.logger.Infof("admin %s signed out (session %s)", s.Identity.Email, s.ID)
	return nil
}

// Current returns the identity signed in under token, if any.
func (g *Gateway) Current(token string) (*models.Identity, bool) {
	s, err := g.session(token)
	if err != nil {
		return nil, false
	}
	id := s.Identity
	return &id, true
}

// Session resolves a token to its live session.
func (g *Gateway) Session(token string) (models.Session, error) {
	return g.session(token)
}

func (g *Gateway) session(token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, models.ErrUnauthenticated
	}
	id, err := g.tokens.Parse(token)
	if err != nil {
		return models.Session{}, models.ErrUnauthenticated
	}

	g.mu.Lock()
	s, ok := g.sessions[id]
	g.mu.Unlock()
	if !ok {
		return models.Session{}, models.ErrUnauthenticated
	}
	if s.Expired(g.now()) {
		g.end(id)
		return models.Session{}, models.ErrSessionExpired
	}
	return s, nil
}

// end drops a session and announces "none" once.
func (g *Gateway) end(id string) {
	g.mu.Lock()
	_, ok := g.sessions[id]
	delete(g.sessions, id)
	g.mu.Unlock()
	if ok {
		g.emit(models.SessionEvent{SessionID: id})
	}
}

// ExpireSessions ends every session past its expiry and reports how many.
func (g *Gateway) ExpireSessions() int {
	now := g.now()
	var expired []string
	g.mu.Lock()
	for id, s := range g.sessions {
		if s.Expired(now) {
			expired = append(expired, id)
		}
	}
	g.mu.Unlock()

	for _, id := range expired {
		g.end(id)
	}
	return len(expired)
}

// Subscribe registers fn for session changes. The returned function
// unsubscribes and may be called more than once.
func (g *Gateway) Subscribe(fn func(models.SessionEvent)) func() {
	g.mu.Lock()
	g.nextID++
	id := g.nextID
	g.listeners[id] = fn
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.listeners, id)
			g.mu.Unlock()
		})
	}
}

func (g *Gateway) emit(ev models.SessionEvent) {
	g.mu.Lock()
	fns := make([]func(models.SessionEvent), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
