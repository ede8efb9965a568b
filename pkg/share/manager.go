package share

import (
	"context"
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alexdmiller/sonic-circuit/internal/logging"
	"github.com/alexdmiller/sonic-circuit/pkg/codec"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/ports"
)

// IDLength is the number of base32 characters in a patch id.
const IDLength = 12

// DefaultLockTTL bounds how long a distributed lock is held if the holder dies.
const DefaultLockTTL = 30 * time.Second

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager validates, names and stores shared circuits.
type Manager struct {
	store ports.PatchStore
	codec *codec.Codec

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over store. c decides the grid used to
// canonicalize tokens.
func NewManager(store ports.PatchStore, c *codec.Codec, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		codec:   c,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ID derives the content address of a canonical token.
func ID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return strings.ToLower(idEncoding.EncodeToString(sum[:]))[:IDLength]
}

// Canonical decodes token and encodes it again.
func (m *Manager) Canonical(token string) (string, error) {
	token, err := codec.Sanitize(token)
	if err != nil {
		return "", err
	}
	store, err := m.codec.Decode(token)
	if err != nil {
		return "", err
	}
	return m.codec.Encode(store), nil
}

// Publish stores token and returns its id. Invalid tokens are rejected with
// the codec's *domain.DecodeError.
func (m *Manager) Publish(ctx context.Context, token string) (string, error) {
	canonical, err := m.Canonical(token)
	if err != nil {
		return "", err
	}
	id := ID(canonical)

	err = m.withLock(ctx, id, func(ctx context.Context) error {
		existing, err := m.store.Load(ctx, id)
		switch {
		case err == nil && existing == canonical:
			return nil
		case err != nil && !errors.Is(err, domain.ErrPatchNotFound):
			return fmt.Errorf("check patch %s: %w", id, err)
		}
		return m.store.Save(ctx, id, canonical)
	})
	if err != nil {
		return "", err
	}
	m.logger.Info("patch published", "id", id, "bytes", len(canonical))
	return id, nil
}

// Open returns the token stored under id.
func (m *Manager) Open(ctx context.Context, id string) (string, error) {
	token, err := m.store.Load(ctx, id)
	if err != nil {
		return "", fmt.Errorf("open patch %s: %w", id, err)
	}
	return token, nil
}

// Delete removes a patch.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.withLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying patch store.
func (m *Manager) Store() ports.PatchStore {
	return m.store
}

func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

func (m *Manager) withLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)", "id", id, "err", err)
			}
		}()
	}
	return fn(ctx)
}
