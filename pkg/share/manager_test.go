package share_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexdmiller/sonic-circuit/pkg/adapters/memory"
	"github.com/alexdmiller/sonic-circuit/pkg/adapters/redis"
	"github.com/alexdmiller/sonic-circuit/pkg/codec"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/ports"
	"github.com/alexdmiller/sonic-circuit/pkg/share"
)

const ring = "4_4_E5_m_1~5_4_E5_m_0"

func newManager(opts ...share.Option) *share.Manager {
	return share.NewManager(memory.NewStore(), codec.New(domain.DefaultCellSize), opts...)
}

func TestManager_PublishOpen(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	id, err := m.Publish(ctx, ring)
	require.NoError(t, err)
	assert.Len(t, id, share.IDLength)
	assert.Equal(t, share.ID(ring), id)

	token, err := m.Open(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ring, token)
}

func TestManager_PublishIsContentAddressed(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	first, err := m.Publish(ctx, ring)
	require.NoError(t, err)
	// Same circuit with a trailing separator and doubled spaces.
	second, err := m.Publish(ctx, "4__4_E5_m_1~5_4_E5_m_0~")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := m.Publish(ctx, "4_4_E5_o_1~5_4_E5_m_0")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestManager_PublishRejectsInvalid(t *testing.T) {
	m := newManager()
	_, err := m.Publish(context.Background(), "0_0_C4_z")

	var decodeErr *domain.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.ErrorIs(t, err, domain.ErrUnknownMode)
}

func TestManager_OpenMissing(t *testing.T) {
	m := newManager()
	_, err := m.Open(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrPatchNotFound)
}

func TestManager_Delete(t *testing.T) {
	m := newManager()
	ctx := context.Background()
	id, err := m.Publish(ctx, ring)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, id))
	_, err = m.Open(ctx, id)
	assert.ErrorIs(t, err, domain.ErrPatchNotFound)
}

// countingLocker records how many times it was taken and rejects overlap.
type countingLocker struct {
	held  atomic.Bool
	calls atomic.Int32
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if !l.held.CompareAndSwap(false, true) {
		return nil, errors.New("lock already held")
	}
	l.calls.Add(1)
	return func(context.Context) error {
		l.held.Store(false)
		return nil
	}, nil
}

func TestManager_SerializesConcurrentPublishes(t *testing.T) {
	locker := &countingLocker{}
	m := newManager(share.WithLocker(locker))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Publish(ctx, ring)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(20), locker.calls.Load())
}

func TestManager_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	m := share.NewManager(store, codec.New(25),
		share.WithLocker(redis.NewLocker(client, store.Prefix())),
		share.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	id, err := m.Publish(ctx, ring)
	require.NoError(t, err)
	assert.True(t, mr.Exists(redis.DefaultPrefix+id))
	assert.False(t, mr.Exists(redis.DefaultPrefix+"lock:"+id), "lock released after publish")

	token, err := m.Open(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ring, token)
}
