package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	circuit "github.com/alexdmiller/sonic-circuit"
	"github.com/alexdmiller/sonic-circuit/internal/config"
	"github.com/alexdmiller/sonic-circuit/internal/logging"
	"github.com/alexdmiller/sonic-circuit/pkg/adapters/file"
	"github.com/alexdmiller/sonic-circuit/pkg/adapters/memory"
	"github.com/alexdmiller/sonic-circuit/pkg/adapters/redis"
	"github.com/alexdmiller/sonic-circuit/pkg/codec"
	"github.com/alexdmiller/sonic-circuit/pkg/persistence/middleware"
	"github.com/alexdmiller/sonic-circuit/pkg/ports"
	"github.com/alexdmiller/sonic-circuit/pkg/share"
)

// NewLogger builds the application logger from cfg. Logs go to stderr so
// stdout stays free for frames, tokens and diagrams.
func NewLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, level, cfg.Log.Format), nil
}

// EngineOptions maps cfg onto engine options. A zero seed keeps random
// dispatch unseeded.
func EngineOptions(cfg config.Config) []circuit.Option {
	opts := []circuit.Option{
		circuit.WithCellSize(cfg.CellSize),
		circuit.WithSpeed(cfg.Speed),
	}
	if cfg.Seed != 0 {
		opts = append(opts, circuit.WithSeed(cfg.Seed))
	}
	return opts
}

// Closer releases whatever OpenShares opened.
type Closer func() error

// OpenShares builds the share manager on the store selected by
// cfg.Store.Driver. The redis driver also enables distributed locking and
// fails fast if the server is unreachable. A configured encryption key wraps
// the store so patches are encrypted at rest.
func OpenShares(ctx context.Context, cfg config.Config, logger *slog.Logger) (*share.Manager, Closer, error) {
	var (
		store  ports.PatchStore
		locker ports.DistributedLocker
		closer Closer = func() error { return nil }
	)

	switch cfg.Store.Driver {
	case "", "memory":
		store = memory.NewStore()
	case "file":
		store = file.New(cfg.Store.Dir)
	case "redis":
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		store = rs
		locker = redis.NewLocker(rs.Client(), rs.Prefix())
		closer = rs.Close
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if cfg.Store.EncryptionKey != "" {
		keys, err := middleware.ParseKeys(cfg.Store.EncryptionKey, cfg.Store.PreviousKeys...)
		if err != nil {
			_ = closer()
			return nil, nil, fmt.Errorf("invalid store encryption key: %w", err)
		}
		encrypt, err := middleware.NewEncryptionMiddleware(keys)
		if err != nil {
			_ = closer()
			return nil, nil, err
		}
		store = middleware.Chain(store, encrypt)
	}
	logger.Debug("patch store ready", "driver", cfg.Store.Driver, "encrypted", cfg.Store.EncryptionKey != "")

	opts := []share.Option{share.WithLogger(logger)}
	if locker != nil {
		opts = append(opts, share.WithLocker(locker))
	}
	return share.NewManager(store, codec.New(cfg.CellSize), opts...), closer, nil
}
