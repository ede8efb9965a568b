package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	circuit "github.com/alexdmiller/sonic-circuit"
	"github.com/alexdmiller/sonic-circuit/internal/config"
	"github.com/alexdmiller/sonic-circuit/internal/logging"
	"github.com/alexdmiller/sonic-circuit/pkg/adapters/file"
)

const pairToken = "0_0_C4_m_1~1_0_G4_m"

func TestEngineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.CellSize = 40
	cfg.Speed = 4

	eng, err := circuit.New(EngineOptions(cfg)...)
	require.NoError(t, err)
	assert.Equal(t, 40.0, eng.CellSize())
	assert.Equal(t, 4.0, eng.Speed())
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "debug"
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), -4))

	cfg.Log.Level = "loud"
	_, err = NewLogger(cfg)
	assert.Error(t, err)
}

func TestOpenShares(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"memory", func(c *config.Config) { c.Store.Driver = "memory" }},
		{"file", func(c *config.Config) {
			c.Store.Driver = "file"
			c.Store.Dir = t.TempDir()
		}},
		{"redis", func(c *config.Config) {
			c.Store.Driver = "redis"
			c.Redis.Addr = mr.Addr()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)

			shares, closer, err := OpenShares(context.Background(), cfg, logging.NewNop())
			require.NoError(t, err)
			defer closer()

			id, err := shares.Publish(context.Background(), pairToken)
			require.NoError(t, err)
			token, err := shares.Open(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, pairToken, token)
		})
	}
}

func TestOpenShares_Encrypted(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Store.Dir = t.TempDir()
	cfg.Store.EncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	shares, closer, err := OpenShares(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	defer closer()

	id, err := shares.Publish(ctx, pairToken)
	require.NoError(t, err)
	token, err := shares.Open(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pairToken, token)

	raw, err := file.New(cfg.Store.Dir).Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "enc:v1:"))

	cfg.Store.EncryptionKey = "short"
	_, _, err = OpenShares(ctx, cfg, logging.NewNop())
	assert.ErrorContains(t, err, "invalid store encryption key")
}

func TestOpenShares_Errors(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "s3"
	_, _, err := OpenShares(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "unknown store driver")

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg.Store.Driver = "redis"
	cfg.Redis.Addr = addr
	_, _, err = OpenShares(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "failed to connect to redis")
}
