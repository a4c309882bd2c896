package expiration

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/marianozunino/uploadpro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	last  atomic.Int64
}

func (s *countingSweeper) Sweep(now time.Time) int {
	s.calls.Add(1)
	s.last.Store(now.UnixNano())
	return 1
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.CheckInterval = 1
	cfg.SessionTTL = 30
	return cfg
}

func TestNewExpirationManager(t *testing.T) {
	manager, err := NewExpirationManager(testConfig(), &countingSweeper{})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, manager.interval)
}

func TestNewExpirationManagerValidation(t *testing.T) {
	cfg := testConfig()
	cfg.CheckInterval = 0
	_, err := NewExpirationManager(cfg, &countingSweeper{})
	assert.Error(t, err)

	cfg = testConfig()
	cfg.SessionTTL = -1
	_, err = NewExpirationManager(cfg, &countingSweeper{})
	assert.Error(t, err)
}

func TestRunOnceUsesManagerTime(t *testing.T) {
	sweeper := &countingSweeper{}
	manager, err := NewExpirationManager(testConfig(), sweeper)
	require.NoError(t, err)

	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return fixed }

	assert.Equal(t, 1, manager.RunOnce())
	assert.Equal(t, int32(1), sweeper.calls.Load())
	assert.Equal(t, fixed.UnixNano(), sweeper.last.Load())
}

func TestStartAndStop(t *testing.T) {
	sweeper := &countingSweeper{}
	manager, err := NewExpirationManager(testConfig(), sweeper)
	require.NoError(t, err)
	manager.interval = 5 * time.Millisecond

	manager.Start()
	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	manager.Stop()
	manager.Stop()
}
