package expiration

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/marianozunino/uploadpro/internal/config"
)

// Sweeper drops whatever expired at the given time and reports how much it removed
type Sweeper interface {
	Sweep(now time.Time) int
}

// ExpirationManager runs a sweeper periodically in the background
type ExpirationManager struct {
	sweeper  Sweeper
	interval time.Duration
	now      func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewExpirationManager creates a manager that sweeps every check interval
func NewExpirationManager(cfg *config.Config, sweeper Sweeper) (*ExpirationManager, error) {
	if cfg.CheckInterval <= 0 {
		return nil, fmt.Errorf("check_interval_min must be greater than 0")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session_ttl_min must be greater than 0")
	}
	return &ExpirationManager{
		sweeper:  sweeper,
		interval: cfg.CheckEvery(),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins the expiration checking process
func (m *ExpirationManager) Start() {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.RunOnce()
			case <-m.stopChan:
				log.Println("Expiration manager stopped")
				return
			}
		}
	}()
	log.Printf("Expiration manager started, checking every %v", m.interval)
}

// RunOnce performs a single sweep
func (m *ExpirationManager) RunOnce() int {
	return m.sweeper.Sweep(m.now())
}

// Stop halts the expiration checking process. Calling it twice is harmless.
func (m *ExpirationManager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}
