package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sevigo/build-warden/internal/core"
)

// ErrCycleInProgress is returned when a cycle is requested for a poller whose
// previous cycle has not finished.
var ErrCycleInProgress = errors.New("a poll cycle is already running")

// Poller runs cycles for one polling configuration, on a timer and on demand.
// Cycles of the same poller never overlap.
type Poller struct {
	cfg          core.PollerConfig
	orchestrator *Orchestrator
	interval     time.Duration
	logger       *slog.Logger

	cycle sync.Mutex // held while a cycle runs

	mu         sync.Mutex
	running    bool
	cancelFunc context.CancelFunc
	stopCh     chan struct{}
	doneCh     chan struct{}
	lastReport *core.CycleReport
	lastErr    error
}

// NewPoller creates a poller. It does nothing until Start or RunOnce is called.
func NewPoller(cfg core.PollerConfig, orchestrator *Orchestrator, interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		cfg:          cfg,
		orchestrator: orchestrator,
		interval:     interval,
		logger:       logger.With("poller", cfg.Name),
	}
}

// Name returns the poller's configuration name.
func (p *Poller) Name() string { return p.cfg.Name }

// Config returns the polling configuration.
func (p *Poller) Config() core.PollerConfig { return p.cfg }

// RunOnce runs a single cycle, or returns ErrCycleInProgress immediately.
func (p *Poller) RunOnce(ctx context.Context) (*core.CycleReport, error) {
	if !p.cycle.TryLock() {
		return nil, ErrCycleInProgress
	}
	defer p.cycle.Unlock()

	report, err := p.orchestrator.RunCycle(ctx, p.cfg)

	p.mu.Lock()
	p.lastReport = report
	p.lastErr = err
	p.mu.Unlock()
	return report, err
}

// LastReport returns the result of the most recent cycle.
func (p *Poller) LastReport() (*core.CycleReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastReport, p.lastErr
}

// Start begins polling: one cycle immediately, then one per interval.
func (p *Poller) Start(parent context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("poller %s already running", p.cfg.Name)
	}
	if p.interval <= 0 {
		return fmt.Errorf("poller %s has no valid interval", p.cfg.Name)
	}

	ctx, cancel := context.WithCancel(parent)
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.cancelFunc = cancel
	p.running = true

	go p.run(ctx, p.stopCh, p.doneCh)

	p.logger.Info("poller started", "interval", p.interval, "job", p.cfg.TargetJob)
	return nil
}

// Stop cancels the current cycle and waits for the loop to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	stopCh := p.stopCh
	doneCh := p.doneCh
	cancel := p.cancelFunc
	p.running = false
	p.mu.Unlock()

	cancel()
	close(stopCh)
	<-doneCh
	p.logger.Info("poller stopped")
}

// HealthCheck reports whether the poller runs and its last cycle succeeded.
func (p *Poller) HealthCheck() (bool, string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return false, "not running"
	}
	if p.lastErr != nil {
		return false, "last cycle failed: " + p.lastErr.Error()
	}
	return true, "running"
}

func (p *Poller) run(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	_, err := p.RunOnce(ctx)
	switch {
	case errors.Is(err, ErrCycleInProgress):
		p.logger.Debug("skipping tick, previous cycle still running")
	case err != nil:
		p.logger.Error("poll cycle failed", "error", err)
	}
}

// Manager owns the pollers of all configurations.
type Manager struct {
	pollers map[string]*Poller
	logger  *slog.Logger
}

// NewManager creates one poller per configuration, sharing the orchestrator.
func NewManager(cfgs []core.PollerConfig, orchestrator *Orchestrator, interval time.Duration, logger *slog.Logger) *Manager {
	m := &Manager{
		pollers: make(map[string]*Poller, len(cfgs)),
		logger:  logger,
	}
	for _, cfg := range cfgs {
		m.pollers[cfg.Name] = NewPoller(cfg, orchestrator, interval, logger)
	}
	return m
}

// Get returns the poller with the given name.
func (m *Manager) Get(name string) (*Poller, bool) {
	p, ok := m.pollers[name]
	return p, ok
}

// Pollers returns all pollers ordered by name.
func (m *Manager) Pollers() []*Poller {
	list := make([]*Poller, 0, len(m.pollers))
	for _, p := range m.pollers {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Start starts every poller. Pollers started before a failure are stopped again.
func (m *Manager) Start(ctx context.Context) error {
	var started []*Poller
	for _, p := range m.Pollers() {
		if err := p.Start(ctx); err != nil {
			for _, s := range started {
				s.Stop()
			}
			return err
		}
		started = append(started, p)
	}
	return nil
}

// Stop stops every poller and waits for in-flight cycles to return.
func (m *Manager) Stop() {
	var wg sync.WaitGroup
	for _, p := range m.pollers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Stop()
		}()
	}
	wg.Wait()
	m.logger.Info("all pollers stopped")
}
