package jobs

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Pinger is a dependency the probe can check
type Pinger interface {
	Ping(ctx context.Context) error
}

// UpRecorder receives the result of each probe
type UpRecorder interface {
	SetDependencyUp(dependency string, up bool)
}

// DependencyProbe periodically pings the store and cache, records whether
// each is reachable, and logs when that changes
type DependencyProbe struct {
	deps     map[string]Pinger
	names    []string
	recorder UpRecorder
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex

	stateMu sync.Mutex
	lastUp  map[string]bool
}

// DependencyProbeConfig holds configuration for the probe
type DependencyProbeConfig struct {
	Dependencies map[string]Pinger
	Recorder     UpRecorder
	Logger       *slog.Logger
	Interval     time.Duration
	Timeout      time.Duration
}

// NewDependencyProbe creates a new dependency probe job. Nil dependencies are skipped.
func NewDependencyProbe(cfg DependencyProbeConfig) *DependencyProbe {
	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	deps := make(map[string]Pinger, len(cfg.Dependencies))
	names := make([]string, 0, len(cfg.Dependencies))
	for name, p := range cfg.Dependencies {
		if p == nil {
			continue
		}
		deps[name] = p
		names = append(names, name)
	}
	sort.Strings(names)

	return &DependencyProbe{
		deps:     deps,
		names:    names,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		stopCh:   make(chan struct{}),
		lastUp:   make(map[string]bool, len(deps)),
	}
}

// Start begins probing in the background
func (p *DependencyProbe) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run()
	p.logger.Info("dependency probe started",
		slog.Duration("interval", p.interval),
		slog.Any("dependencies", p.names),
	)
}

// Stop gracefully stops the probe
func (p *DependencyProbe) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)
	p.wg.Wait()
	p.logger.Info("dependency probe stopped")
}

func (p *DependencyProbe) run() {
	defer p.wg.Done()

	p.RunOnce(context.Background())

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.RunOnce(context.Background())
		case <-p.stopCh:
			return
		}
	}
}

// RunOnce pings every dependency once and returns the reachability of each
func (p *DependencyProbe) RunOnce(ctx context.Context) map[string]bool {
	result := make(map[string]bool, len(p.names))
	for _, name := range p.names {
		pingCtx, cancel := context.WithTimeout(ctx, p.timeout)
		err := p.deps[name].Ping(pingCtx)
		cancel()

		up := err == nil
		result[name] = up
		if p.recorder != nil {
			p.recorder.SetDependencyUp(name, up)
		}
		p.logTransition(name, up, err)
	}
	return result
}

// logTransition logs only when a dependency changes state, and the first
// time it is found down
func (p *DependencyProbe) logTransition(name string, up bool, err error) {
	p.stateMu.Lock()
	prev, seen := p.lastUp[name]
	p.lastUp[name] = up
	p.stateMu.Unlock()

	switch {
	case !up && (!seen || prev):
		p.logger.Warn("dependency unreachable",
			slog.String("dependency", name),
			slog.String("error", err.Error()),
		)
	case up && seen && !prev:
		p.logger.Info("dependency recovered", slog.String("dependency", name))
	}
}

// IsRunning returns whether the probe is running
func (p *DependencyProbe) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
