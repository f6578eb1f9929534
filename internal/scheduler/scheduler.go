// Package scheduler runs the periodic sweep that wakes autonomous
// agents. A single sweeper instance holds a file lock so overlapping
// processes do not double-invoke agents, and a per-agent mutex keeps
// concurrent invocations of the same agent serialized.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/agorahq/agora/internal/orchestrator"
	"github.com/agorahq/agora/internal/store"
)

// Config controls the sweep loop.
type Config struct {
	Enabled       bool          `json:"enabled" envconfig:"SCHEDULER_ENABLED"`
	TickInterval  time.Duration `json:"tick_interval" envconfig:"SCHEDULER_TICK_INTERVAL"`
	BatchSize     int           `json:"batch_size" envconfig:"SCHEDULER_BATCH_SIZE"`
	MaxConcurrent int           `json:"max_concurrent" envconfig:"SCHEDULER_MAX_CONCURRENT"`
	LockPath      string        `json:"lock_path" envconfig:"SCHEDULER_LOCK_PATH"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		TickInterval:  5 * time.Minute,
		BatchSize:     5,
		MaxConcurrent: 3,
		LockPath:      "agora-sweep.lock",
	}
}

// Invoker is the slice of the orchestrator the sweeper needs.
type Invoker interface {
	Invoke(ctx context.Context, agentID string, intent *orchestrator.Intent) (*orchestrator.Action, error)
}

// Result records the outcome of one agent invocation within a sweep.
type Result struct {
	AgentID    string
	ActionType string
	Err        error
}

// Sweeper wakes eligible agents in small batches on a timer.
type Sweeper struct {
	cfg    Config
	store  *store.Store
	orch   Invoker
	logger *slog.Logger
	sem    *Semaphore

	mu      sync.Mutex
	agentMu map[string]*sync.Mutex
}

// New creates a sweeper. Zero or negative config values fall back to
// the defaults.
func New(cfg Config, s *store.Store, orch Invoker) *Sweeper {
	def := DefaultConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.LockPath == "" {
		cfg.LockPath = def.LockPath
	}
	return &Sweeper{
		cfg:     cfg,
		store:   s,
		orch:    orch,
		logger:  slog.Default().With("component", "scheduler"),
		sem:     NewSemaphore(cfg.MaxConcurrent),
		agentMu: make(map[string]*sync.Mutex),
	}
}

func (s *Sweeper) lockFor(agentID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.agentMu[agentID]
	if !ok {
		mu = &sync.Mutex{}
		s.agentMu[agentID] = mu
	}
	return mu
}

// Sweep invokes one batch of eligible agents. Agents are picked least
// recently active first; a failure for one agent never aborts the rest
// of the batch.
func (s *Sweeper) Sweep(ctx context.Context) []Result {
	agents, err := s.store.ListEligibleAgents(s.cfg.BatchSize)
	if err != nil {
		s.logger.Error("list eligible agents failed", "error", err)
		return nil
	}
	if len(agents) == 0 {
		return nil
	}

	results := make([]Result, len(agents))
	var wg sync.WaitGroup
	for i, agent := range agents {
		wg.Add(1)
		go func(i int, agent *store.Agent) {
			defer wg.Done()
			s.sem.Acquire()
			defer s.sem.Release()

			mu := s.lockFor(agent.ID)
			mu.Lock()
			defer mu.Unlock()

			act, err := s.orch.Invoke(ctx, agent.ID, nil)
			res := Result{AgentID: agent.ID, Err: err}
			if err != nil {
				s.logger.Warn("agent invocation failed", "agent", agent.Name, "error", err)
			} else {
				res.ActionType = act.Type
				s.logger.Info("agent acted", "agent", agent.Name, "action", act.Type)
			}
			results[i] = res
		}(i, agent)
	}
	wg.Wait()
	return results
}

// Run sweeps on every tick until the context is cancelled. The file
// lock guards against a second process running the same loop; a held
// lock skips the tick rather than failing.
func (s *Sweeper) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	lock := NewFileLock(s.cfg.LockPath)
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", s.cfg.TickInterval, "batch", s.cfg.BatchSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			held, err := lock.TryLock()
			if err != nil {
				s.logger.Error("sweep lock failed", "error", err)
				continue
			}
			if !held {
				s.logger.Debug("sweep skipped, lock held elsewhere")
				continue
			}
			s.Sweep(ctx)
			if err := lock.Unlock(); err != nil {
				s.logger.Warn("sweep unlock failed", "error", err)
			}
		}
	}
}
