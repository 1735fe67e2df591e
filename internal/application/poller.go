package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrPollerActive = errors.New("poller already active")

type PollerState int

const (
	PollerIdle PollerState = iota
	PollerActive
)

func (s PollerState) String() string {
	if s == PollerActive {
		return "active"
	}
	return "idle"
}

type PollOutcome string

const (
	PollAdopted  PollOutcome = "adopted"
	PollRetained PollOutcome = "retained"
	PollFailed   PollOutcome = "failed"
)

// PollTask fetches one resource. A nil apply with a nil error means the
// response carried no usable data and the previous snapshot stays.
type PollTask struct {
	Name string
	Run  func(ctx context.Context) (apply func(), err error)
}

// Track builds a PollTask that adopts fetched values accepted by valid into
// the snapshot.
func Track[T any](name string, fetch func(ctx context.Context) (T, error), valid func(T) bool, into *Snapshot[T]) PollTask {
	return PollTask{
		Name: name,
		Run: func(ctx context.Context) (func(), error) {
			value, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			if valid != nil && !valid(value) {
				return nil, nil
			}
			return func() { into.Set(value) }, nil
		},
	}
}

type TaskReport struct {
	Name    string
	Outcome PollOutcome
	Err     error
}

type CycleReport struct {
	Generation uint64
	StartedAt  time.Time
	Tasks      []TaskReport
}

type PollerOption func(*Poller)

// WithBeforeCycle and WithAfterCycle hooks run while the poller holds its
// lock. They must not call back into the Poller.
func WithBeforeCycle(fn func()) PollerOption {
	return func(p *Poller) { p.beforeCycle = fn }
}

func WithAfterCycle(fn func(CycleReport)) PollerOption {
	return func(p *Poller) { p.afterCycle = fn }
}

func WithPollerLogger(logger *zap.Logger) PollerOption {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Poller refreshes snapshots on a fixed interval while active. Deactivation
// stops the ticker without cancelling in-flight fetches; their results are
// dropped instead.
type Poller struct {
	interval    time.Duration
	tasks       []PollTask
	beforeCycle func()
	afterCycle  func(CycleReport)
	logger      *zap.Logger

	mu         sync.Mutex
	state      PollerState
	generation uint64
	stop       chan struct{}
	done       chan struct{}
}

func NewPoller(interval time.Duration, tasks []PollTask, opts ...PollerOption) *Poller {
	p := &Poller{
		interval: interval,
		tasks:    tasks,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("poller")
	if p.interval <= 0 {
		p.interval = 2 * time.Second
	}
	return p
}

func (p *Poller) State() PollerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Activate runs one cycle immediately and then one per interval until
// Deactivate is called or ctx ends.
func (p *Poller) Activate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	if p.state == PollerActive {
		p.mu.Unlock()
		return ErrPollerActive
	}
	p.generation++
	generation := p.generation
	p.state = PollerActive
	stop := make(chan struct{})
	done := make(chan struct{})
	p.stop = stop
	p.done = done
	p.mu.Unlock()

	p.logger.Debug("activated", zap.Uint64("generation", generation), zap.Duration("interval", p.interval))
	go p.loop(ctx, generation, stop, done)
	return nil
}

// Deactivate returns the poller to Idle. No snapshot changes and no hook runs
// once it returns.
func (p *Poller) Deactivate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != PollerActive {
		return
	}
	p.state = PollerIdle
	p.generation++
	close(p.stop)
	p.logger.Debug("deactivated", zap.Uint64("generation", p.generation))
}

// Wait blocks until the loop started by the last Activate has exited.
func (p *Poller) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (p *Poller) loop(ctx context.Context, generation uint64, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	// Ticks are counted from activation; a slow cycle drops ticks rather than
	// overlapping the next one.
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.cycle(ctx, generation)

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			p.deactivateGeneration(generation)
			return
		case <-ticker.C:
			p.cycle(ctx, generation)
		}
	}
}

func (p *Poller) deactivateGeneration(generation uint64) {
	p.mu.Lock()
	current := p.generation == generation && p.state == PollerActive
	p.mu.Unlock()

	if current {
		p.Deactivate()
	}
}

func (p *Poller) cycle(ctx context.Context, generation uint64) {
	p.mu.Lock()
	if !p.currentLocked(generation) {
		p.mu.Unlock()
		return
	}
	if p.beforeCycle != nil {
		p.beforeCycle()
	}
	p.mu.Unlock()

	report := CycleReport{Generation: generation, StartedAt: time.Now(), Tasks: make([]TaskReport, len(p.tasks))}
	applies := make([]func(), len(p.tasks))

	var group errgroup.Group
	for i, task := range p.tasks {
		group.Go(func() error {
			apply, err := task.Run(ctx)
			report.Tasks[i] = TaskReport{Name: task.Name, Outcome: outcomeOf(apply, err), Err: err}
			applies[i] = apply
			return nil
		})
	}
	_ = group.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.currentLocked(generation) {
		p.logger.Debug("discarding results of stale cycle", zap.Uint64("generation", generation))
		return
	}

	for i, apply := range applies {
		if apply != nil {
			apply()
		}
		if err := report.Tasks[i].Err; err != nil {
			p.logger.Debug("poll task failed", zap.String("task", report.Tasks[i].Name), zap.Error(err))
		}
	}
	if p.afterCycle != nil {
		p.afterCycle(report)
	}
}

func (p *Poller) currentLocked(generation uint64) bool {
	return p.state == PollerActive && p.generation == generation
}

func outcomeOf(apply func(), err error) PollOutcome {
	switch {
	case err != nil:
		return PollFailed
	case apply == nil:
		return PollRetained
	default:
		return PollAdopted
	}
}
