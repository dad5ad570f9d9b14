package compute

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/capsim/internal/capacitor"
)

// Mode selects how the resolver treats the native component.
type Mode string

const (
	// ModeAuto uses the native component when it loads and falls back
	// to the pure model otherwise.
	ModeAuto Mode = "auto"
	// ModePure never touches the native component.
	ModePure Mode = "pure"
	// ModeAccelerated expects the native component. Failure still falls
	// back to the pure model, with the advisory set and logged as an error.
	ModeAccelerated Mode = "accelerated"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAuto, ModePure, ModeAccelerated:
		return Mode(s), nil
	case "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("compute: unknown backend mode %q (want auto, pure or accelerated)", s)
}

// State is the resolver's position in its state machine.
type State int

const (
	StateUnresolved State = iota
	StatePure
	StateAccelerated
)

func (s State) String() string {
	switch s {
	case StatePure:
		return "pure"
	case StateAccelerated:
		return "accelerated"
	default:
		return "unresolved"
	}
}

// Status reports the outcome of the last resolution.
type Status struct {
	State      State
	Backend    string
	Advisory   error // non-nil when the native component was wanted but not used
	ResolvedAt time.Time
}

// Degraded reports whether resolution fell back after a native failure.
func (s Status) Degraded() bool {
	return s.Advisory != nil
}

// ResolverConfig controls backend resolution.
type ResolverConfig struct {
	Mode        Mode
	LibraryPath string
	// Build, when non-nil, is run once if LibraryPath does not exist.
	Build *Builder
}

// Resolver picks the accelerated model when the native component loads and
// the pure model otherwise. Resolution runs at most once; a failure is not
// retried until Reresolve is called.
type Resolver struct {
	cfg    ResolverConfig
	logger *zap.Logger
	open   func(path string) (*symbols, error)

	mu     sync.Mutex
	model  Model
	status Status
}

func NewResolver(cfg ResolverConfig, logger *zap.Logger) *Resolver {
	return newResolver(cfg, logger, openLibrary)
}

func newResolver(cfg ResolverConfig, logger *zap.Logger, open func(string) (*symbols, error)) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeAuto
	}
	if cfg.Build != nil && cfg.Build.Logger == nil {
		cfg.Build.Logger = logger
	}
	return &Resolver{cfg: cfg, logger: logger, open: open}
}

// Resolve returns the active model, resolving on first use. It never
// fails: any native problem yields the pure model and an advisory in the
// returned Status.
func (r *Resolver) Resolve(ctx context.Context) (Model, Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.model == nil {
		r.resolveLocked(ctx)
	}
	return r.model, r.status
}

// Reresolve discards the current model and resolves again. Models handed
// out earlier must not be used after this call.
func (r *Resolver) Reresolve(ctx context.Context) (Model, Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.model != nil {
		if err := r.model.Close(); err != nil {
			r.logger.Warn("closing previous backend", zap.Error(err))
		}
		r.model = nil
	}
	r.resolveLocked(ctx)
	return r.model, r.status
}

func (r *Resolver) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Close releases the native component, if loaded.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.model == nil {
		return nil
	}
	err := r.model.Close()
	r.model = nil
	r.status = Status{}
	return err
}

func (r *Resolver) resolveLocked(ctx context.Context) {
	if r.cfg.Mode == ModePure {
		r.usePure(nil)
		return
	}

	acc, err := r.loadAccelerated(ctx)
	if err != nil {
		r.usePure(err)
		return
	}

	r.model = acc
	r.status = Status{State: StateAccelerated, Backend: acc.Name(), ResolvedAt: time.Now()}
	r.logger.Info("accelerated backend loaded",
		zap.String("path", acc.Path()),
		zap.Int("abi", ABIVersion))
}

func (r *Resolver) usePure(advisory error) {
	pure := NewPure()
	r.model = pure
	r.status = Status{State: StatePure, Backend: pure.Name(), Advisory: advisory, ResolvedAt: time.Now()}

	if advisory == nil {
		return
	}
	fields := []zap.Field{zap.Error(advisory)}
	var be *capacitor.BackendError
	if errors.As(advisory, &be) {
		fields = append(fields, zap.String("stage", string(be.Stage)))
	}
	if r.cfg.Mode == ModeAccelerated {
		r.logger.Error("accelerated backend required but unavailable, using pure model", fields...)
	} else {
		r.logger.Warn("accelerated backend unavailable, using pure model", fields...)
	}
}

func (r *Resolver) loadAccelerated(ctx context.Context) (*Accelerated, error) {
	path := r.cfg.LibraryPath
	if path == "" {
		return nil, &capacitor.BackendError{Stage: capacitor.StageDisabled, Err: errors.New("no library path configured")}
	}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) || r.cfg.Build == nil {
			return nil, &capacitor.BackendError{Stage: capacitor.StageLoad, Path: path, Err: err}
		}
		if err := r.cfg.Build.Build(ctx, path); err != nil {
			return nil, err
		}
	}

	lib, err := r.open(path)
	if err != nil {
		return nil, err
	}

	acc := newAccelerated(path, lib)
	if err := acc.probe(); err != nil {
		acc.Close()
		return nil, &capacitor.BackendError{Stage: capacitor.StageProbe, Path: path, Err: err}
	}
	return acc, nil
}
