package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"drainwatch/internal/classifier"
	"drainwatch/internal/composer"
	"drainwatch/internal/logging"
	"drainwatch/internal/models"
)

// State is the agent's lifecycle position.
type State int

const (
	StateUninstalled State = iota
	StateInstalling
	StateActivating
	StateActive
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	default:
		return "uninstalled"
	}
}

var (
	// ErrBadTransition is returned when a lifecycle method is called out
	// of order.
	ErrBadTransition = errors.New("invalid lifecycle transition")
	// ErrNotActive is returned when a push arrives before activation
	// completed.
	ErrNotActive = errors.New("agent is not active")
)

// Surface renders a composed alert on the platform's notification layer.
type Surface interface {
	Show(ctx context.Context, d models.Descriptor) error
}

// ViewClaimer hands every open consumer view to this agent instance so
// they are served without a manual reload.
type ViewClaimer interface {
	ClaimAll(ctx context.Context) error
}

// Agent owns the install/activate/push lifecycle. It keeps no state
// between events; every push is classified, composed, and rendered
// independently.
type Agent struct {
	classifier *classifier.Classifier
	composer   *composer.Composer
	surface    Surface
	claimer    ViewClaimer
	logger     *logging.Logger

	mu    sync.Mutex
	state State

	// pending tracks in-flight renders so the host can hold the agent
	// alive until they resolve.
	pending sync.WaitGroup
}

func New(cl *classifier.Classifier, co *composer.Composer, surface Surface, claimer ViewClaimer, logger *logging.Logger) *Agent {
	return &Agent{
		classifier: cl,
		composer:   co,
		surface:    surface,
		claimer:    claimer,
		logger:     logger,
		state:      StateUninstalled,
	}
}

// State reports the current lifecycle state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Install performs no blocking work and immediately signals readiness to
// supersede any previously active instance. In-flight work of the old
// instance is not drained; the agent is stateless between events, so fast
// rollout wins over draining.
func (a *Agent) Install(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateUninstalled {
		return fmt.Errorf("%w: install from %s", ErrBadTransition, a.state)
	}
	a.state = StateInstalling
	a.logger.Infof("Agent installed, superseding any previous instance")
	return nil
}

// Activate claims every open consumer view and only then completes the
// transition to Active. The claim is the explicit ownership handoff: the
// returned nil is the completion signal the host waits on.
func (a *Agent) Activate(ctx context.Context) error {
	a.mu.Lock()
	if a.state != StateInstalling {
		a.mu.Unlock()
		return fmt.Errorf("%w: activate from %s", ErrBadTransition, a.state)
	}
	a.state = StateActivating
	a.mu.Unlock()

	if err := a.claimer.ClaimAll(ctx); err != nil {
		return fmt.Errorf("claim consumer views: %w", err)
	}

	a.mu.Lock()
	a.state = StateActive
	a.mu.Unlock()
	a.logger.Infof("Agent active, all consumer views claimed")
	return nil
}

// HandlePush processes one inbound push payload: classify and compose
// synchronously, then render. Exactly one alert per event; no batching or
// coalescing. A render failure drops this event only — the agent keeps
// serving subsequent pushes.
func (a *Agent) HandlePush(ctx context.Context, raw []byte) error {
	if a.State() != StateActive {
		return ErrNotActive
	}

	ev := a.classifier.Classify(raw)
	d := a.composer.Compose(ev)

	a.pending.Add(1)
	defer a.pending.Done()

	if err := a.surface.Show(ctx, d); err != nil {
		a.logger.Errorf("Render failed for %s alert (tag=%s), dropping event: %v", d.Payload.Level, d.Tag, err)
		return fmt.Errorf("show notification: %w", err)
	}
	a.logger.Infof("Rendered %s alert (tag=%s)", d.Payload.Level, d.Tag)
	return nil
}

// Drain blocks until every in-flight render has resolved. The host calls
// this before tearing the agent down so no alert is dropped mid-render.
func (a *Agent) Drain() {
	a.pending.Wait()
}
