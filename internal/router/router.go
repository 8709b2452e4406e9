package router

import (
	"context"
	"fmt"

	"drainwatch/internal/logging"
	"drainwatch/internal/models"
)

// View is one open consumer surface (a dashboard tab).
type View interface {
	Location() string
	Focus(ctx context.Context) error
}

// ViewRegistry enumerates and spawns consumer views, including views not
// opened by this agent instance.
type ViewRegistry interface {
	Views(ctx context.Context) ([]View, error)
	Open(ctx context.Context, url string) error
}

// Closer dismisses a rendered alert by tag. Closing an already-closed
// alert is a no-op.
type Closer interface {
	CloseNotification(tag string)
}

// Router turns a user's response to an alert into the right navigation:
// focus an existing view when one is already at the target, otherwise
// open exactly one new view.
type Router struct {
	registry ViewRegistry
	closer   Closer
	logger   *logging.Logger
}

func New(registry ViewRegistry, closer Closer, logger *logging.Logger) *Router {
	return &Router{registry: registry, closer: closer, logger: logger}
}

// OnInteraction handles an action tap or a tap on the alert body (empty
// actionID). The originating alert is always closed first.
func (r *Router) OnInteraction(ctx context.Context, tag, actionID string, payload models.Payload) error {
	r.closer.CloseNotification(tag)

	switch actionID {
	case "view", "":
		return r.focusOrOpen(ctx, payload.URL)
	case "close":
		return nil
	default:
		r.logger.Warnf("Unknown action %q for alert tag=%s, ignoring", actionID, tag)
		return nil
	}
}

// OnDismiss records that the user swiped the alert away without choosing
// an action. Observability only; no navigation, no retry.
func (r *Router) OnDismiss(tag string, payload models.Payload) {
	r.logger.Infof("Alert dismissed without action: tag=%s level=%s", tag, payload.Level)
}

func (r *Router) focusOrOpen(ctx context.Context, url string) error {
	views, err := r.registry.Views(ctx)
	if err != nil {
		return fmt.Errorf("enumerate views: %w", err)
	}
	for _, v := range views {
		if v.Location() == url {
			if err := v.Focus(ctx); err != nil {
				return fmt.Errorf("focus view at %s: %w", url, err)
			}
			return nil
		}
	}
	if err := r.registry.Open(ctx, url); err != nil {
		return fmt.Errorf("open view at %s: %w", url, err)
	}
	return nil
}
