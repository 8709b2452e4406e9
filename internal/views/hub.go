package views

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"drainwatch/internal/logging"
	"drainwatch/internal/models"
	"drainwatch/internal/router"
)

// maxViews caps concurrently attached dashboard tabs.
const maxViews = 32

// ErrNoViews is returned when a directive needs at least one attached
// view and none is connected.
var ErrNoViews = errors.New("no consumer views attached")

// wsConn is the slice of *websocket.Conn the hub needs. Tests substitute
// fakes.
type wsConn interface {
	WriteJSON(v interface{}) error
	ReadJSON(v interface{}) error
	Close() error
}

// directive is a server-to-view control message.
type directive struct {
	Type       string             `json:"type"`
	Tag        string             `json:"tag,omitempty"`
	URL        string             `json:"url,omitempty"`
	Descriptor *models.Descriptor `json:"descriptor,omitempty"`
}

// clientMessage is what an attached view sends us: its initial location
// and subsequent route changes.
type clientMessage struct {
	Type     string `json:"type"` // "hello" or "navigate"
	Location string `json:"location"`
}

// Hub tracks every open consumer view and doubles as the notification
// surface: alerts, close/focus/open directives, and activation claims all
// travel over the views' sockets.
type Hub struct {
	logger   *logging.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	views map[*View]bool
}

func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Views are same-origin dashboard tabs.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		views: make(map[*View]bool),
	}
}

// View is one attached dashboard tab.
type View struct {
	writeMu  sync.Mutex
	conn     wsConn
	mu       sync.Mutex
	location string
}

// Location reports the view's current route.
func (v *View) Location() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.location
}

func (v *View) setLocation(loc string) {
	v.mu.Lock()
	v.location = loc
	v.mu.Unlock()
}

// Focus brings this view to the foreground.
func (v *View) Focus(ctx context.Context) error {
	return v.send(directive{Type: "focus"})
}

func (v *View) send(d directive) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	return v.conn.WriteJSON(d)
}

// HandleConn upgrades an HTTP request to a view socket and serves it until
// the view disconnects.
func (h *Hub) HandleConn(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade view connection: %w", err)
	}
	v, err := h.attach(conn, "/")
	if err != nil {
		_ = conn.Close()
		return err
	}
	go h.readLoop(v)
	return nil
}

// attach registers a connection as a view at the given location.
func (h *Hub) attach(conn wsConn, location string) (*View, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.views) >= maxViews {
		return nil, fmt.Errorf("view limit reached (%d)", maxViews)
	}
	v := &View{conn: conn, location: location}
	h.views[v] = true
	h.logger.Infof("View attached at %s (total: %d)", location, len(h.views))
	return v, nil
}

func (h *Hub) detach(v *View) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.views[v] {
		delete(h.views, v)
		_ = v.conn.Close()
		h.logger.Infof("View detached (remaining: %d)", len(h.views))
	}
}

// readLoop consumes location updates until the socket drops.
func (h *Hub) readLoop(v *View) {
	defer h.detach(v)
	for {
		var msg clientMessage
		if err := v.conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "hello", "navigate":
			v.setLocation(msg.Location)
		}
	}
}

// snapshot returns the current views under lock.
func (h *Hub) snapshot() []*View {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*View, 0, len(h.views))
	for v := range h.views {
		out = append(out, v)
	}
	return out
}

// Show broadcasts an alert descriptor to every attached view. Rendering
// needs at least one view; with none attached the alert cannot reach the
// operator and the event is reported failed.
func (h *Hub) Show(ctx context.Context, d models.Descriptor) error {
	targets := h.snapshot()
	if len(targets) == 0 {
		return ErrNoViews
	}
	var firstErr error
	delivered := 0
	for _, v := range targets {
		if err := v.send(directive{Type: "notify", Descriptor: &d}); err != nil {
			h.logger.Errorf("Notify failed for a view, detaching: %v", err)
			h.detach(v)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return fmt.Errorf("notify reached no view: %w", firstErr)
	}
	return nil
}

// CloseNotification tells every view to drop the alert with the given
// tag. Views that never showed it, or already closed it, ignore the
// directive, so repeated closes are harmless.
func (h *Hub) CloseNotification(tag string) {
	for _, v := range h.snapshot() {
		if err := v.send(directive{Type: "close", Tag: tag}); err != nil {
			h.logger.Errorf("Close directive failed, detaching view: %v", err)
			h.detach(v)
		}
	}
}

// Views implements router.ViewRegistry.
func (h *Hub) Views(ctx context.Context) ([]router.View, error) {
	snap := h.snapshot()
	out := make([]router.View, 0, len(snap))
	for _, v := range snap {
		out = append(out, v)
	}
	return out, nil
}

// Open instructs one attached view's browser context to open a new tab at
// url. With nothing attached there is no context to instruct; the
// navigation is missed (the alert was already closed) and reported as an
// error.
func (h *Hub) Open(ctx context.Context, url string) error {
	targets := h.snapshot()
	if len(targets) == 0 {
		return ErrNoViews
	}
	var firstErr error
	for _, v := range targets {
		if err := v.send(directive{Type: "open", URL: url}); err != nil {
			firstErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("open directive reached no view: %w", firstErr)
}

// ClaimAll hands every attached view to the newly activated agent
// instance so it is served without a manual reload.
func (h *Hub) ClaimAll(ctx context.Context) error {
	for _, v := range h.snapshot() {
		if err := v.send(directive{Type: "claim"}); err != nil {
			h.logger.Errorf("Claim directive failed, detaching view: %v", err)
			h.detach(v)
		}
	}
	return nil
}

// CloseAll detaches every view. Called on shutdown.
func (h *Hub) CloseAll() {
	for _, v := range h.snapshot() {
		h.detach(v)
	}
}
