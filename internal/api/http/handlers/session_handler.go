package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/internship-service/internal/api/dto"
	"github.com/spec-kit/internship-service/internal/auth"
	"github.com/spec-kit/internship-service/internal/config"
	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/session"
)

const sessionHeartbeatInterval = 25 * time.Second

// SessionHandler exposes the live session snapshot. Snapshot reads return the
// consolidated view once; the stream endpoint holds the connection open and
// pushes a new snapshot on every profile change.
type SessionHandler struct {
	auth    session.Authenticator
	watcher session.ProfileWatcher
	cfg     config.SessionConfig
	logger  *zap.Logger
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authn session.Authenticator, watcher session.ProfileWatcher, cfg config.SessionConfig, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{auth: authn, watcher: watcher, cfg: cfg, logger: logger}
}

type snapshotView struct {
	Loading       bool                 `json:"loading"`
	Authenticated bool                 `json:"authenticated"`
	Identity      *identityView        `json:"identity,omitempty"`
	Profile       *dto.ProfileResponse `json:"profile,omitempty"`
	Active        bool                 `json:"active"`
	Admin         bool                 `json:"admin"`
	Error         string               `json:"error,omitempty"`
}

type identityView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func newSnapshotView(snap session.Snapshot) snapshotView {
	view := snapshotView{
		Loading:       snap.Loading,
		Authenticated: snap.Authenticated(),
		Profile:       dto.NewProfileResponse(snap.Profile),
		Active:        snap.Profile.IsActive(),
		Admin:         snap.Profile.IsAdmin(),
	}
	if snap.Identity != nil {
		view.Identity = &identityView{ID: snap.Identity.ID, Email: snap.Identity.Email}
	}
	if snap.Err != nil {
		view.Error = snap.Err.Error()
	}
	return view
}

// Snapshot handles GET /session. It resolves the caller's snapshot once,
// without holding a live watch.
func (h *SessionHandler) Snapshot(c *fiber.Ctx) error {
	var snap session.Snapshot
	if principal, ok := auth.PrincipalFromContext(c); ok {
		snap.Identity = principal.Identity
		snap.Profile = principal.Profile
	}
	return c.JSON(fiber.Map{"data": newSnapshotView(snap)})
}

// Stream handles GET /session/stream as server-sent events. Each event is a
// full snapshot; the first one arrives as soon as identity resolution and the
// initial profile read complete.
func (h *SessionHandler) Stream(c *fiber.Ctx) error {
	var identity *domain.Identity
	if principal, ok := auth.PrincipalFromContext(c); ok {
		identity = principal.Identity
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	provider := session.NewProvider(h.auth, h.watcher, h.cfg.UpdateBufferSize)
	logger := h.logger

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer provider.Close()

		provider.Resolve(context.Background(), identity)

		if err := writeSnapshotEvent(w, provider.Current()); err != nil {
			return
		}

		heartbeat := time.NewTicker(sessionHeartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case snap, ok := <-provider.Updates():
				if !ok {
					return
				}
				if err := writeSnapshotEvent(w, snap); err != nil {
					logger.Debug("session stream closed", zap.Error(err))
					return
				}
			case <-heartbeat.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
	return nil
}

func writeSnapshotEvent(w *bufio.Writer, snap session.Snapshot) error {
	payload, err := json.Marshal(newSnapshotView(snap))
	if err != nil {
		return err
	}
	if _, err := w.WriteString("event: snapshot\ndata: "); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if _, err := w.WriteString("\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
