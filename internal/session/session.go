package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Flash levels understood by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashDanger  = "danger"
	FlashInfo    = "info"
	FlashWarning = "warning"
)

type FlashMessage struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Session is the server-side state behind the session cookie. A zero UserID
// means the visitor is anonymous.
type Session struct {
	ID      string         `json:"id"`
	UserID  int64          `json:"user_id,omitempty"`
	Flashes []FlashMessage `json:"flashes,omitempty"`

	dirty bool
}

func newSession() *Session {
	return &Session{ID: uuid.NewString(), dirty: true}
}

func (s *Session) AddFlash(level, message string) {
	s.Flashes = append(s.Flashes, FlashMessage{Level: level, Message: message})
	s.dirty = true
}

// PopFlashes returns the queued messages and clears the queue, so each
// message is displayed exactly once.
func (s *Session) PopFlashes() []FlashMessage {
	if len(s.Flashes) == 0 {
		return nil
	}
	flashes := s.Flashes
	s.Flashes = nil
	s.dirty = true
	return flashes
}

func (s *Session) SetUser(id int64) {
	s.UserID = id
	s.dirty = true
}

func (s *Session) ClearUser() {
	s.SetUser(0)
}

func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// Store persists sessions between requests.
type Store interface {
	// Load returns ErrSessionNotFound for unknown or expired ids.
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
