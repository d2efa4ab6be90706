package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyName = errors.New("vendor name is empty")

// Session identifies the operator at the terminal. It lives in memory only;
// ledgers reference it through the vendor name written on each line.
type Session struct {
	id      uuid.UUID
	name    string
	started time.Time
}

// New trims name and starts a session for it.
func New(name string) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if strings.ContainsAny(name, ",\r\n") {
		return nil, fmt.Errorf("vendor name %q must not contain commas or line breaks", name)
	}
	return &Session{
		id:      uuid.New(),
		name:    name,
		started: time.Now(),
	}, nil
}

// ID exposes the UUID backing the session.
func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Name() string {
	return s.name
}

func (s *Session) Started() time.Time {
	return s.started
}

func (s *Session) Greeting() string {
	return fmt.Sprintf("Hello, %s! Welcome to the sales register.", s.name)
}

func (s *Session) String() string {
	return fmt.Sprintf("%s (session %s)", s.name, s.id)
}
