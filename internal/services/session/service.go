// Package session provides the bearer token for API calls. The token
// lives in a JSON session file written by the web login flow; the
// service watches that file and picks up re-logins without a restart.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/logger"
)

// File represents the JSON structure of the session file.
type File struct {
	Token     string    `json:"token"`
	Email     string    `json:"email,omitempty"`
	TenantID  string    `json:"tenantId,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	Version   int       `json:"version,omitempty"`
}

// EventType defines the type of session event.
type EventType int

const (
	// EventSessionLoaded is emitted after the initial load.
	EventSessionLoaded EventType = iota
	// EventSessionChanged is emitted when the session file changes.
	EventSessionChanged
	// EventError is emitted when loading or watching fails.
	EventError
)

// Event represents a session service event.
type Event struct {
	Type  EventType
	Error error
}

// Service manages the session file with watching and change notifications.
type Service struct {
	mu            sync.RWMutex
	session       File
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	stopOnce      sync.Once
	debounceTimer *time.Timer
}

// New creates a session service and starts file watching. A missing
// session file is not an error: the dashboard then runs unauthenticated
// until a login writes the file.
func New(filePath string) (*Service, error) {
	if filePath == "" {
		return nil, fmt.Errorf("session file path is required")
	}

	s := &Service{
		filePath:  filePath,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	// Ensure directory exists so the watcher has something to attach to
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start session watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventSessionLoaded})

	return s, nil
}

// Events returns the event channel for subscribing to session changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Token returns the current bearer token, or "" when logged out.
// Implements api.TokenSource.
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.session.ExpiresAt.IsZero() && time.Now().After(s.session.ExpiresAt) {
		return ""
	}
	return s.session.Token
}

// Authenticated reports whether a usable token is present.
func (s *Service) Authenticated() bool {
	return s.Token() != ""
}

// Email returns the logged-in user's email, if known.
func (s *Service) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Email
}

// Path returns the session file path.
func (s *Service) Path() string {
	return s.filePath
}

// load reads the session file from disk.
func (s *Service) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	s.mu.Lock()
	s.session = file
	s.mu.Unlock()

	return nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory (to catch file creation/deletion)
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only care about our session file
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) != 0 {
				// Debounce rapid changes
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					s.handleFileChange()
				})
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the session after an external change.
func (s *Service) handleFileChange() {
	if err := s.load(); err != nil {
		if os.IsNotExist(err) {
			// Logged out: file removed.
			s.mu.Lock()
			s.session = File{}
			s.mu.Unlock()
			s.sendEvent(Event{Type: EventSessionChanged})
			return
		}
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	logger.Info("session file reloaded", "email", s.Email())
	s.sendEvent(Event{Type: EventSessionChanged})
}

func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
	}
}

// Close stops the watcher and the event loop.
func (s *Service) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
