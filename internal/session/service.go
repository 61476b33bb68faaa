package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Store is the persistence surface the lifecycle manager needs.
type Store interface {
	CreateSession(ctx context.Context, teacherID, name string) (Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	ListSessions(ctx context.Context, teacherID string) ([]Session, error)
	StartSession(ctx context.Context, id string, now time.Time) (bool, error)
	StopSession(ctx context.Context, id string, now time.Time) (bool, error)
	EnrolledStudentIDs(ctx context.Context, sessionID string) ([]string, error)
	RecordedStudentIDs(ctx context.Context, sessionID string) ([]string, error)
	InsertAbsentRows(ctx context.Context, sessionID, teacherID string, studentIDs []string) (int, error)
}

// StartResult reports what a start (or provisioning repair) did.
type StartResult struct {
	Provisioned int  `json:"provisioned"`
	NoStudents  bool `json:"no_students,omitempty"`
}

// StopResult reports whether the stop actually transitioned the session.
type StopResult struct {
	AlreadyStopped bool `json:"already_stopped,omitempty"`
}

// Service manages the session lifecycle: not started, active, stopped.
type Service struct {
	store Store
}

// NewService creates a lifecycle manager backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a new session owned by callerID.
func (s *Service) Create(ctx context.Context, callerID, name string) (Session, error) {
	if name == "" {
		return Session{}, errors.New("session name required")
	}
	sess, err := s.store.CreateSession(ctx, callerID, name)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// List returns the caller's sessions.
func (s *Service) List(ctx context.Context, callerID string) ([]Session, error) {
	return s.store.ListSessions(ctx, callerID)
}

// Get returns a session or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return Session{}, ErrNotFound
	}
	return *sess, nil
}

// Start transitions a session to active and seeds baseline absent rows for
// every assigned student that lacks an attendance record. The conditional
// update is the double-start guard; a loser sees ErrAlreadyStarted.
func (s *Service) Start(ctx context.Context, callerID, sessionID string) (StartResult, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return StartResult{}, err
	}
	ok, err := s.store.StartSession(ctx, sessionID, time.Now().UTC())
	if err != nil {
		return StartResult{}, fmt.Errorf("start session: %w", err)
	}
	if !ok {
		return StartResult{}, ErrAlreadyStarted
	}
	return s.provision(ctx, callerID, sessionID)
}

// Provision is the repair path for a start whose provisioning failed midway.
// It may be called on an active session at any time; only missing rows are
// inserted, so completed provisioning makes it a no-op.
func (s *Service) Provision(ctx context.Context, callerID, sessionID string) (StartResult, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return StartResult{}, err
	}
	if !sess.IsActive() {
		return StartResult{}, ErrNotActive
	}
	return s.provision(ctx, callerID, sessionID)
}

// Stop transitions an active session to stopped. Stopping an already-stopped
// session is reported, not failed.
func (s *Service) Stop(ctx context.Context, sessionID string) (StopResult, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return StopResult{}, err
	}
	ok, err := s.store.StopSession(ctx, sessionID, time.Now().UTC())
	if err != nil {
		return StopResult{}, fmt.Errorf("stop session: %w", err)
	}
	return StopResult{AlreadyStopped: !ok}, nil
}

func (s *Service) provision(ctx context.Context, callerID, sessionID string) (StartResult, error) {
	enrolled, err := s.store.EnrolledStudentIDs(ctx, sessionID)
	if err != nil {
		return StartResult{}, fmt.Errorf("list enrolled students: %w", err)
	}
	if len(enrolled) == 0 {
		return StartResult{NoStudents: true}, nil
	}

	recorded, err := s.store.RecordedStudentIDs(ctx, sessionID)
	if err != nil {
		return StartResult{}, fmt.Errorf("list recorded students: %w", err)
	}
	have := make(map[string]struct{}, len(recorded))
	for _, id := range recorded {
		have[id] = struct{}{}
	}

	missing := make([]string, 0, len(enrolled))
	for _, id := range enrolled {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return StartResult{}, nil
	}

	n, err := s.store.InsertAbsentRows(ctx, sessionID, callerID, missing)
	if err != nil {
		// Partial provisioning is acceptable: inserted rows stay valid and
		// the Provision repair path completes the rest.
		return StartResult{Provisioned: n}, fmt.Errorf("provision absent rows: %w", err)
	}
	return StartResult{Provisioned: n}, nil
}
