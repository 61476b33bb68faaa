package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	sessions  map[string]Session
	enrolled  map[string][]string
	absent    map[string]map[string]bool // sessionID -> studentID -> provisioned
	insertErr error                      // injected mid-provision failure
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[string]Session),
		enrolled: make(map[string][]string),
		absent:   make(map[string]map[string]bool),
	}
}

func (m *memStore) CreateSession(_ context.Context, teacherID, name string) (Session, error) {
	s := Session{ID: uuid.NewString(), Name: name, TeacherID: teacherID, CreatedAt: time.Now()}
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memStore) GetSession(_ context.Context, id string) (*Session, error) {
	if s, ok := m.sessions[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *memStore) ListSessions(_ context.Context, teacherID string) ([]Session, error) {
	var res []Session
	for _, s := range m.sessions {
		if s.TeacherID == teacherID {
			res = append(res, s)
		}
	}
	return res, nil
}

func (m *memStore) StartSession(_ context.Context, id string, now time.Time) (bool, error) {
	s, ok := m.sessions[id]
	if !ok || s.StartTime != nil {
		return false, nil
	}
	s.StartTime = &now
	m.sessions[id] = s
	return true, nil
}

func (m *memStore) StopSession(_ context.Context, id string, now time.Time) (bool, error) {
	s, ok := m.sessions[id]
	if !ok || s.StartTime == nil || s.EndTime != nil {
		return false, nil
	}
	s.EndTime = &now
	m.sessions[id] = s
	return true, nil
}

func (m *memStore) EnrolledStudentIDs(_ context.Context, sessionID string) ([]string, error) {
	return m.enrolled[sessionID], nil
}

func (m *memStore) RecordedStudentIDs(_ context.Context, sessionID string) ([]string, error) {
	var ids []string
	for id := range m.absent[sessionID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memStore) InsertAbsentRows(_ context.Context, sessionID, _ string, studentIDs []string) (int, error) {
	rows, ok := m.absent[sessionID]
	if !ok {
		rows = make(map[string]bool)
		m.absent[sessionID] = rows
	}
	n := 0
	for _, sid := range studentIDs {
		if m.insertErr != nil && n == 1 {
			return n, m.insertErr
		}
		if !rows[sid] {
			rows[sid] = true
			n++
		}
	}
	return n, nil
}

func setup(t *testing.T) (*Service, *memStore, Session) {
	t.Helper()
	store := newMemStore()
	svc := NewService(store)
	sess, err := svc.Create(context.Background(), "teacher-1", "Math 101")
	require.NoError(t, err)
	return svc, store, sess
}

func TestStartProvisionsAssignedStudents(t *testing.T) {
	svc, store, sess := setup(t)
	store.enrolled[sess.ID] = []string{"a", "b", "c"}
	// "c" already holds a record; provisioning must leave it untouched
	store.absent[sess.ID] = map[string]bool{"c": true}

	res, err := svc.Start(context.Background(), "teacher-1", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Provisioned)
	assert.Len(t, store.absent[sess.ID], 3)
	assert.True(t, store.sessions[sess.ID].IsActive())
}

func TestStartTwiceFails(t *testing.T) {
	svc, store, sess := setup(t)
	store.enrolled[sess.ID] = []string{"a"}
	ctx := context.Background()

	_, err := svc.Start(ctx, "teacher-1", sess.ID)
	require.NoError(t, err)

	_, err = svc.Start(ctx, "teacher-1", sess.ID)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	assert.Len(t, store.absent[sess.ID], 1)
}

func TestStartWithNoStudents(t *testing.T) {
	svc, _, sess := setup(t)
	res, err := svc.Start(context.Background(), "teacher-1", sess.ID)
	require.NoError(t, err)
	assert.True(t, res.NoStudents)
	assert.Zero(t, res.Provisioned)
}

func TestStartUnknownSession(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.Start(context.Background(), "teacher-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStopIsBenignWhenAlreadyStopped(t *testing.T) {
	svc, _, sess := setup(t)
	ctx := context.Background()
	_, err := svc.Start(ctx, "teacher-1", sess.ID)
	require.NoError(t, err)

	res, err := svc.Stop(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyStopped)

	res, err = svc.Stop(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyStopped)
}

func TestProvisionRepairsPartialRun(t *testing.T) {
	svc, store, sess := setup(t)
	store.enrolled[sess.ID] = []string{"a", "b", "c"}
	store.insertErr = errors.New("connection reset")
	ctx := context.Background()

	_, err := svc.Start(ctx, "teacher-1", sess.ID)
	require.Error(t, err)
	require.Less(t, len(store.absent[sess.ID]), 3)

	// repair path completes the difference without re-entering start
	store.insertErr = nil
	res, err := svc.Provision(ctx, "teacher-1", sess.ID)
	require.NoError(t, err)
	assert.Len(t, store.absent[sess.ID], 3)
	// only the rows missing after the failed run were inserted
	assert.Equal(t, 2, res.Provisioned)
}

func TestProvisionRequiresActiveSession(t *testing.T) {
	svc, _, sess := setup(t)
	ctx := context.Background()

	_, err := svc.Provision(ctx, "teacher-1", sess.ID)
	assert.ErrorIs(t, err, ErrNotActive)

	_, err = svc.Start(ctx, "teacher-1", sess.ID)
	require.NoError(t, err)
	_, err = svc.Stop(ctx, sess.ID)
	require.NoError(t, err)

	_, err = svc.Provision(ctx, "teacher-1", sess.ID)
	assert.ErrorIs(t, err, ErrNotActive)
}
