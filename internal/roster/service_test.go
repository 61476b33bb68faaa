package roster

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	students []Student
	enrolled map[string]map[string]bool // sessionID -> studentID
}

func newMemStore() *memStore {
	return &memStore{enrolled: make(map[string]map[string]bool)}
}

func (m *memStore) CreateStudent(_ context.Context, name, email, rollNo string) (Student, error) {
	st := Student{ID: uuid.NewString(), Name: name, Email: email, RollNo: rollNo, QRToken: uuid.NewString()}
	m.students = append(m.students, st)
	return st, nil
}

func (m *memStore) GetStudent(_ context.Context, id string) (*Student, error) {
	for _, st := range m.students {
		if st.ID == id {
			return &st, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListStudents(_ context.Context) ([]Student, error) {
	return m.students, nil
}

func (m *memStore) ListEnrolled(_ context.Context, sessionID string) ([]Student, error) {
	var res []Student
	for _, st := range m.students {
		if m.enrolled[sessionID][st.ID] {
			res = append(res, st)
		}
	}
	return res, nil
}

func (m *memStore) Assign(_ context.Context, sessionID, studentID string) error {
	if m.enrolled[sessionID] == nil {
		m.enrolled[sessionID] = make(map[string]bool)
	}
	m.enrolled[sessionID][studentID] = true
	return nil
}

func (m *memStore) Unassign(_ context.Context, sessionID, studentID string) error {
	delete(m.enrolled[sessionID], studentID)
	return nil
}

func TestCreateMintsUniqueTokens(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	a, err := svc.Create(ctx, "Ada", "ada@x.com", "1")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "Bob", "bob@x.com", "2")
	require.NoError(t, err)

	assert.NotEmpty(t, a.QRToken)
	assert.NotEqual(t, a.QRToken, b.QRToken)
	// the token is opaque; it must not embed the id or roll number
	assert.NotContains(t, a.QRToken, a.ID)
	assert.NotContains(t, a.QRToken, a.RollNo)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.Create(context.Background(), "Ada", "", "1")
	assert.Error(t, err)
}

func TestImportCSV(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	csv := strings.Join([]string{
		"student_name,student_email,roll_no",
		"Ada,ada@x.com,1",
		`"Chen, Riley",riley@x.com,2`,
		",missing-name@x.com,3",
	}, "\n")

	res, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)

	require.Len(t, store.students, 2)
	assert.Equal(t, "Chen, Riley", store.students[1].Name)
	assert.NotEmpty(t, store.students[1].QRToken)
}

func TestImportCSVHeaderAliases(t *testing.T) {
	svc := NewService(newMemStore())
	res, err := svc.ImportCSV(context.Background(), strings.NewReader("name,email,roll\nAda,ada@x.com,1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
}

func TestImportCSVMissingColumn(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.ImportCSV(context.Background(), strings.NewReader("name,email\nAda,ada@x.com\n"))
	assert.Error(t, err)
}

func TestAssignUnassign(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	st, err := svc.Create(ctx, "Ada", "ada@x.com", "1")
	require.NoError(t, err)

	require.NoError(t, svc.Assign(ctx, "se-1", st.ID))
	// duplicate assignment is a benign no-op
	require.NoError(t, svc.Assign(ctx, "se-1", st.ID))

	enrolled, err := svc.Enrolled(ctx, "se-1")
	require.NoError(t, err)
	assert.Len(t, enrolled, 1)

	require.NoError(t, svc.Unassign(ctx, "se-1", st.ID))
	// unassigning a missing pair is a benign no-op
	require.NoError(t, svc.Unassign(ctx, "se-1", st.ID))

	enrolled, err = svc.Enrolled(ctx, "se-1")
	require.NoError(t, err)
	assert.Empty(t, enrolled)
}
