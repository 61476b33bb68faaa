package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Store is the persistence surface the roster service needs.
type Store interface {
	CreateStudent(ctx context.Context, name, email, rollNo string) (Student, error)
	GetStudent(ctx context.Context, id string) (*Student, error)
	ListStudents(ctx context.Context) ([]Student, error)
	ListEnrolled(ctx context.Context, sessionID string) ([]Student, error)
	Assign(ctx context.Context, sessionID, studentID string) error
	Unassign(ctx context.Context, sessionID, studentID string) error
}

// Service manages students and their session assignments.
type Service struct {
	store Store
}

// NewService creates a roster service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a student. The QR token is minted by the store.
func (s *Service) Create(ctx context.Context, name, email, rollNo string) (Student, error) {
	if name == "" || email == "" || rollNo == "" {
		return Student{}, errors.New("name, email and roll number required")
	}
	st, err := s.store.CreateStudent(ctx, name, email, rollNo)
	if err != nil {
		return Student{}, fmt.Errorf("create student: %w", err)
	}
	return st, nil
}

// Get returns a student or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Student, error) {
	st, err := s.store.GetStudent(ctx, id)
	if err != nil {
		return Student{}, fmt.Errorf("load student: %w", err)
	}
	if st == nil {
		return Student{}, ErrNotFound
	}
	return *st, nil
}

// List returns all students.
func (s *Service) List(ctx context.Context) ([]Student, error) {
	return s.store.ListStudents(ctx)
}

// Enrolled returns the students assigned to a session.
func (s *Service) Enrolled(ctx context.Context, sessionID string) ([]Student, error) {
	return s.store.ListEnrolled(ctx, sessionID)
}

// Assign adds a student to a session; duplicates are benign no-ops.
func (s *Service) Assign(ctx context.Context, sessionID, studentID string) error {
	return s.store.Assign(ctx, sessionID, studentID)
}

// AssignAll adds every listed student to the session.
func (s *Service) AssignAll(ctx context.Context, sessionID string, studentIDs []string) error {
	for _, id := range studentIDs {
		if err := s.store.Assign(ctx, sessionID, id); err != nil {
			return fmt.Errorf("assign student %s: %w", id, err)
		}
	}
	return nil
}

// Unassign removes a student from a session; missing pairs are benign no-ops.
func (s *Service) Unassign(ctx context.Context, sessionID, studentID string) error {
	return s.store.Unassign(ctx, sessionID, studentID)
}

// ImportResult reports what a CSV import did.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// csv header aliases accepted on import
var csvAliases = map[string]string{
	"student_name":  "name",
	"name":          "name",
	"student_email": "email",
	"email":         "email",
	"roll_no":       "roll",
	"roll":          "roll",
}

// ImportCSV reads a headered CSV of students and creates each row. A bad row
// is counted and skipped; it never aborts the remaining rows.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int)
	for i, h := range header {
		if canon, ok := csvAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[canon]; !dup {
				cols[canon] = i
			}
		}
	}
	for _, want := range []string{"name", "email", "roll"} {
		if _, ok := cols[want]; !ok {
			return ImportResult{}, fmt.Errorf("csv missing %s column", want)
		}
	}

	var res ImportResult
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		name, email, roll := field(record, cols["name"]), field(record, cols["email"]), field(record, cols["roll"])
		if _, err := s.Create(ctx, name, email, roll); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		res.Imported++
	}
	return res, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
