package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	scanned := time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC)
	rows := []Row{
		{Name: "A", RollNo: "1", Email: "a@x.com", Status: "present", ScannedAt: &scanned},
		{Name: `Riley "Ri" Chen, Jr.`, RollNo: "2", Email: "r@x.com", Status: "absent"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 3)

	assert.Equal(t, []string{"name", "roll_no", "email", "status", "scanned_at"}, parsed[0])
	assert.Equal(t, []string{"A", "1", "a@x.com", "present", "2026-03-12T09:30:00Z"}, parsed[1])
	// quoting survives embedded commas and quotes
	assert.Equal(t, []string{`Riley "Ri" Chen, Jr.`, "2", "r@x.com", "absent", ""}, parsed[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "name,roll_no,email,status,scanned_at\n", buf.String())
}
