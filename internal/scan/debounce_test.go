package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerSuppressesIdenticalPayload(t *testing.T) {
	now := time.Now()
	d := NewDebouncer(3 * time.Second)
	d.now = func() time.Time { return now }

	assert.True(t, d.Allow("payload-a"))
	assert.False(t, d.Allow("payload-a"))

	// a different payload is never blocked during the window
	assert.True(t, d.Allow("payload-b"))

	// suppression clears after the cooldown
	now = now.Add(3 * time.Second)
	assert.True(t, d.Allow("payload-a"))
}

func TestDebouncerInFlight(t *testing.T) {
	d := NewDebouncer(time.Second)
	assert.True(t, d.Begin())
	assert.False(t, d.Begin())
	d.End()
	assert.True(t, d.Begin())
}
