package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestManualStepRunsOnlyEarlierRequests(t *testing.T) {
	m := NewManual()
	var order []string
	m.RequestFrame(func() {
		order = append(order, "a")
		m.RequestFrame(func() { order = append(order, "b") })
	})

	assert.Equal(t, 1, m.Step())
	assert.Equal(t, []string{"a"}, order)
	assert.Equal(t, 1, m.Pending())

	assert.Equal(t, 1, m.Step())
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 0, m.Step())
}

func TestManualCancel(t *testing.T) {
	m := NewManual()
	fired := false
	cancel := m.RequestFrame(func() { fired = true })
	cancel()
	cancel()
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, 0, m.Step())
	assert.False(t, fired)
}

func TestTickerStepsThroughDispatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	calls := make(chan func(), 16)
	tk := NewTicker(200, func(f func()) { calls <- f })
	assert.Equal(t, 5*time.Millisecond, tk.Interval())

	fired := make(chan struct{}, 1)
	tk.RequestFrame(func() { fired <- struct{}{} })

	deadline := time.After(2 * time.Second)
	for done := false; !done; {
		select {
		case f := <-calls:
			f()
		case <-fired:
			done = true
		case <-deadline:
			t.Fatal("timed out waiting for frame")
		}
	}
	tk.Close()
	tk.Close()
}

func TestTickerCloseWithoutRequests(t *testing.T) {
	defer goleak.VerifyNone(t)

	tk := NewTicker(0, nil)
	require.Equal(t, time.Second/DefaultFPS, tk.Interval())
	tk.Close()
}
