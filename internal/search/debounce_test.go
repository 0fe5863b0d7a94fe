package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	fired chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 16)}
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.calls = append(r.calls, v)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDebouncerDeliversLatestValueOnce(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(30*time.Millisecond, rec.record)

	d.Trigger("g")
	d.Trigger("gr")
	d.Trigger("gre")

	select {
	case <-rec.fired:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, []string{"gre"}, rec.snapshot())
}

func TestDebouncerSeparatedTriggersFireEach(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(10*time.Millisecond, rec.record)

	d.Trigger("a")
	<-rec.fired
	d.Trigger("b")
	<-rec.fired

	assert.Equal(t, []string{"a", "b"}, rec.snapshot())
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Trigger("never")
	require.True(t, d.Pending())
	d.Stop()
	d.Trigger("ignored")

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
	assert.False(t, d.Pending())
}
