package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures saved values for assertions.
type recorder struct {
	mu     sync.Mutex
	values []string
	err    error
}

func (r *recorder) save(_ context.Context, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, value)
	return r.err
}

func (r *recorder) saved() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNew_RequiresSaveCallback(t *testing.T) {
	_, err := New[string](time.Second, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save callback is required")
}

func TestNew_ZeroDelayUsesDefault(t *testing.T) {
	rec := &recorder{}
	d, err := New(0, rec.save, nil)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, DefaultDelay, d.delay)
}

func TestDebouncer_CoalescesRapidSets(t *testing.T) {
	rec := &recorder{}
	d, err := New(20*time.Millisecond, rec.save, nil)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Set("first"))
	require.NoError(t, d.Set("second"))
	require.NoError(t, d.Set("third"))

	waitFor(t, func() bool { return len(rec.saved()) > 0 })
	assert.Equal(t, []string{"third"}, rec.saved())
}

func TestDebouncer_FlushSavesImmediately(t *testing.T) {
	rec := &recorder{}
	d, err := New(time.Hour, rec.save, nil)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Set("pending"))
	require.NoError(t, d.Flush(context.Background()))

	assert.Equal(t, []string{"pending"}, rec.saved())

	// Nothing left to save.
	require.NoError(t, d.Flush(context.Background()))
	assert.Equal(t, []string{"pending"}, rec.saved())
}

func TestDebouncer_FlushPropagatesSaveError(t *testing.T) {
	rec := &recorder{err: errors.New("disk full")}
	d, err := New(time.Hour, rec.save, nil)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Set("v"))
	err = d.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestDebouncer_CancelDropsPendingValue(t *testing.T) {
	rec := &recorder{}
	d, err := New(20*time.Millisecond, rec.save, nil)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Set("doomed"))
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.saved())
}

func TestDebouncer_CloseIsTerminal(t *testing.T) {
	rec := &recorder{}
	d, err := New(20*time.Millisecond, rec.save, nil)
	require.NoError(t, err)

	require.NoError(t, d.Set("doomed"))
	require.NoError(t, d.Close())

	assert.ErrorIs(t, d.Set("after close"), ErrClosed)
	assert.ErrorIs(t, d.Flush(context.Background()), ErrClosed)

	// Close is idempotent and the pending value never fires.
	require.NoError(t, d.Close())
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.saved())
}
