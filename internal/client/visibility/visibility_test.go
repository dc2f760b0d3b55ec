package visibility

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/presence/internal/client/api"
	"github.com/freightdesk/presence/internal/client/state"
	"github.com/freightdesk/presence/internal/common"
	"github.com/freightdesk/presence/internal/logging"
)

func TestReconcile(t *testing.T) {
	boolPtr := func(v bool) *bool { return &v }

	tests := []struct {
		name   string
		local  *bool
		server *bool
		want   bool
	}{
		{"local online wins over server offline", boolPtr(true), boolPtr(false), true},
		{"local online wins over server online", boolPtr(true), boolPtr(true), true},
		{"local online wins when server unreachable", boolPtr(true), nil, true},
		{"local offline wins over server online", boolPtr(false), boolPtr(true), false},
		{"both offline stays offline", boolPtr(false), boolPtr(false), false},
		{"local offline and server unreachable stays offline", boolPtr(false), nil, false},
		{"no local flag follows server online", nil, boolPtr(true), true},
		{"no local flag follows server offline", nil, boolPtr(false), false},
		{"no local flag and server unreachable stays offline", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reconcile(tt.local, tt.server))
		})
	}
}

type fakeAPI struct {
	mu         sync.Mutex
	online     bool
	statusErr  error
	setErr     error
	setHistory []bool
}

func (f *fakeAPI) Report(context.Context, api.PositionReport) error { return nil }
func (f *fakeAPI) Ping(context.Context) error                       { return nil }
func (f *fakeAPI) Close() error                                     { return nil }

func (f *fakeAPI) Status(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return false, f.statusErr
	}
	return f.online, nil
}

func (f *fakeAPI) SetStatus(_ context.Context, online bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setHistory = append(f.setHistory, online)
	return f.setErr
}

func (f *fakeAPI) SetCalls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bool, len(f.setHistory))
	copy(out, f.setHistory)
	return out
}

type fakeReporter struct {
	mu       sync.Mutex
	running  bool
	startErr error
	starts   int
}

func (r *fakeReporter) Start(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts++
	if r.startErr != nil {
		return r.startErr
	}
	r.running = true
	return nil
}

func (r *fakeReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
}

func (r *fakeReporter) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func newController(t *testing.T, client *fakeAPI, reporter *fakeReporter) (*Controller, *state.Store) {
	t.Helper()

	store, err := state.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	return NewController(store, client, reporter, logger), store
}

func TestInit_LocalOnlineWinsOverServerOffline(t *testing.T) {
	client := &fakeAPI{online: false}
	reporter := &fakeReporter{}
	c, store := newController(t, client, reporter)
	ctx := context.Background()

	require.NoError(t, store.State().SetBool(ctx, state.KeyOnline, true))

	require.NoError(t, c.Init(ctx))

	assert.True(t, c.State().Online)
	assert.True(t, reporter.Running())
	assert.Empty(t, client.SetCalls(), "init must not push status to the server")
}

func TestInit_ServerOnlineRestoresAfterReinstall(t *testing.T) {
	client := &fakeAPI{online: true}
	reporter := &fakeReporter{}
	c, store := newController(t, client, reporter)
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))

	assert.True(t, c.State().Online)
	assert.True(t, reporter.Running())

	// Reconciled value is persisted locally.
	persisted, err := store.State().GetBool(ctx, state.KeyOnline)
	require.NoError(t, err)
	assert.True(t, persisted)
}

func TestInit_ExplicitOfflineIgnoresServerOnline(t *testing.T) {
	client := &fakeAPI{online: true}
	reporter := &fakeReporter{}
	c, store := newController(t, client, reporter)
	ctx := context.Background()

	// The carrier toggled themselves offline before; the server still
	// remembering them as online must not bring them back.
	require.NoError(t, store.State().SetBool(ctx, state.KeyOnline, false))

	require.NoError(t, c.Init(ctx))

	assert.False(t, c.State().Online)
	assert.False(t, reporter.Running())
	assert.Empty(t, client.SetCalls(), "init must not push status to the server")

	persisted, err := store.State().GetBool(ctx, state.KeyOnline)
	require.NoError(t, err)
	assert.False(t, persisted)
}

func TestInit_ServerUnreachableFallsBackToLocal(t *testing.T) {
	client := &fakeAPI{statusErr: errors.New("connection refused")}
	reporter := &fakeReporter{}
	c, _ := newController(t, client, reporter)

	require.NoError(t, c.Init(context.Background()))

	assert.False(t, c.State().Online)
	assert.False(t, reporter.Running())
}

func TestInit_RestoresLocationSharing(t *testing.T) {
	client := &fakeAPI{online: true}
	reporter := &fakeReporter{}
	c, store := newController(t, client, reporter)
	ctx := context.Background()

	require.NoError(t, store.State().SetBool(ctx, state.KeyOnline, true))
	require.NoError(t, store.State().SetBool(ctx, state.KeyLocationSharing, true))

	require.NoError(t, c.Init(ctx))

	st := c.State()
	assert.True(t, st.Online)
	assert.True(t, st.LocationSharing)
}

func TestSetOnline_StartsReporterAndNotifiesServer(t *testing.T) {
	client := &fakeAPI{}
	reporter := &fakeReporter{}
	c, store := newController(t, client, reporter)
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))
	require.NoError(t, c.SetOnline(ctx, true))
	c.Wait()

	assert.True(t, c.State().Online)
	assert.True(t, reporter.Running())
	assert.Equal(t, []bool{true}, client.SetCalls())

	persisted, err := store.State().GetBool(ctx, state.KeyOnline)
	require.NoError(t, err)
	assert.True(t, persisted)
}

func TestSetOnline_OfflineClearsSharingAndStopsReporter(t *testing.T) {
	client := &fakeAPI{}
	reporter := &fakeReporter{}
	c, store := newController(t, client, reporter)
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))
	require.NoError(t, c.SetOnline(ctx, true))
	require.NoError(t, c.SetLocationSharing(ctx, true))

	require.NoError(t, c.SetOnline(ctx, false))
	c.Wait()

	st := c.State()
	assert.False(t, st.Online)
	assert.False(t, st.LocationSharing)
	assert.False(t, reporter.Running())

	sharing, err := store.State().GetBool(ctx, state.KeyLocationSharing)
	require.NoError(t, err)
	assert.False(t, sharing, "sharing flag must be cleared in the store too")
	assert.Equal(t, []bool{true, false}, client.SetCalls())
}

func TestSetOnline_SharingDoesNotComeBackAfterReenteringOnline(t *testing.T) {
	client := &fakeAPI{}
	reporter := &fakeReporter{}
	c, _ := newController(t, client, reporter)
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))
	require.NoError(t, c.SetOnline(ctx, true))
	require.NoError(t, c.SetLocationSharing(ctx, true))
	require.NoError(t, c.SetOnline(ctx, false))

	require.NoError(t, c.SetOnline(ctx, true))

	st := c.State()
	assert.True(t, st.Online)
	assert.False(t, st.LocationSharing)
}

func TestSetOnline_Idempotent(t *testing.T) {
	client := &fakeAPI{}
	reporter := &fakeReporter{}
	c, _ := newController(t, client, reporter)
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))
	require.NoError(t, c.SetOnline(ctx, true))
	require.NoError(t, c.SetOnline(ctx, true))
	c.Wait()

	assert.Equal(t, []bool{true}, client.SetCalls())
	assert.Equal(t, 1, reporter.starts)
}

func TestSetOnline_ServerPushFailureDoesNotRevertLocalState(t *testing.T) {
	client := &fakeAPI{setErr: errors.New("server down")}
	reporter := &fakeReporter{}
	c, _ := newController(t, client, reporter)
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))
	require.NoError(t, c.SetOnline(ctx, true))
	c.Wait()

	assert.True(t, c.State().Online)
	assert.True(t, reporter.Running())
}

func TestSetOnline_ReporterFailureKeepsCarrierOnline(t *testing.T) {
	client := &fakeAPI{}
	reporter := &fakeReporter{startErr: errors.New("permission denied")}
	c, _ := newController(t, client, reporter)
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))
	require.NoError(t, c.SetOnline(ctx, true))

	assert.True(t, c.State().Online)
	assert.False(t, reporter.Running())
}

func TestSetLocationSharing_RequiresOnline(t *testing.T) {
	client := &fakeAPI{}
	reporter := &fakeReporter{}
	c, _ := newController(t, client, reporter)
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))

	err := c.SetLocationSharing(ctx, true)
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.False(t, c.State().LocationSharing)
}

func TestWait_ReturnsAfterSyncCompletes(t *testing.T) {
	client := &fakeAPI{}
	reporter := &fakeReporter{}
	c, _ := newController(t, client, reporter)
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))
	require.NoError(t, c.SetOnline(ctx, true))

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return")
	}
}
