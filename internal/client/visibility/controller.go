package visibility

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/freightdesk/presence/internal/client/api"
	"github.com/freightdesk/presence/internal/client/geoloc"
	"github.com/freightdesk/presence/internal/client/state"
	"github.com/freightdesk/presence/internal/common"
	"github.com/freightdesk/presence/internal/dbx"
	"github.com/freightdesk/presence/internal/logging"
)

const syncTimeout = 5 * time.Second

// Reporter is the background location session the controller starts and
// stops as the carrier goes online and offline.
type Reporter interface {
	Start(ctx context.Context) error
	Stop()
}

type State struct {
	Online          bool
	LocationSharing bool
}

// Controller owns the visibility state machine. All transitions go through
// it; the persisted flags and the running reporter never disagree for longer
// than a single method call.
type Controller struct {
	store    *state.Store
	client   api.Client
	reporter Reporter
	logger   logging.Logger

	mu  sync.Mutex
	cur State

	syncs sync.WaitGroup
}

func NewController(store *state.Store, client api.Client, reporter Reporter, logger logging.Logger) *Controller {
	return &Controller{store: store, client: client, reporter: reporter, logger: logger}
}

// Init restores visibility from the persisted flags, reconciled against the
// server. The server is consulted read-only here: a reconciled result is
// persisted locally but never pushed back, so startup cannot flip the
// server's view of the carrier. If the reconciled state is online the
// reporter is started.
func (c *Controller) Init(ctx context.Context) error {
	repo := c.store.State()

	localOnline, localSet, err := repo.LookupBool(ctx, state.KeyOnline)
	if err != nil {
		return err
	}
	sharing, err := repo.GetBool(ctx, state.KeyLocationSharing)
	if err != nil {
		return err
	}

	var local *bool
	if localSet {
		local = &localOnline
	}

	var server *bool
	if serverOnline, err := c.client.Status(ctx); err != nil {
		c.logger.Warn(ctx, "could not fetch server status, using local state", "error", err.Error())
	} else {
		server = &serverOnline
	}

	online := Reconcile(local, server)
	if online != localOnline {
		if err := repo.SetBool(ctx, state.KeyOnline, online); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.cur = State{Online: online, LocationSharing: sharing}
	c.mu.Unlock()

	if online {
		c.startReporter(ctx)
	}
	return nil
}

// SetOnline transitions the carrier online or offline. Going offline also
// clears the location-sharing toggle; both flags are written in one
// transaction so a crash cannot leave sharing enabled while offline.
// The server is notified asynchronously on a best-effort basis.
func (c *Controller) SetOnline(ctx context.Context, online bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if online == c.cur.Online {
		return nil
	}

	if online {
		if err := c.store.State().SetBool(ctx, state.KeyOnline, true); err != nil {
			return err
		}
		c.cur.Online = true
		c.startReporter(ctx)
	} else {
		err := dbx.WithTx(ctx, c.store.DB(), nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := state.NewSQLiteRepository(tx)
			if err := repo.SetBool(ctx, state.KeyOnline, false); err != nil {
				return err
			}
			return repo.SetBool(ctx, state.KeyLocationSharing, false)
		})
		if err != nil {
			return err
		}
		c.cur = State{}
		c.reporter.Stop()
	}

	c.syncServer(online)
	return nil
}

// SetLocationSharing flips the sharing toggle. The toggle only exists while
// online; going offline clears it and it never comes back on by itself.
func (c *Controller) SetLocationSharing(ctx context.Context, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cur.Online {
		return fmt.Errorf("%w: location sharing requires online status", common.ErrorValidation)
	}

	if err := c.store.State().SetBool(ctx, state.KeyLocationSharing, enabled); err != nil {
		return err
	}
	c.cur.LocationSharing = enabled
	return nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

// Wait blocks until in-flight server notifications finish. Called on
// shutdown so a just-toggled status still reaches the server.
func (c *Controller) Wait() {
	c.syncs.Wait()
}

func (c *Controller) startReporter(ctx context.Context) {
	if err := c.reporter.Start(ctx); err != nil {
		c.logger.Warn(ctx, "location reporting unavailable", "reason", geoloc.Describe(err))
	}
}

func (c *Controller) syncServer(online bool) {
	c.syncs.Add(1)
	go func() {
		defer c.syncs.Done()

		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		if err := c.client.SetStatus(ctx, online); err != nil {
			c.logger.Warn(ctx, "could not push status to server", "online", online, "error", err.Error())
		}
	}()
}
