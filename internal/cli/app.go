package cli

import (
	"context"
	"fmt"

	"github.com/packsync/packsync/internal/api"
	"github.com/packsync/packsync/internal/clock"
	"github.com/packsync/packsync/internal/config"
	"github.com/packsync/packsync/internal/netmon"
	"github.com/packsync/packsync/internal/offline"
	"github.com/packsync/packsync/internal/query"
	"github.com/packsync/packsync/internal/state"
	syncpkg "github.com/packsync/packsync/internal/sync"
	"github.com/packsync/packsync/internal/toast"
)

// App owns the application object graph: the REST client, the query
// cache, the mutation wrapper with its batcher and gauges, the offline
// queue, the network monitor, and persisted list state. Everything is
// constructed here and torn down in Close; nothing lives in package
// globals.
type App struct {
	Config  config.Config
	Sources config.Sources

	Client  *api.Client
	Cache   *query.Cache
	Status  *syncpkg.Status
	Batcher *syncpkg.Batcher
	Monitor *netmon.Monitor
	Queue   *offline.Queue
	Mutator *syncpkg.Mutator
	Lists   *state.Store
	Notify  toast.Notifier
}

// NewApp builds the object graph from cfg. notify receives user-facing
// toasts; pass a toast.Recorder in tests.
func NewApp(ctx context.Context, cfg config.Config, sources config.Sources, notify toast.Notifier) (*App, error) {
	client, err := api.New(cfg.BaseURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithRetries(cfg.Retries))
	if err != nil {
		return nil, fmt.Errorf("init app: %w", err)
	}

	queue, err := offline.Open(ctx, cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("init app: %w", err)
	}

	lists, err := state.Load(cfg.StateDir)
	if err != nil {
		_ = queue.Close()

		return nil, fmt.Errorf("init app: %w", err)
	}

	app := &App{
		Config:  cfg,
		Sources: sources,
		Client:  client,
		Cache:   query.NewCache(),
		Status:  syncpkg.NewStatus(),
		Queue:   queue,
		Lists:   lists,
		Notify:  notify,
	}

	app.Batcher = syncpkg.NewBatcher(clock.System(), func(listID int, keys []query.Key) {
		app.refetch(context.Background(), listID, keys)
	})

	app.Monitor = netmon.NewMonitor(client.Ping, notify,
		netmon.WithInterval(cfg.ProbeInterval()))

	app.Mutator = syncpkg.NewMutator(client, app.Cache, app.Batcher, app.Status,
		app.Monitor, queue, notify)

	return app, nil
}

// Close tears the graph down: pending batches are dropped (the next
// session refetches anyway) and the queue handle is released.
func (a *App) Close() error {
	a.Batcher.Stop()

	err := a.Queue.Close()
	if err != nil {
		return fmt.Errorf("close app: %w", err)
	}

	return nil
}

// refetch is the batcher's flush target: mark every settled key stale,
// then refresh the list's aggregate view and fan its collections out
// into the cache. The remaining stale keys refresh lazily on next read.
func (a *App) refetch(ctx context.Context, listID int, keys []query.Key) {
	a.Cache.MarkStale(keys...)

	complete, err := a.Client.Complete(ctx, listID)
	if err != nil {
		// Still stale; the next read retries. Nothing to roll back.
		return
	}

	a.Cache.Set(query.CompleteKey(listID), complete)
	a.Cache.Set(query.CollectionKey(listID, query.KindItem), complete.Items)
	a.Cache.Set(query.CollectionKey(listID, query.KindCategory), complete.Categories)
	a.Cache.Set(query.CollectionKey(listID, query.KindBag), complete.Bags)
	a.Cache.Set(query.CollectionKey(listID, query.KindTraveler), complete.Travelers)
}

// ActivateList makes listID the active list, fetches its summary, and
// records it in the recent-lists cache. Offline, the list still becomes
// active; the summary push just doesn't happen.
func (a *App) ActivateList(ctx context.Context, listID int) error {
	err := a.Lists.SetActive(listID)
	if err != nil {
		return fmt.Errorf("activate list %d: %w", listID, err)
	}

	summary, err := a.Client.ListSummary(ctx, listID)
	if err != nil {
		if !a.Monitor.Online() {
			return nil
		}

		return fmt.Errorf("activate list %d: %w", listID, err)
	}

	a.Cache.Set(query.SummaryKey(listID), summary)

	err = a.Lists.PushRecent(summary)
	if err != nil {
		return fmt.Errorf("activate list %d: %w", listID, err)
	}

	return nil
}

// ActiveListID returns the active list or an error telling the user to
// pick one.
func (a *App) ActiveListID() (int, error) {
	listID, ok := a.Lists.ActiveListID()
	if !ok {
		return 0, errNoActiveList
	}

	return listID, nil
}

// CompleteView returns the aggregate view for listID, from cache when
// fresh, refetching when absent or stale.
func (a *App) CompleteView(ctx context.Context, listID int) (api.CompleteList, error) {
	key := query.CompleteKey(listID)

	if cached, ok := a.Cache.Get(key); ok && !a.Cache.Stale(key) {
		if complete, ok := cached.(api.CompleteList); ok {
			return complete, nil
		}
	}

	complete, err := a.Client.Complete(ctx, listID)
	if err != nil {
		// A stale cached view beats nothing while offline.
		if cached, ok := a.Cache.Get(key); ok {
			if complete, ok := cached.(api.CompleteList); ok {
				return complete, nil
			}
		}

		return api.CompleteList{}, err
	}

	a.Cache.Set(key, complete)
	a.Cache.Set(query.CollectionKey(listID, query.KindItem), complete.Items)
	a.Cache.Set(query.CollectionKey(listID, query.KindCategory), complete.Categories)
	a.Cache.Set(query.CollectionKey(listID, query.KindBag), complete.Bags)
	a.Cache.Set(query.CollectionKey(listID, query.KindTraveler), complete.Travelers)

	return complete, nil
}

// CatchUp runs once after connectivity returns: replay the offline
// queue, then force-refresh the active list so the UI reflects merged
// state.
func (a *App) CatchUp(ctx context.Context) (syncpkg.ReplayReport, error) {
	report, err := a.Mutator.ReplayQueue(ctx)
	if err != nil {
		return report, err
	}

	if listID, ok := a.Lists.ActiveListID(); ok {
		a.Batcher.Immediate(listID, query.Plan(listID, query.KindItem))
	}

	return report, nil
}
