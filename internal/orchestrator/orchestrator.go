package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"StockVisualizer/internal/cache"
	"StockVisualizer/internal/collector"
	"StockVisualizer/internal/model"
	"StockVisualizer/internal/transform"
)

// Listener receives every committed view, in commit order. It runs with the
// orchestrator lock held and must not call back into the Orchestrator.
type Listener func(model.View)

// Options configures an Orchestrator. Zero values fall back to defaults.
type Options struct {
	Symbols       *model.SymbolSet
	DefaultSymbol string
	TTL           time.Duration
	Now           func() time.Time
	Logger        *zap.Logger
}

// Orchestrator sequences cache lookup, fetch, transform and cache update for
// the selected symbol, and owns the visible FetchStatus.
type Orchestrator struct {
	store         cache.Store
	client        collector.DataClient
	symbols       *model.SymbolSet
	defaultSymbol string
	ttl           time.Duration
	now           func() time.Time
	logger        *zap.Logger

	mu        sync.Mutex
	view      model.View
	gen       uint64
	cancel    context.CancelFunc
	listeners []Listener
	inflight  sync.WaitGroup
}

// New creates an Orchestrator in the Loading state for the default symbol.
// Call Start to begin the first cycle.
func New(store cache.Store, client collector.DataClient, opts Options) *Orchestrator {
	if opts.Symbols == nil {
		opts.Symbols = model.NewSymbolSet(model.DefaultSymbols)
	}
	if opts.DefaultSymbol == "" && opts.Symbols.Len() > 0 {
		opts.DefaultSymbol = opts.Symbols.List()[0]
	}
	if opts.TTL <= 0 {
		opts.TTL = cache.DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	o := &Orchestrator{
		store:         store,
		client:        client,
		symbols:       opts.Symbols,
		defaultSymbol: opts.DefaultSymbol,
		ttl:           opts.TTL,
		now:           opts.Now,
		logger:        opts.Logger,
	}
	o.view = model.View{Status: model.StatusLoading, Symbol: o.defaultSymbol, UpdatedAt: o.now()}
	return o
}

// OnChange registers a listener for future view changes.
func (o *Orchestrator) OnChange(l Listener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, l)
}

// State returns the current view. The series must be treated as read-only.
func (o *Orchestrator) State() model.View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.view
}

// Symbols returns the selectable tickers.
func (o *Orchestrator) Symbols() []string { return o.symbols.List() }

// Start runs the first cycle for the default symbol.
func (o *Orchestrator) Start(ctx context.Context) error {
	return o.Select(ctx, o.defaultSymbol)
}

// Refresh re-runs the cycle for the current symbol.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	o.mu.Lock()
	sym := o.view.Symbol
	o.mu.Unlock()
	if sym == "" {
		sym = o.defaultSymbol
	}
	return o.Select(ctx, sym)
}

// Select starts a new cycle for symbol, superseding any cycle in flight.
// A fresh cache entry resolves synchronously; otherwise the fetch runs in the
// background under a context derived from ctx. Only an unknown symbol is
// reported as an error; everything else surfaces through the view.
func (o *Orchestrator) Select(ctx context.Context, symbol string) error {
	if err := o.symbols.Validate(symbol); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.gen++
	gen := o.gen
	log := o.logger.With(zap.String("symbol", symbol), zap.String("cycle", uuid.NewString()))

	o.setLocked(model.View{Status: model.StatusLoading, Symbol: symbol})

	now := o.now()
	key := cache.Key(symbol, cache.MonthWindow(now))
	if series, ok := o.lookupLocked(ctx, key, now, log); ok {
		log.Info("serving cached series", zap.String("key", key), zap.Int("points", len(series)))
		o.setLocked(model.View{Status: model.StatusSuccess, Symbol: symbol, Series: series})
		return nil
	}

	cycleCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.inflight.Add(1)
	go o.fetch(cycleCtx, gen, symbol, key, log)
	return nil
}

// lookupLocked returns the cached series if it exists, is fresh, and decodes.
func (o *Orchestrator) lookupLocked(ctx context.Context, key string, now time.Time, log *zap.Logger) (model.NormalizedSeries, bool) {
	entry, ok, err := o.store.Get(ctx, key)
	if err != nil {
		log.Warn("cache read failed, fetching", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		log.Debug("cache miss", zap.String("key", key))
		return nil, false
	}
	if !cache.Fresh(entry, now, o.ttl) {
		log.Debug("cache entry stale", zap.String("key", key), zap.Int64("stored_at", entry.StoredAt))
		return nil, false
	}
	var series model.NormalizedSeries
	if err := json.Unmarshal([]byte(entry.Payload), &series); err != nil {
		log.Warn("cached payload unreadable, fetching", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return series, true
}

func (o *Orchestrator) fetch(ctx context.Context, gen uint64, symbol, key string, log *zap.Logger) {
	defer o.inflight.Done()

	raw, err := o.client.Fetch(ctx, symbol)

	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.gen || ctx.Err() != nil || errors.Is(err, collector.ErrCancelled) {
		log.Debug("discarding superseded fetch")
		return
	}
	o.cancel()
	o.cancel = nil

	if err != nil {
		log.Warn("fetch failed", zap.String("source", o.client.Name()), zap.Error(err))
		o.setLocked(model.View{Status: model.StatusError, Symbol: symbol, ErrorMessage: err.Error()})
		return
	}

	series, terr := transform.Transform(raw)
	if terr != nil {
		log.Warn("dropped malformed records", zap.Int("raw", len(raw)), zap.Int("kept", len(series)), zap.Error(terr))
	}
	if len(series) == 0 && len(raw) > 0 {
		msg := (&collector.FormatError{}).Error()
		o.setLocked(model.View{Status: model.StatusError, Symbol: symbol, ErrorMessage: msg})
		return
	}

	payload, err := json.Marshal(series)
	if err != nil {
		log.Error("encode series", zap.Error(err))
	} else if err := o.store.Set(context.WithoutCancel(ctx), key, cache.Entry{Payload: string(payload), StoredAt: o.now().Unix()}); err != nil {
		log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}

	log.Info("fetched series", zap.String("key", key), zap.Int("points", len(series)))
	o.setLocked(model.View{Status: model.StatusSuccess, Symbol: symbol, Series: series})
}

// Wait blocks until no fetch is in flight.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

// Close cancels the current cycle, waits for it to unwind, and goes Idle.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.gen++
	o.setLocked(model.View{Status: model.StatusIdle})
	o.mu.Unlock()

	o.inflight.Wait()
}

func (o *Orchestrator) setLocked(v model.View) {
	v.UpdatedAt = o.now()
	o.view = v
	for _, l := range o.listeners {
		l(v)
	}
}
