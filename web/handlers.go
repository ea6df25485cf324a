package web

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/starfederation/datastar-go/datastar"
	"golang.org/x/sync/singleflight"

	"vehicles-dashboard/apperrors"
	"vehicles-dashboard/cache"
	"vehicles-dashboard/dashboard"
	"vehicles-dashboard/models"
	"vehicles-dashboard/services"
	"vehicles-dashboard/storage"
	"vehicles-dashboard/telemetry"
	"vehicles-dashboard/utils"
)

// SnapshotSource hands out the current dataset snapshot.
type SnapshotSource interface {
	Current() *storage.Snapshot
}

// renderedView is what gets cached per (version, view, state).
type renderedView struct {
	Figure  json.RawMessage `json:"figure"`
	Caption string          `json:"caption"`
}

// pageMemo holds the per-version data every page render needs.
type pageMemo struct {
	version string
	report  *models.InsightReport
	options dashboard.FilterOptions
	preview models.Preview
	signals string
}

// Handlers provides the HTTP handlers of the dashboard.
type Handlers struct {
	source   SnapshotSource
	profile  dashboard.Profile
	banner   []byte
	cache    cache.Cache
	cacheTTL time.Duration
	notifier *Notifier
	insights *services.InsightService
	logger   *utils.Logger

	group  singleflight.Group
	memoMu sync.Mutex
	memo   *pageMemo
}

// NewHandlers creates a new Handlers instance. A nil cache disables render
// caching; an empty banner disables /banner.png.
func NewHandlers(source SnapshotSource, profile dashboard.Profile, banner []byte, c cache.Cache, cacheTTL time.Duration,
	notify *Notifier, insights *services.InsightService, logger *utils.Logger) *Handlers {
	if c == nil {
		c = cache.Nop{}
	}
	return &Handlers{
		source:   source,
		profile:  profile,
		banner:   banner,
		cache:    c,
		cacheTTL: cacheTTL,
		notifier: notify,
		insights: insights,
		logger:   logger,
	}
}

// Page renders the full dashboard for the tab named by ?tab=.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	snap := h.source.Current()
	if snap == nil {
		http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
		return
	}

	active := models.ViewID(r.URL.Query().Get("tab"))
	if !h.profile.Has(active) {
		active = h.profile.Views[0]
	}

	memo := h.pageData(snap)
	data := PageData{
		Profile: h.profile,
		Active:  active,
		Banner:  h.profile.Banner && len(h.banner) > 0,
		Report:  memo.report,
		Options: memo.options,
		Signals: memo.signals,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Page(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// View streams one view for the widget values carried by the request's
// signals: the preview tables as an element patch, charts as a
// Plotly.react script plus the caption.
func (h *Handlers) View(w http.ResponseWriter, r *http.Request) {
	view := models.ViewID(chi.URLParam(r, "view"))
	if !h.profile.Has(view) {
		http.Error(w, "unknown view "+string(view), http.StatusNotFound)
		return
	}

	state, err := readState(r)
	if err != nil {
		http.Error(w, err.Error(), apperrors.HTTPStatus(err))
		return
	}

	snap := h.source.Current()
	if snap == nil {
		http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
		return
	}

	sse := datastar.NewSSE(w, r)

	if view == models.ViewPreview {
		if err := sse.PatchElementTempl(PreviewBody(h.pageData(snap).preview)); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}

	rv, err := h.renderChart(r.Context(), snap, view, state)
	if err != nil {
		h.logger.Error("[web] render %s: %v", view, err)
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.ExecuteScript(reactScript(view, rv.Figure)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(Caption(view, rv.Caption)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Events is the long-lived SSE endpoint of the page. It asks the browser to
// reload whenever a new dataset version is published.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.ExecuteScript("window.location.reload()"); err != nil {
				return
			}
		}
	}
}

// Banner serves the resized banner image.
func (h *Handlers) Banner(w http.ResponseWriter, r *http.Request) {
	if len(h.banner) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(h.banner)))
	_, _ = w.Write(h.banner)
}

// renderChart renders view once per distinct key across concurrent
// requests, going through the cache first.
func (h *Handlers) renderChart(ctx context.Context, snap *storage.Snapshot, view models.ViewID, state dashboard.State) (*renderedView, error) {
	key := cacheKey(snap.Version, view, state)

	v, err, _ := h.group.Do(key, func() (interface{}, error) {
		switch cached, err := h.cache.Get(ctx, key); {
		case err == nil:
			var rv renderedView
			if err := json.Unmarshal(cached, &rv); err == nil {
				h.logger.Debug("[web] cache hit %s", key)
				return &rv, nil
			}
			h.logger.Warn("[web] discarding unreadable cache entry %s", key)
			if err := h.cache.Delete(ctx, key); err != nil {
				h.logger.Warn("[web] cache delete %s: %v", key, err)
			}
		case !errors.Is(err, cache.ErrMiss):
			h.logger.Warn("[web] cache get %s: %v", key, err)
		}

		ctx, span := telemetry.Tracer("web").Start(ctx, "view.render")
		defer span.End()
		span.SetAttributes(
			telemetry.String("view", string(view)),
			telemetry.String("dataset.version", snap.Version),
		)

		start := time.Now()
		spec, err := dashboard.Render(view, snap.Table, state)
		if err != nil {
			telemetry.Fail(span, "render", err)
			return nil, err
		}
		fig, err := FigureJSON(spec)
		if err != nil {
			telemetry.Fail(span, "figure", err)
			return nil, err
		}
		rv := &renderedView{Figure: fig, Caption: captionText(spec)}
		span.SetAttributes(telemetry.Int("view.rows", spec.Rows))
		h.logger.Debug("[web] rendered %s (%d rows) in %v", view, spec.Rows, time.Since(start).Round(time.Millisecond))

		b, err := json.Marshal(rv)
		if err == nil {
			err = h.cache.Set(ctx, key, b, h.cacheTTL)
		}
		if err != nil {
			h.logger.Warn("[web] cache set %s: %v", key, err)
		}
		return rv, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*renderedView), nil
}

// pageData returns the memo for snap's version, building it on first use.
func (h *Handlers) pageData(snap *storage.Snapshot) *pageMemo {
	h.memoMu.Lock()
	defer h.memoMu.Unlock()

	if h.memo != nil && h.memo.version == snap.Version {
		return h.memo
	}

	opts := dashboard.Options(snap.Table)
	h.memo = &pageMemo{
		version: snap.Version,
		report:  h.insights.Generate(snap.Table),
		options: opts,
		preview: dashboard.RawPreview(snap.Table),
		signals: initialSignals(opts),
	}
	return h.memo
}

// readState decodes the datastar signals of r over the default State and
// normalises the result. Widgets without a signal keep their default.
// Signals are decoded loosely so that widgets reporting numbers as strings
// still land in numeric fields.
func readState(r *http.Request) (dashboard.State, error) {
	signals := make(map[string]interface{})
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return dashboard.State{}, apperrors.InvalidInput("read signals", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(signals, "."), nil); err != nil {
		return dashboard.State{}, apperrors.InvalidInput("load signals", err)
	}
	state := dashboard.DefaultState()
	if err := k.UnmarshalWithConf("", &state, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return dashboard.State{}, apperrors.InvalidInput("decode signals", err)
	}
	return state.Normalize(), nil
}

// initialSignals is the data-signals object of a fresh page. Multiselects
// start as empty arrays so the browser binds them as lists.
func initialSignals(opts dashboard.FilterOptions) string {
	def := dashboard.DefaultState()
	year := 0
	if len(opts.Years) > 0 {
		year = opts.Years[0]
	}
	signals := map[string]interface{}{
		"priceMin":      def.PriceMin,
		"priceMax":      def.PriceMax,
		"priceSplit":    def.PriceSplit,
		"geoMetric":     def.GeoMetric,
		"odometerColor": def.OdometerColor,
		"topN":          def.TopN,
		"year":          year,
	}
	for _, col := range dashboard.ModelFilterColumns {
		signals[col] = []string{}
	}
	b, _ := json.Marshal(signals)
	return string(b)
}

// cacheKey identifies a render by dataset version, view and widget state.
func cacheKey(version string, view models.ViewID, state dashboard.State) string {
	b, _ := json.Marshal(state)
	sum := sha256.Sum256(b)
	return fmt.Sprintf("view:%s:%s:%s", version, view, hex.EncodeToString(sum[:8]))
}
