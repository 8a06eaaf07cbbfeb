package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/xela07ax/bestcdn-board/internal/dashboard"
	"github.com/xela07ax/bestcdn-board/internal/domain"
	"github.com/xela07ax/bestcdn-board/internal/infra"
	"go.uber.org/zap"
)

// SnapshotLoader Описываем, что нам нужно от сервиса
type SnapshotLoader interface {
	Load(ctx context.Context) (domain.Snapshot, error)
}

type PageRenderer interface {
	Render(w io.Writer, vm dashboard.ViewModel) error
}

type DashboardHandler struct {
	snapshots SnapshotLoader
	renderer  PageRenderer
	settings  dashboard.Settings
	metrics   *infra.Metrics
	logger    *zap.Logger
}

func NewDashboardHandler(
	snapshots SnapshotLoader,
	renderer PageRenderer,
	settings dashboard.Settings,
	metrics *infra.Metrics,
	logger *zap.Logger,
) *DashboardHandler {
	if metrics == nil {
		metrics = infra.NewMetrics(nil)
	}
	return &DashboardHandler{
		snapshots: snapshots,
		renderer:  renderer,
		settings:  settings,
		metrics:   metrics,
		logger:    logger.Named("dashboard-handler"),
	}
}

// Page отдаёт HTML-документ. Документ целиком собирается в буфер,
// поэтому при ошибке клиент получает только 500 без куска разметки.
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	vm, err := h.viewModel(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, vm); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write response", zap.Error(err))
	}
}

// ViewJSON отдаёт ту же модель страницы в JSON.
func (h *DashboardHandler) ViewJSON(w http.ResponseWriter, r *http.Request) {
	vm, err := h.viewModel(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	body, err := json.Marshal(vm)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *DashboardHandler) viewModel(ctx context.Context) (dashboard.ViewModel, error) {
	snap, err := h.snapshots.Load(ctx)
	if err != nil {
		return dashboard.ViewModel{}, err
	}

	vm := dashboard.Build(snap, h.settings)
	for _, p := range []dashboard.ProtocolPane{vm.IPv4, vm.IPv6} {
		if p.Dropped > 0 {
			h.metrics.DroppedRows.WithLabelValues(string(p.Protocol)).Add(float64(p.Dropped))
			h.logger.Warn("malformed measurement rows skipped",
				zap.String("protocol", string(p.Protocol)),
				zap.Int("dropped", p.Dropped))
		}
	}
	return vm, nil
}

// fail — единственная точка выхода с ошибкой: 500 и текст ошибки.
func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsCanceled(err) {
		h.logger.Debug("dashboard request canceled by client", zap.String("path", r.URL.Path))
	} else {
		h.logger.Error("dashboard request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	http.Error(w, "error: "+err.Error(), http.StatusInternalServerError)
}
