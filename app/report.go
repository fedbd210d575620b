package app

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/render"

	"github.com/gemora/store-manager/internal/report"
)

// getReport resolves the requested range, pulls range-scoped receipts from
// the store and the catalog from the projection, and aggregates.
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	preset := report.Preset(r.URL.Query().Get("preset"))
	if preset == "" {
		preset = report.PresetLast7Days
	}

	rng, err := report.ResolveRange(preset, r.URL.Query().Get("from"), r.URL.Query().Get("to"), time.Now())
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	orders, err := s.db.Receipts().GetReceiptsInRange(ctx, rng.FromMs, rng.ToMs)
	if err != nil {
		slog.Default().ErrorContext(ctx, "getReport: range query failed", slog.String("err", err.Error()))
		render.Render(w, r, ErrInternalServerError(err))
		return
	}

	rep := report.Build(orders, s.catalogView.Snapshot(), rng)

	if err := render.Render(w, r, &ReportResponse{Report: rep}); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}
