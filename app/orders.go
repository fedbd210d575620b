package app

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/gemora/store-manager/internal/entity"
)

type ReceiptRequest struct {
	*entity.OrderReceiptInsert
}

func (rr *ReceiptRequest) Bind(r *http.Request) error {
	if rr.OrderReceiptInsert == nil {
		return fmt.Errorf("empty request body")
	}
	return rr.Validate()
}

// addReceipt is the storefront ingest endpoint; it is the only write that
// does not require admin auth.
func (s *Server) addReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := &ReceiptRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	receipt, err := s.db.Receipts().InsertReceipt(ctx, data.OrderReceiptInsert)
	if err != nil {
		slog.Default().ErrorContext(ctx, "addReceipt: insert failed", slog.String("err", err.Error()))
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	s.notifyChanged(ctx, collectionReceipts)

	render.Status(r, http.StatusCreated)
	render.Render(w, r, NewReceiptResponse(receipt, http.StatusCreated))
}

func (s *Server) getAllReceiptsList(w http.ResponseWriter, r *http.Request) {
	receipts := s.receiptsView.Snapshot()
	if err := render.RenderList(w, r, NewReceiptListResponse(receipts)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

func (s *Server) markReceiptDone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(fmt.Errorf("bad receipt id [%s]", chi.URLParam(r, "id"))))
		return
	}

	if err := s.db.Receipts().MarkReceiptDone(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			render.Render(w, r, ErrNotFound)
			return
		}
		slog.Default().ErrorContext(ctx, "markReceiptDone: update failed", slog.String("err", err.Error()))
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	s.notifyChanged(ctx, collectionReceipts)

	receipt, err := s.db.Receipts().GetReceiptById(ctx, id)
	if err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.Render(w, r, NewReceiptResponse(receipt, http.StatusOK))
}
