package app

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/gemora/store-manager/internal/entity"
)

const bannersFolder = "Banners"

func (s *Server) addBanner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseMultipartForm(maxUploadFormSize); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	data := &entity.BannerInsert{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Subtitle: strings.TrimSpace(r.FormValue("subtitle")),
		Discount: strings.TrimSpace(r.FormValue("discount")),
	}

	if f, err := s.uploadFormFile(ctx, r, "image", bannersFolder); err != nil {
		slog.Default().ErrorContext(ctx, "addBanner: image upload failed", slog.String("err", err.Error()))
		render.Render(w, r, ErrInternalServerError(err))
		return
	} else if f != nil {
		data.ImageURL, data.ImagePath = f.URL, f.ObjectKey
	} else {
		data.ImageURL = strings.TrimSpace(r.FormValue("imageUrl"))
	}

	if err := data.Validate(); err != nil {
		s.cleanupBlobs(ctx, data.ImagePath)
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	id, err := s.db.Banners().AddBanner(ctx, data)
	if err != nil {
		slog.Default().ErrorContext(ctx, "addBanner: insert failed", slog.String("err", err.Error()))
		s.cleanupBlobs(ctx, data.ImagePath)
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	s.notifyChanged(ctx, collectionBanners)

	banner, err := s.db.Banners().GetBannerById(ctx, id)
	if err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.Status(r, http.StatusCreated)
	render.Render(w, r, NewBannerResponse(banner, http.StatusCreated))
}

func (s *Server) getBannersList(w http.ResponseWriter, r *http.Request) {
	banners := s.bannersView.Snapshot()
	if err := render.RenderList(w, r, NewBannerListResponse(banners)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

func (s *Server) deleteBannerById(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(fmt.Errorf("bad banner id [%s]", chi.URLParam(r, "id"))))
		return
	}

	banner, err := s.db.Banners().GetBannerById(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			render.Render(w, r, ErrNotFound)
			return
		}
		render.Render(w, r, ErrInternalServerError(err))
		return
	}

	if err := s.db.Banners().DeleteBannerById(ctx, id); err != nil {
		slog.Default().ErrorContext(ctx, "deleteBannerById: delete failed", slog.String("err", err.Error()))
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	s.cleanupBlobs(ctx, banner.ImagePath)
	s.notifyChanged(ctx, collectionBanners)

	render.Render(w, r, NewBannerResponse(banner, http.StatusOK))
}
