package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/gemora/store-manager/internal/entity"
)

const (
	itemsFolder       = "Items"
	maxUploadFormSize = 32 << 20
)

type ProductCtxKey struct{}

// productInsertFromForm reads the multipart product fields. Image slots are
// filled by the caller.
func productInsertFromForm(r *http.Request) (*entity.ProductInsert, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
	if err != nil {
		return nil, fmt.Errorf("bad price [%s]: %w", r.FormValue("price"), err)
	}

	stock := 0
	if v := strings.TrimSpace(r.FormValue("stock")); v != "" {
		stock, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("bad stock [%s]: %w", v, err)
		}
	}

	return &entity.ProductInsert{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    entity.CategoryEnum(strings.TrimSpace(r.FormValue("category"))),
		Price:       price,
		Stock:       stock,
	}, nil
}

// uploadFormFile stores one uploaded file under the folder and returns its
// blob reference, or nil when the field is absent.
func (s *Server) uploadFormFile(ctx context.Context, r *http.Request, field, folder string) (*entity.StoredFile, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bad file field [%s]: %w", field, err)
	}
	defer file.Close()

	return s.files.UploadFile(ctx, folder, header.Filename, formFileContentType(header), file, header.Size)
}

func formFileContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// notifyChanged publishes a change tick; a failed publish only delays the
// projections until the next write, so it is logged and swallowed.
func (s *Server) notifyChanged(ctx context.Context, collection string) {
	if err := s.feed.Publish(ctx, collection); err != nil {
		slog.Default().ErrorContext(ctx, "failed to publish change",
			slog.String("collection", collection),
			slog.String("err", err.Error()),
		)
	}
}

// cleanupBlobs deletes replaced or orphaned objects after a successful
// mutation. The mutation already happened, so failures are logged only.
func (s *Server) cleanupBlobs(ctx context.Context, objectKeys ...string) {
	if err := s.files.DeleteFromBucket(ctx, objectKeys); err != nil {
		slog.Default().ErrorContext(ctx, "failed to clean up blobs",
			slog.String("err", err.Error()),
		)
	}
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseMultipartForm(maxUploadFormSize); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	data, err := productInsertFromForm(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if f, err := s.uploadFormFile(ctx, r, "image", itemsFolder); err != nil {
		slog.Default().ErrorContext(ctx, "addProduct: image upload failed", slog.String("err", err.Error()))
		render.Render(w, r, ErrInternalServerError(err))
		return
	} else if f != nil {
		data.ImageURL, data.ImagePath = f.URL, f.ObjectKey
	} else {
		data.ImageURL = strings.TrimSpace(r.FormValue("imageUrl"))
	}

	if f, err := s.uploadFormFile(ctx, r, "image2", itemsFolder); err != nil {
		slog.Default().ErrorContext(ctx, "addProduct: image2 upload failed", slog.String("err", err.Error()))
		render.Render(w, r, ErrInternalServerError(err))
		return
	} else if f != nil {
		data.ImageURL2, data.ImagePath2 = f.URL, f.ObjectKey
	} else {
		data.ImageURL2 = strings.TrimSpace(r.FormValue("imageUrl2"))
	}

	if err := data.Validate(); err != nil {
		// drop blobs uploaded for a rejected product
		s.cleanupBlobs(ctx, data.ImagePath, data.ImagePath2)
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	id, err := s.db.Catalog().AddProduct(ctx, data)
	if err != nil {
		slog.Default().ErrorContext(ctx, "addProduct: insert failed", slog.String("err", err.Error()))
		s.cleanupBlobs(ctx, data.ImagePath, data.ImagePath2)
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	s.notifyChanged(ctx, collectionProducts)

	prd, err := s.db.Catalog().GetProductById(ctx, id)
	if err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.Status(r, http.StatusCreated)
	render.Render(w, r, NewProductResponse(prd, http.StatusCreated))
}

func (s *Server) modifyProductById(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cProduct, ok := ctx.Value(ProductCtxKey{}).(*entity.Product)
	if !ok {
		render.Render(w, r, ErrInvalidRequest(fmt.Errorf("modifyProductById: empty context")))
		return
	}

	if err := r.ParseMultipartForm(maxUploadFormSize); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	data, err := productInsertFromForm(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	var stale []string

	if f, err := s.uploadFormFile(ctx, r, "image", itemsFolder); err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	} else if f != nil {
		data.ImageURL, data.ImagePath = f.URL, f.ObjectKey
		stale = append(stale, cProduct.ImagePath)
	} else if v := strings.TrimSpace(r.FormValue("imageUrl")); v != "" && v != cProduct.ImageURL {
		data.ImageURL = v
		stale = append(stale, cProduct.ImagePath)
	} else {
		data.ImageURL, data.ImagePath = cProduct.ImageURL, cProduct.ImagePath
	}

	if f, err := s.uploadFormFile(ctx, r, "image2", itemsFolder); err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	} else if f != nil {
		data.ImageURL2, data.ImagePath2 = f.URL, f.ObjectKey
		stale = append(stale, cProduct.ImagePath2)
	} else if v := strings.TrimSpace(r.FormValue("imageUrl2")); v != "" && v != cProduct.ImageURL2 {
		data.ImageURL2 = v
		stale = append(stale, cProduct.ImagePath2)
	} else {
		data.ImageURL2, data.ImagePath2 = cProduct.ImageURL2, cProduct.ImagePath2
	}

	if err := data.Validate(); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := s.db.Catalog().UpdateProduct(ctx, cProduct.Id, data); err != nil {
		slog.Default().ErrorContext(ctx, "modifyProductById: update failed", slog.String("err", err.Error()))
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	s.cleanupBlobs(ctx, stale...)
	s.notifyChanged(ctx, collectionProducts)

	prd, err := s.db.Catalog().GetProductById(ctx, cProduct.Id)
	if err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.Render(w, r, NewProductResponse(prd, http.StatusOK))
}

func (s *Server) deleteProductById(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cProduct, ok := ctx.Value(ProductCtxKey{}).(*entity.Product)
	if !ok {
		render.Render(w, r, ErrInvalidRequest(fmt.Errorf("deleteProductById: empty context")))
		return
	}

	if err := s.db.Catalog().DeleteProductById(ctx, cProduct.Id); err != nil {
		slog.Default().ErrorContext(ctx, "deleteProductById: delete failed", slog.String("err", err.Error()))
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	s.cleanupBlobs(ctx, cProduct.ImagePath, cProduct.ImagePath2)
	s.notifyChanged(ctx, collectionProducts)

	render.Render(w, r, NewProductResponse(cProduct, http.StatusOK))
}

func (s *Server) getAllProductsList(w http.ResponseWriter, r *http.Request) {
	products := s.catalogView.Snapshot()
	if err := render.RenderList(w, r, NewProductListResponse(products)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

func (s *Server) getProductById(w http.ResponseWriter, r *http.Request) {
	product, ok := r.Context().Value(ProductCtxKey{}).(*entity.Product)
	if !ok {
		render.Render(w, r, ErrNotFound)
		return
	}
	if err := render.Render(w, r, NewProductResponse(product, http.StatusOK)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

func (s *Server) ProductCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Render(w, r, ErrInvalidRequest(fmt.Errorf("bad product id [%s]", chi.URLParam(r, "id"))))
			return
		}

		product, err := s.db.Catalog().GetProductById(r.Context(), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				render.Render(w, r, ErrNotFound)
				return
			}
			render.Render(w, r, ErrInternalServerError(err))
			return
		}

		ctx := context.WithValue(r.Context(), ProductCtxKey{}, product)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
