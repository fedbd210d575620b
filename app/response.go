package app

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/gemora/store-manager/internal/apisrv/auth"
	"github.com/gemora/store-manager/internal/entity"
	"github.com/gemora/store-manager/internal/report"
)

// errors

type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	ErrorText  string `json:"error,omitempty"` // application-level error message, for debugging
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

func ErrInternalServerError(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     http.StatusText(http.StatusInternalServerError),
		ErrorText:      err.Error(),
	}
}

func ErrUnauthorized(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Not authenticated.",
		ErrorText:      err.Error(),
	}
}

var ErrNotFound = &ErrResponse{HTTPStatusCode: 404, StatusText: "Resource not found."}

// login

type LoginResponse struct {
	AuthToken string `json:"authToken"`
}

func (rd *LoginResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// session

type SessionResponse struct {
	Session auth.Session `json:"session"`
}

func (rd *SessionResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// product

type ProductResponse struct {
	StatusCode int             `json:"statusCode,omitempty"`
	Product    *entity.Product `json:"product,omitempty"`
}

func NewProductResponse(product *entity.Product, statusCode int) *ProductResponse {
	return &ProductResponse{Product: product, StatusCode: statusCode}
}

func (rd *ProductResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewProductListResponse(products []entity.Product) []render.Renderer {
	list := []render.Renderer{}
	for i := range products {
		list = append(list, &ProductResponse{Product: &products[i]})
	}
	return list
}

// order receipt

type ReceiptResponse struct {
	StatusCode int                  `json:"statusCode,omitempty"`
	Receipt    *entity.OrderReceipt `json:"receipt,omitempty"`
}

func NewReceiptResponse(receipt *entity.OrderReceipt, statusCode int) *ReceiptResponse {
	return &ReceiptResponse{Receipt: receipt, StatusCode: statusCode}
}

func (rd *ReceiptResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewReceiptListResponse(receipts []entity.OrderReceipt) []render.Renderer {
	list := []render.Renderer{}
	for i := range receipts {
		list = append(list, &ReceiptResponse{Receipt: &receipts[i]})
	}
	return list
}

// banner

type BannerResponse struct {
	StatusCode int            `json:"statusCode,omitempty"`
	Banner     *entity.Banner `json:"banner,omitempty"`
}

func NewBannerResponse(banner *entity.Banner, statusCode int) *BannerResponse {
	return &BannerResponse{Banner: banner, StatusCode: statusCode}
}

func (rd *BannerResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewBannerListResponse(banners []entity.Banner) []render.Renderer {
	list := []render.Renderer{}
	for i := range banners {
		list = append(list, &BannerResponse{Banner: &banners[i]})
	}
	return list
}

// report

type ReportResponse struct {
	Report *report.Report `json:"report"`
}

func (rd *ReportResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
