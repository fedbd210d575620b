package dependency

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/gemora/store-manager/internal/entity"
	"github.com/jmoiron/sqlx"
)

type (
	ContextStore interface {
		Tx(ctx context.Context, fn func(ctx context.Context, store Repository) error) error
	}

	Catalog interface {
		ContextStore
		// AddProduct inserts a new catalog product and returns its id.
		AddProduct(ctx context.Context, prd *entity.ProductInsert) (int, error)
		// UpdateProduct overwrites the product body by id.
		UpdateProduct(ctx context.Context, id int, prd *entity.ProductInsert) error
		// DeleteProductById deletes a product by its id.
		DeleteProductById(ctx context.Context, id int) error
		// GetProductById returns a product by its id.
		GetProductById(ctx context.Context, id int) (*entity.Product, error)
		// GetAllProducts returns the full catalog snapshot.
		GetAllProducts(ctx context.Context) ([]entity.Product, error)
	}

	Receipts interface {
		// InsertReceipt stores a receipt written by the storefront and
		// returns it with the generated receipt id.
		InsertReceipt(ctx context.Context, r *entity.OrderReceiptInsert) (*entity.OrderReceipt, error)
		// GetAllReceipts returns all receipts, newest first.
		GetAllReceipts(ctx context.Context) ([]entity.OrderReceipt, error)
		// GetReceiptsInRange returns receipts created inside the inclusive
		// millisecond interval, newest first.
		GetReceiptsInRange(ctx context.Context, fromMs, toMs int64) ([]entity.OrderReceipt, error)
		GetReceiptById(ctx context.Context, id int) (*entity.OrderReceipt, error)
		// MarkReceiptDone overwrites the status with "done" and bumps the
		// update timestamp. No concurrency check against a stale read.
		MarkReceiptDone(ctx context.Context, id int) error
	}

	Banners interface {
		AddBanner(ctx context.Context, b *entity.BannerInsert) (int, error)
		GetBannerById(ctx context.Context, id int) (*entity.Banner, error)
		DeleteBannerById(ctx context.Context, id int) error
		// GetBanners returns all banners, newest first.
		GetBanners(ctx context.Context) ([]entity.Banner, error)
	}

	Repository interface {
		Catalog() Catalog
		Receipts() Receipts
		Banners() Banners
		Tx(ctx context.Context, f func(context.Context, Repository) error) error
		TxBegin(ctx context.Context) (Repository, error)
		TxCommit(ctx context.Context) error
		TxRollback(ctx context.Context) error
		Now() time.Time
		InTx() bool
		Close()
		Ping(ctx context.Context) error
		IsErrUniqueViolation(err error) bool
		DB() DB
	}

	// DB represents database interface.
	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	// FileStore is the blob storage collaborator.
	FileStore interface {
		// UploadFile streams a binary object under
		// <folder>/<epochMillis>_<sanitizedFilename> and returns its public
		// URL plus the object key used for later cleanup.
		UploadFile(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (*entity.StoredFile, error)
		// DeleteFromBucket removes uploaded objects. Callers doing cleanup
		// after a successful mutation swallow the returned error.
		DeleteFromBucket(ctx context.Context, objectKeys []string) error
	}

	// ChangeFeed is the change-notification collaborator. One channel per
	// collection; a message means "the collection changed, re-read it".
	ChangeFeed interface {
		Publish(ctx context.Context, collection string) error
		// Subscribe returns a notification channel and a cancel func that
		// releases the subscription.
		Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error)
	}
)
