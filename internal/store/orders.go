package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gemora/store-manager/internal/dependency"
	"github.com/gemora/store-manager/internal/entity"
)

type receiptStore struct {
	*MYSQLStore
}

// Receipts returns an object implementing the receipts interface
func (ms *MYSQLStore) Receipts() dependency.Receipts {
	return &receiptStore{
		MYSQLStore: ms,
	}
}

// receiptRaw is the flat scan shape of an order_receipts row; the nested
// customer block is assembled from it.
type receiptRaw struct {
	Id              int                 `db:"id"`
	ReceiptId       string              `db:"receipt_id"`
	CustomerName    string              `db:"customer_name"`
	CustomerPhone   string              `db:"customer_phone"`
	CustomerAddress string              `db:"customer_address"`
	CustomerId      string              `db:"customer_id"`
	CustomerEmail   string              `db:"customer_email"`
	UserId          string              `db:"user_id"`
	Status          string              `db:"status"`
	Discount        string              `db:"discount"`
	Total           entity.Amount       `db:"total"`
	Items           entity.ReceiptItems `db:"items"`
	CreatedAt       time.Time           `db:"created_at"`
	UpdatedAt       sql.NullTime        `db:"updated_at"`
}

func (r receiptRaw) toEntity() entity.OrderReceipt {
	return entity.OrderReceipt{
		Id:        r.Id,
		ReceiptId: r.ReceiptId,
		Customer: entity.Customer{
			Name:    r.CustomerName,
			Phone:   r.CustomerPhone,
			Address: r.CustomerAddress,
			Id:      r.CustomerId,
			Email:   r.CustomerEmail,
		},
		UserId:    r.UserId,
		Status:    r.Status,
		Discount:  r.Discount,
		Total:     r.Total,
		Items:     r.Items,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const receiptColumns = `id, receipt_id, customer_name, customer_phone, customer_address,
	customer_id, customer_email, user_id, status, discount, total, items, created_at, updated_at`

func (ms *MYSQLStore) InsertReceipt(ctx context.Context, r *entity.OrderReceiptInsert) (*entity.OrderReceipt, error) {
	status := r.Status
	if status == "" {
		status = entity.StatusPending
	}

	receiptId := uuid.New().String()
	createdAt := ms.Now()

	query := `
	INSERT INTO order_receipts
	(receipt_id, customer_name, customer_phone, customer_address, customer_id, customer_email,
		user_id, status, discount, total, items, created_at)
	VALUES (:receiptId, :customerName, :customerPhone, :customerAddress, :customerId, :customerEmail,
		:userId, :status, :discount, :total, :items, :createdAt)`

	id, err := ExecNamedLastId(ctx, ms.db, query, map[string]any{
		"receiptId":       receiptId,
		"customerName":    r.Customer.Name,
		"customerPhone":   r.Customer.Phone,
		"customerAddress": r.Customer.Address,
		"customerId":      r.Customer.Id,
		"customerEmail":   r.Customer.Email,
		"userId":          r.UserId,
		"status":          status,
		"discount":        r.Discount,
		"total":           r.Total,
		"items":           r.Items,
		"createdAt":       createdAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert receipt: %w", err)
	}

	return &entity.OrderReceipt{
		Id:        id,
		ReceiptId: receiptId,
		Customer:  r.Customer,
		UserId:    r.UserId,
		Status:    status,
		Discount:  r.Discount,
		Total:     r.Total,
		Items:     r.Items,
		CreatedAt: createdAt,
	}, nil
}

func (ms *MYSQLStore) GetAllReceipts(ctx context.Context) ([]entity.OrderReceipt, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM order_receipts
	ORDER BY created_at DESC, id DESC`, receiptColumns)

	raws, err := QueryListNamed[receiptRaw](ctx, ms.db, query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to get receipts: %w", err)
	}

	receipts := make([]entity.OrderReceipt, 0, len(raws))
	for _, r := range raws {
		receipts = append(receipts, r.toEntity())
	}
	return receipts, nil
}

func (ms *MYSQLStore) GetReceiptsInRange(ctx context.Context, fromMs, toMs int64) ([]entity.OrderReceipt, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM order_receipts
	WHERE created_at >= :fromTs AND created_at <= :toTs
	ORDER BY created_at DESC, id DESC`, receiptColumns)

	raws, err := QueryListNamed[receiptRaw](ctx, ms.db, query, map[string]any{
		"fromTs": time.UnixMilli(fromMs),
		"toTs":   time.UnixMilli(toMs),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get receipts in range: %w", err)
	}

	receipts := make([]entity.OrderReceipt, 0, len(raws))
	for _, r := range raws {
		receipts = append(receipts, r.toEntity())
	}
	return receipts, nil
}

func (ms *MYSQLStore) GetReceiptById(ctx context.Context, id int) (*entity.OrderReceipt, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM order_receipts
	WHERE id = :id`, receiptColumns)

	raw, err := QueryNamedOne[receiptRaw](ctx, ms.db, query, map[string]any{
		"id": id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt [%d]: %w", id, err)
	}
	receipt := raw.toEntity()
	return &receipt, nil
}

// MarkReceiptDone overwrites the status unconditionally; the admin list is a
// single-operator surface and last write wins. The existence check and the
// overwrite share one serializable transaction.
func (ms *MYSQLStore) MarkReceiptDone(ctx context.Context, id int) error {
	return ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		if _, err := rep.Receipts().GetReceiptById(ctx, id); err != nil {
			return err
		}

		query := `
		UPDATE order_receipts
		SET status = :status,
			updated_at = :updatedAt
		WHERE id = :id`

		if err := ExecNamed(ctx, rep.DB(), query, map[string]any{
			"id":        id,
			"status":    entity.StatusDone,
			"updatedAt": rep.Now(),
		}); err != nil {
			return fmt.Errorf("failed to mark receipt done: %w", err)
		}
		return nil
	})
}
