package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemora/store-manager/internal/entity"
)

func testReceipt(name string) *entity.OrderReceiptInsert {
	return &entity.OrderReceiptInsert{
		Customer: entity.Customer{
			Name:    name,
			Phone:   "0711234567",
			Address: "12 Galle Rd, Colombo",
			Email:   name + "@example.com",
		},
		Discount: "SALE10",
		Total:    entity.Amount{Raw: "1000", Present: true},
		Items: entity.ReceiptItems{
			{ProductId: "1", Name: "Ring", Category: "Jewelry", Price: 500.0, Qty: 2.0},
		},
	}
}

func TestReceiptLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ins := testReceipt("amal")
	receipt, err := db.InsertReceipt(ctx, ins)
	require.NoError(t, err)
	require.NotZero(t, receipt.Id)
	require.NotEmpty(t, receipt.ReceiptId)
	assert.Equal(t, entity.StatusPending, receipt.Status)

	got, err := db.GetReceiptById(ctx, receipt.Id)
	require.NoError(t, err)
	assert.Equal(t, "amal", got.Customer.Name)
	assert.Equal(t, "SALE10", got.Discount)
	assert.True(t, got.Total.Present)
	assert.Equal(t, "1000", got.Total.Raw)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Ring", got.Items[0].Name)
	assert.False(t, got.UpdatedAt.Valid)

	require.NoError(t, db.MarkReceiptDone(ctx, receipt.Id))

	got, err = db.GetReceiptById(ctx, receipt.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDone, got.Status)
	assert.True(t, got.UpdatedAt.Valid)

	// marking done is idempotent
	require.NoError(t, db.MarkReceiptDone(ctx, receipt.Id))
}

func TestReceiptAbsentTotalSurvivesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ins := testReceipt("nimal")
	ins.Total = entity.Amount{}
	receipt, err := db.InsertReceipt(ctx, ins)
	require.NoError(t, err)

	got, err := db.GetReceiptById(ctx, receipt.Id)
	require.NoError(t, err)
	assert.False(t, got.Total.Present)
}

func TestGetReceiptsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := db.InsertReceipt(ctx, testReceipt("first"))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := db.InsertReceipt(ctx, testReceipt("second"))
	require.NoError(t, err)

	all, err := db.GetAllReceipts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.Id, all[0].Id)
	assert.Equal(t, first.Id, all[1].Id)
}

func TestGetReceiptsInRange(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	receipt, err := db.InsertReceipt(ctx, testReceipt("ranged"))
	require.NoError(t, err)

	ms := receipt.CreatedAt.UnixMilli()

	inside, err := db.GetReceiptsInRange(ctx, ms-1000, ms+1000)
	require.NoError(t, err)
	assert.Len(t, inside, 1)

	outside, err := db.GetReceiptsInRange(ctx, ms+10_000, ms+20_000)
	require.NoError(t, err)
	assert.Empty(t, outside)
}
