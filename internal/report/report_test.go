package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemora/store-manager/internal/entity"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02", s, time.Local)
	require.NoError(t, err)
	return ts.Add(10 * time.Hour)
}

func rangeOf(t *testing.T, from, to string) Range {
	t.Helper()
	r, err := ResolveRange(PresetCustom, from, to, time.Now())
	require.NoError(t, err)
	return r
}

func total(s string) entity.Amount {
	return entity.Amount{Raw: s, Present: true}
}

func product(id int, name string, category entity.CategoryEnum, price float64, stock int) entity.Product {
	return entity.Product{
		Id: id,
		ProductInsert: entity.ProductInsert{
			Name:     name,
			Category: category,
			Price:    decimal.NewFromFloat(price),
			Stock:    stock,
		},
	}
}

func TestBuildTrendAndTotals(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-02")
	orders := []entity.OrderReceipt{
		{Status: "done", Total: total("1000"), CreatedAt: day(t, "2026-03-01")},
		{Status: "pending", Total: total("400"), CreatedAt: day(t, "2026-03-02")},
	}

	r := Build(orders, nil, rng)

	assert.Equal(t, 1, r.Totals.OrderCount)
	assert.InDelta(t, 1000, r.Totals.Revenue, 1e-9)
	assert.InDelta(t, 1000, r.Totals.AverageOrderValue, 1e-9)
	assert.Equal(t, "Rs. 1,000", r.Totals.RevenueDisplay)

	require.Len(t, r.SalesByDay, 2)
	assert.Equal(t, DayBucket{Day: "2026-03-01", Revenue: 1000, Orders: 1}, r.SalesByDay[0])
	assert.Equal(t, DayBucket{Day: "2026-03-02"}, r.SalesByDay[1])

	assert.Equal(t, StatusCounts{Done: 1, Pending: 1}, r.StatusCounts)
}

func TestBuildRevenueFallsBackToOwnItems(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-01")
	orders := []entity.OrderReceipt{
		{
			Status:    "completed",
			CreatedAt: day(t, "2026-03-01"),
			Items: entity.ReceiptItems{
				{ProductId: "1", Price: 500.0, Qty: 2.0},
				{ProductId: "2", Price: 100.0, Qty: 1.0},
			},
		},
	}

	r := Build(orders, nil, rng)

	assert.InDelta(t, 1100, r.Totals.Revenue, 1e-9)
	assert.InDelta(t, 3, r.Totals.ItemsSold, 1e-9)
}

func TestBuildStoredTotalWinsOverItems(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-01")
	orders := []entity.OrderReceipt{
		{
			Status:    "paid",
			Total:     total("900"),
			CreatedAt: day(t, "2026-03-01"),
			Items: entity.ReceiptItems{
				{ProductId: "1", Price: 500.0, Qty: 2.0},
			},
		},
	}

	r := Build(orders, nil, rng)

	// items still feed products and categories at their own line value
	assert.InDelta(t, 900, r.Totals.Revenue, 1e-9)
	require.Len(t, r.TopProducts, 1)
	assert.InDelta(t, 1000, r.TopProducts[0].Revenue, 1e-9)
}

func TestBuildEmptyStringTotalRecomputes(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-01")
	orders := []entity.OrderReceipt{
		{
			Status:    "done",
			Total:     total("  "),
			CreatedAt: day(t, "2026-03-01"),
			Items:     entity.ReceiptItems{{Price: 250.0, Qty: 2.0}},
		},
	}

	r := Build(orders, nil, rng)
	assert.InDelta(t, 500, r.Totals.Revenue, 1e-9)
}

func TestBuildCatalogFallbackForItems(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-01")
	products := []entity.Product{
		product(7, "Sapphire Ring", entity.Jewelry, 2500, 3),
	}
	orders := []entity.OrderReceipt{
		{
			Status:    "done",
			CreatedAt: day(t, "2026-03-01"),
			// no name, category or price on the line; catalog fills them
			Items: entity.ReceiptItems{{ProductId: 7, Qty: 1.0}},
		},
	}

	r := Build(orders, products, rng)

	require.Len(t, r.TopProducts, 1)
	assert.Equal(t, "Sapphire Ring", r.TopProducts[0].Name)
	assert.Equal(t, "Jewelry", r.TopProducts[0].Category)
	assert.InDelta(t, 2500, r.TopProducts[0].Revenue, 1e-9)

	require.Len(t, r.CategorySales, 1)
	assert.Equal(t, "Jewelry", r.CategorySales[0].Category)
}

func TestBuildUnknownItemDefaults(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-01")
	orders := []entity.OrderReceipt{
		{
			Status:    "done",
			CreatedAt: day(t, "2026-03-01"),
			Items:     entity.ReceiptItems{{Price: 100.0, Quantity: 2.0}},
		},
	}

	r := Build(orders, nil, rng)

	require.Len(t, r.TopProducts, 1)
	assert.Equal(t, "Unknown", r.TopProducts[0].Name)
	assert.Equal(t, "Other", r.TopProducts[0].Category)
	assert.InDelta(t, 2, r.TopProducts[0].Qty, 1e-9)
}

func TestBuildLowProductsCoverFullCatalog(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-01")
	products := []entity.Product{
		product(1, "Ring", entity.Jewelry, 100, 4),
		product(2, "Charger", entity.MobileAccessories, 30, 10),
		product(3, "Topaz", entity.Gems, 700, 2),
	}
	orders := []entity.OrderReceipt{
		{
			Status:    "done",
			CreatedAt: day(t, "2026-03-01"),
			Items:     entity.ReceiptItems{{ProductId: "3", Price: 700.0, Qty: 5.0}},
		},
	}

	r := Build(orders, products, rng)

	require.Len(t, r.LowProducts, 3)
	assert.InDelta(t, 0, r.LowProducts[0].QtySold, 1e-9)
	assert.InDelta(t, 0, r.LowProducts[1].QtySold, 1e-9)
	assert.Equal(t, "Topaz", r.LowProducts[2].Name)
	assert.InDelta(t, 5, r.LowProducts[2].QtySold, 1e-9)
}

func TestBuildDiscountRollup(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-01")
	orders := []entity.OrderReceipt{
		{Status: "done", Discount: "SALE10", Total: total("200"), CreatedAt: day(t, "2026-03-01")},
		{Status: "done", Discount: " SALE10 ", Total: total("300"), CreatedAt: day(t, "2026-03-01")},
		{Status: "done", Discount: "  ", Total: total("999"), CreatedAt: day(t, "2026-03-01")},
	}

	r := Build(orders, nil, rng)

	require.Len(t, r.Discounts.Rows, 1)
	assert.Equal(t, DiscountRow{Discount: "SALE10", Orders: 2, Revenue: 500}, r.Discounts.Rows[0])
	assert.Equal(t, 2, r.Discounts.DiscountedOrders)
	assert.InDelta(t, 500, r.Discounts.DiscountedRevenue, 1e-9)
}

func TestBuildCustomerInsights(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-03")
	orders := []entity.OrderReceipt{
		{
			Status:    "done",
			Customer:  entity.Customer{Email: "amal@example.com"},
			Total:     total("100"),
			CreatedAt: day(t, "2026-03-01"),
		},
		{
			Status:    "done",
			Customer:  entity.Customer{Email: "amal@example.com"},
			Total:     total("400"),
			CreatedAt: day(t, "2026-03-03"),
		},
		{
			Status:    "done",
			UserId:    "u-9",
			Total:     total("50"),
			CreatedAt: day(t, "2026-03-02"),
		},
		{
			// no identity at all: excluded from the customer stage
			Status:    "done",
			Total:     total("1000"),
			CreatedAt: day(t, "2026-03-02"),
		},
	}

	r := Build(orders, nil, rng)

	assert.Equal(t, 2, r.Customers.TotalCustomers)
	assert.Equal(t, 1, r.Customers.RepeatCustomers)
	assert.Equal(t, 2, r.Customers.NewCustomers)

	require.NotEmpty(t, r.Customers.TopCustomers)
	top := r.Customers.TopCustomers[0]
	assert.Equal(t, "amal@example.com", top.Key)
	assert.Equal(t, 2, top.Orders)
	assert.InDelta(t, 500, top.Revenue, 1e-9)
	assert.Equal(t, day(t, "2026-03-01").UnixMilli(), top.FirstSeen)
	assert.Equal(t, day(t, "2026-03-03").UnixMilli(), top.LastSeen)
}

func TestBuildCustomerKeyFallbackOrder(t *testing.T) {
	o := entity.OrderReceipt{
		Customer: entity.Customer{Id: "c-1", Email: "e@x.com", Phone: "071"},
		UserId:   "u-1",
	}
	assert.Equal(t, "c-1", customerKey(o))

	o.Customer.Id = ""
	assert.Equal(t, "e@x.com", customerKey(o))

	o.Customer.Email = ""
	assert.Equal(t, "071", customerKey(o))

	o.Customer.Phone = " "
	assert.Equal(t, "u-1", customerKey(o))

	o.UserId = ""
	assert.Equal(t, "", customerKey(o))
}

func TestBuildTopProductsLimit(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-01")
	items := entity.ReceiptItems{}
	for i := 0; i < 12; i++ {
		items = append(items, entity.ReceiptItem{
			ProductId: i + 1,
			Name:      "p",
			Price:     float64(100 * (i + 1)),
			Qty:       1.0,
		})
	}
	orders := []entity.OrderReceipt{
		{Status: "done", CreatedAt: day(t, "2026-03-01"), Items: items},
	}

	r := Build(orders, nil, rng)

	require.Len(t, r.TopProducts, topProductsLimit)
	// descending by revenue
	for i := 1; i < len(r.TopProducts); i++ {
		assert.GreaterOrEqual(t, r.TopProducts[i-1].Revenue, r.TopProducts[i].Revenue)
	}
	assert.InDelta(t, 1200, r.TopProducts[0].Revenue, 1e-9)
}

func TestBuildMalformedTimestampCountsInTotalsNotTrend(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-01")
	orders := []entity.OrderReceipt{
		{Status: "done", Total: total("700")}, // zero CreatedAt
	}

	r := Build(orders, nil, rng)

	assert.InDelta(t, 700, r.Totals.Revenue, 1e-9)
	require.Len(t, r.SalesByDay, 1)
	assert.Zero(t, r.SalesByDay[0].Orders)
}

func TestBuildEmptyInputs(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-07")
	r := Build(nil, nil, rng)

	assert.Zero(t, r.Totals.OrderCount)
	assert.Zero(t, r.Totals.AverageOrderValue)
	assert.Equal(t, "Rs. 0", r.Totals.RevenueDisplay)
	assert.Len(t, r.SalesByDay, 7)
	assert.Empty(t, r.CategorySales)
	assert.Empty(t, r.TopProducts)
	assert.Empty(t, r.LowProducts)
	assert.Empty(t, r.Discounts.Rows)
	assert.Zero(t, r.Customers.TotalCustomers)
}

func TestBuildIsPure(t *testing.T) {
	rng := rangeOf(t, "2026-03-01", "2026-03-02")
	orders := []entity.OrderReceipt{
		{Status: "done", Total: total("1000"), CreatedAt: day(t, "2026-03-01"),
			Items: entity.ReceiptItems{{ProductId: "1", Price: 500.0, Qty: 2.0}}},
	}
	products := []entity.Product{product(1, "Ring", entity.Jewelry, 500, 2)}

	first := Build(orders, products, rng)
	second := Build(orders, products, rng)
	assert.Equal(t, first, second)
}
