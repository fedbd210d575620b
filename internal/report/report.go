// Package report computes the sales analytics report as a pure function of
// the order snapshot, the catalog snapshot and a resolved time range. It
// never errors: every malformed field coerces to a safe default so the
// report always renders.
package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gemora/store-manager/internal/entity"
)

const (
	topProductsLimit  = 8
	lowProductsLimit  = 8
	topCustomersLimit = 5
)

type Totals struct {
	Revenue           float64 `json:"revenue"`
	RevenueDisplay    string  `json:"revenueDisplay"`
	OrderCount        int     `json:"orderCount"`
	ItemsSold         float64 `json:"itemsSold"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

type StatusCounts struct {
	Done      int `json:"done"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
	Unknown   int `json:"unknown"`
}

// DayBucket is one calendar-day cell of the sales trend.
type DayBucket struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type CategorySales struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

type ProductSales struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Qty      float64 `json:"qty"`
	Revenue  float64 `json:"revenue"`
}

type LowProduct struct {
	Id       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Stock    float64 `json:"stock"`
	QtySold  float64 `json:"qtySold"`
}

type DiscountRow struct {
	Discount string  `json:"discount"`
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
}

type DiscountReport struct {
	Rows              []DiscountRow `json:"rows"`
	DiscountedOrders  int           `json:"discountedOrders"`
	DiscountedRevenue float64       `json:"discountedRevenue"`
}

type CustomerRow struct {
	Key       string  `json:"key"`
	Orders    int     `json:"orders"`
	Revenue   float64 `json:"revenue"`
	FirstSeen int64   `json:"firstSeen"`
	LastSeen  int64   `json:"lastSeen"`
}

type CustomerInsights struct {
	TotalCustomers  int           `json:"totalCustomers"`
	NewCustomers    int           `json:"newCustomers"`
	RepeatCustomers int           `json:"repeatCustomers"`
	TopCustomers    []CustomerRow `json:"topCustomers"`
}

type Report struct {
	Range         Range            `json:"range"`
	Totals        Totals           `json:"totals"`
	StatusCounts  StatusCounts     `json:"statusCounts"`
	SalesByDay    []DayBucket      `json:"salesByDay"`
	CategorySales []CategorySales  `json:"categorySales"`
	TopProducts   []ProductSales   `json:"topProducts"`
	LowProducts   []LowProduct     `json:"lowProducts"`
	Discounts     DiscountReport   `json:"discounts"`
	Customers     CustomerInsights `json:"customers"`
}

// flatItem is one (receipt, line item) pair with name/category/price
// resolved against the catalog when the receipt itself lacks them.
type flatItem struct {
	productId string
	name      string
	category  string
	price     float64
	qty       float64
	lineTotal float64
}

// Build computes the full report. Orders are expected to be pre-scoped to
// the range by the caller (the trend additionally skips receipts whose
// timestamp does not parse, without dropping them from the totals).
func Build(orders []entity.OrderReceipt, products []entity.Product, rng Range) *Report {
	catalog := make(map[string]*entity.Product, len(products))
	for i := range products {
		catalog[strconv.Itoa(products[i].Id)] = &products[i]
	}

	done := make([]entity.OrderReceipt, 0, len(orders))
	counts := StatusCounts{}
	for _, o := range orders {
		switch NormalizeStatus(o.Status) {
		case StatusDone:
			counts.Done++
			done = append(done, o)
		case StatusPending:
			counts.Pending++
		case StatusCancelled:
			counts.Cancelled++
		default:
			counts.Unknown++
		}
	}

	flat := flattenItems(done, catalog)

	r := &Report{
		Range:         rng,
		StatusCounts:  counts,
		Totals:        buildTotals(done, flat),
		SalesByDay:    buildSalesByDay(done, rng),
		CategorySales: buildCategorySales(flat),
		TopProducts:   buildTopProducts(flat),
		LowProducts:   buildLowProducts(products, flat),
		Discounts:     buildDiscounts(done),
		Customers:     buildCustomers(done, rng),
	}
	return r
}

func flattenItems(done []entity.OrderReceipt, catalog map[string]*entity.Product) []flatItem {
	out := make([]flatItem, 0, len(done))
	for _, o := range done {
		for _, it := range o.Items {
			pid := asString(it.ProductId)
			if pid == "" {
				pid = asString(it.ItemId)
			}
			if pid == "" {
				pid = asString(it.Id)
			}

			var prd *entity.Product
			if pid != "" {
				prd = catalog[pid]
			}

			name := it.Name
			if name == "" && prd != nil {
				name = prd.Name
			}
			if name == "" {
				name = "Unknown"
			}

			category := it.Category
			if category == "" && prd != nil {
				category = string(prd.Category)
			}
			if category == "" {
				category = "Other"
			}

			var price float64
			if it.Price != nil {
				price = asNumber(it.Price, 0)
			} else if prd != nil {
				price = asNumber(prd.Price, 0)
			}

			qty := lineQty(it)

			out = append(out, flatItem{
				productId: pid,
				name:      name,
				category:  category,
				price:     price,
				qty:       qty,
				lineTotal: price * qty,
			})
		}
	}
	return out
}

func lineQty(it entity.ReceiptItem) float64 {
	if it.Qty != nil {
		return asNumber(it.Qty, 0)
	}
	return asNumber(it.Quantity, 0)
}

// receiptRevenue prefers the stored total; only when it is absent or empty
// does it recompute from the receipt's own line items (no catalog fallback).
func receiptRevenue(o entity.OrderReceipt) float64 {
	if o.Total.Present && strings.TrimSpace(o.Total.Raw) != "" {
		return asNumber(o.Total.Raw, 0)
	}
	var sum float64
	for _, it := range o.Items {
		sum += asNumber(it.Price, 0) * lineQty(it)
	}
	return sum
}

func buildTotals(done []entity.OrderReceipt, flat []flatItem) Totals {
	t := Totals{OrderCount: len(done)}
	for _, o := range done {
		t.Revenue += receiptRevenue(o)
	}
	for _, li := range flat {
		t.ItemsSold += li.qty
	}
	if t.OrderCount > 0 {
		t.AverageOrderValue = t.Revenue / float64(t.OrderCount)
	}
	t.RevenueDisplay = FormatLKR(t.Revenue)
	return t
}

func buildSalesByDay(done []entity.OrderReceipt, rng Range) []DayBucket {
	byDay := map[string]*DayBucket{}
	for _, o := range done {
		ms := toMillis(o.CreatedAt)
		if ms == 0 {
			continue
		}
		day := dayKey(ms)
		row, ok := byDay[day]
		if !ok {
			row = &DayBucket{Day: day}
			byDay[day] = row
		}
		row.Revenue += receiptRevenue(o)
		row.Orders++
	}

	// every day of the range appears, zero-filled, in ascending order
	days := make([]DayBucket, 0, rng.Days())
	for t := rng.FromMs; t <= rng.ToMs; t += dayMs {
		day := dayKey(t)
		if row, ok := byDay[day]; ok {
			days = append(days, *row)
			continue
		}
		days = append(days, DayBucket{Day: day})
	}
	return days
}

func buildCategorySales(flat []flatItem) []CategorySales {
	byCat := map[string]float64{}
	order := []string{}
	for _, li := range flat {
		if _, ok := byCat[li.category]; !ok {
			order = append(order, li.category)
		}
		byCat[li.category] += li.lineTotal
	}

	rows := make([]CategorySales, 0, len(order))
	for _, cat := range order {
		rows = append(rows, CategorySales{Category: cat, Revenue: byCat[cat]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Revenue > rows[j].Revenue })
	return rows
}

func buildTopProducts(flat []flatItem) []ProductSales {
	byKey := map[string]*ProductSales{}
	order := []string{}
	for _, li := range flat {
		key := li.productId
		if key == "" {
			key = li.name
		}
		row, ok := byKey[key]
		if !ok {
			row = &ProductSales{Key: key, Name: li.name, Category: li.category}
			byKey[key] = row
			order = append(order, key)
		}
		row.Qty += li.qty
		row.Revenue += li.lineTotal
	}

	rows := make([]ProductSales, 0, len(order))
	for _, key := range order {
		rows = append(rows, *byKey[key])
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Revenue > rows[j].Revenue })
	if len(rows) > topProductsLimit {
		rows = rows[:topProductsLimit]
	}
	return rows
}

// buildLowProducts starts from the full catalog so products with zero sales
// in the period surface first.
func buildLowProducts(products []entity.Product, flat []flatItem) []LowProduct {
	sold := map[string]float64{}
	for _, li := range flat {
		key := li.productId
		if key == "" {
			key = li.name
		}
		sold[key] += li.qty
	}

	rows := make([]LowProduct, 0, len(products))
	for _, p := range products {
		name := p.Name
		if name == "" {
			name = "Unknown"
		}
		category := string(p.Category)
		if category == "" {
			category = "Other"
		}
		rows = append(rows, LowProduct{
			Id:       p.Id,
			Name:     name,
			Category: category,
			Stock:    float64(p.Stock),
			QtySold:  sold[strconv.Itoa(p.Id)],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].QtySold < rows[j].QtySold })
	if len(rows) > lowProductsLimit {
		rows = rows[:lowProductsLimit]
	}
	return rows
}

func buildDiscounts(done []entity.OrderReceipt) DiscountReport {
	byLabel := map[string]*DiscountRow{}
	order := []string{}
	for _, o := range done {
		label := strings.TrimSpace(o.Discount)
		if label == "" {
			continue
		}
		row, ok := byLabel[label]
		if !ok {
			row = &DiscountRow{Discount: label}
			byLabel[label] = row
			order = append(order, label)
		}
		row.Orders++
		row.Revenue += receiptRevenue(o)
	}

	rep := DiscountReport{Rows: make([]DiscountRow, 0, len(order))}
	for _, label := range order {
		row := byLabel[label]
		rep.Rows = append(rep.Rows, *row)
		rep.DiscountedOrders += row.Orders
		rep.DiscountedRevenue += row.Revenue
	}
	sort.SliceStable(rep.Rows, func(i, j int) bool { return rep.Rows[i].Revenue > rep.Rows[j].Revenue })
	return rep
}

// customerKey resolves the grouping key through the ordered fallback chain.
// Empty means the receipt carries no customer identity and is excluded from
// the customer stage entirely.
func customerKey(o entity.OrderReceipt) string {
	for _, k := range []string{o.Customer.Id, o.Customer.Email, o.Customer.Phone, o.UserId} {
		if strings.TrimSpace(k) != "" {
			return strings.TrimSpace(k)
		}
	}
	return ""
}

func buildCustomers(done []entity.OrderReceipt, rng Range) CustomerInsights {
	byKey := map[string]*CustomerRow{}
	order := []string{}
	for _, o := range done {
		key := customerKey(o)
		if key == "" {
			continue
		}

		row, ok := byKey[key]
		if !ok {
			row = &CustomerRow{Key: key}
			byKey[key] = row
			order = append(order, key)
		}
		row.Orders++
		row.Revenue += receiptRevenue(o)

		if ms := toMillis(o.CreatedAt); ms != 0 {
			if row.FirstSeen == 0 || ms < row.FirstSeen {
				row.FirstSeen = ms
			}
			if ms > row.LastSeen {
				row.LastSeen = ms
			}
		}
	}

	ins := CustomerInsights{TotalCustomers: len(order)}
	rows := make([]CustomerRow, 0, len(order))
	for _, key := range order {
		row := byKey[key]
		rows = append(rows, *row)
		if row.Orders >= 2 {
			ins.RepeatCustomers++
		}
		if rng.Contains(row.FirstSeen) {
			ins.NewCustomers++
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Revenue > rows[j].Revenue })
	if len(rows) > topCustomersLimit {
		rows = rows[:topCustomersLimit]
	}
	ins.TopCustomers = rows
	return ins
}
