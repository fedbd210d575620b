package entity

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

// Raw statuses written by the storefront. The report normalizes many more
// spellings; these are the two the admin surface itself writes or filters on.
const (
	StatusPending = "pending"
	StatusDone    = "done"
)

// Customer is the buyer block embedded in a receipt. Id and Email are
// optional; older storefront builds only wrote name/phone/address.
type Customer struct {
	Name    string `db:"customer_name" json:"name"`
	Phone   string `db:"customer_phone" json:"phone"`
	Address string `db:"customer_address" json:"address"`
	Id      string `db:"customer_id" json:"id,omitempty"`
	Email   string `db:"customer_email" json:"email,omitempty"`
}

// ReceiptItem is a single line of a receipt as the storefront wrote it.
// The collection is schema-on-read: several generations of the storefront
// used different field names and types, so identifiers and numerics are kept
// loosely typed and coerced at aggregation time.
type ReceiptItem struct {
	ProductId any    `json:"productId,omitempty"`
	ItemId    any    `json:"itemId,omitempty"`
	Id        any    `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Category  string `json:"category,omitempty"`
	Price     any    `json:"price,omitempty"`
	Qty       any    `json:"qty,omitempty"`
	Quantity  any    `json:"quantity,omitempty"`
}

// ReceiptItems stores the line items as a JSON column.
type ReceiptItems []ReceiptItem

func (ri ReceiptItems) Value() (driver.Value, error) {
	if ri == nil {
		return "[]", nil
	}
	b, err := json.Marshal(ri)
	if err != nil {
		return nil, fmt.Errorf("marshal receipt items: %w", err)
	}
	return string(b), nil
}

func (ri *ReceiptItems) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*ri = nil
		return nil
	case []byte:
		if len(v) == 0 {
			*ri = nil
			return nil
		}
		return json.Unmarshal(v, ri)
	case string:
		if v == "" {
			*ri = nil
			return nil
		}
		return json.Unmarshal([]byte(v), ri)
	default:
		return fmt.Errorf("cannot scan %T into ReceiptItems", src)
	}
}

// Amount is a loosely typed monetary field. Storefronts wrote totals as
// numbers, numeric strings or not at all; the distinction between "absent"
// and "present but empty" matters to the revenue rule, so both survive.
type Amount struct {
	Raw     string
	Present bool
}

func (a Amount) Value() (driver.Value, error) {
	if !a.Present {
		return nil, nil
	}
	return a.Raw, nil
}

func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Amount{}
	case []byte:
		*a = Amount{Raw: string(v), Present: true}
	case string:
		*a = Amount{Raw: v, Present: true}
	case float64:
		*a = Amount{Raw: strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), "."), Present: true}
	case int64:
		*a = Amount{Raw: fmt.Sprintf("%d", v), Present: true}
	default:
		return fmt.Errorf("cannot scan %T into Amount", src)
	}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Present {
		return []byte("null"), nil
	}
	return json.Marshal(a.Raw)
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = Amount{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*a = Amount{Raw: str, Present: true}
		return nil
	}
	*a = Amount{Raw: s, Present: true}
	return nil
}

// OrderReceipt represents a row of the order_receipts collection. Receipts
// are written by the storefront; the admin surface only flips their status.
type OrderReceipt struct {
	Id        int          `db:"id" json:"id"`
	ReceiptId string       `db:"receipt_id" json:"receiptId"`
	Customer  Customer     `json:"customer"`
	UserId    string       `db:"user_id" json:"userId,omitempty"`
	Status    string       `db:"status" json:"status"`
	Discount  string       `db:"discount" json:"discount,omitempty"`
	Total     Amount       `db:"total" json:"total"`
	Items     ReceiptItems `db:"items" json:"items"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt sql.NullTime `db:"updated_at" json:"updatedAt"`
}

// OrderReceiptInsert is the storefront ingest payload.
type OrderReceiptInsert struct {
	Customer Customer     `json:"customer" valid:"required"`
	UserId   string       `json:"userId"`
	Status   string       `json:"status"`
	Discount string       `json:"discount"`
	Total    Amount       `json:"total"`
	Items    ReceiptItems `json:"items"`
}

func (ri *OrderReceiptInsert) Validate() error {
	if _, err := govalidator.ValidateStruct(ri); err != nil {
		return err
	}
	if strings.TrimSpace(ri.Customer.Name) == "" {
		return fmt.Errorf("customer name is required")
	}
	if len(ri.Items) == 0 {
		return fmt.Errorf("receipt has no items")
	}
	return nil
}
