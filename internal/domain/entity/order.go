package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotAnOrder marks a structural failure: the payload carried something in
// the order slot, but it cannot be read as an order at all. This is the only
// condition that aborts normalization; a missing order or an order with zero
// lines is valid input.
var ErrNotAnOrder = errors.New("payload is not an order object")

// OrderSnapshot is the read-only completed-order state the host platform
// hands over when an order is validated. Every field except Name may be
// absent; pointer fields distinguish "source cannot provide this" from a
// zero value.
type OrderSnapshot struct {
	Name           string         `json:"name"`
	UID            string         `json:"uid"`
	ValidationDate string         `json:"validation_date"`
	Partner        *Partner       `json:"partner"`
	AmountUntaxed  *float64       `json:"amount_untaxed"`
	AmountTotal    *float64       `json:"amount_total"`
	Lines          []LineItem     `json:"lines"`
	Payments       []PaymentEntry `json:"payments"`
}

// LineItem is one ordered line. Subtotal and total fall back to derived
// values (qty x unit price, and the subtotal) when the source cannot
// compute them.
type LineItem struct {
	ID            int64           `json:"id"`
	Product       *Product        `json:"product"`
	Quantity      float64         `json:"quantity"`
	PriceUnit     float64         `json:"price_unit"`
	Discount      float64         `json:"discount"`
	PriceSubtotal *float64        `json:"price_subtotal"`
	PriceTotal    *float64        `json:"price_total"`
	Taxes         []TaxDescriptor `json:"taxes"`
	Unit          *Ref            `json:"uom"`
}

// Product carries the product reference plus the fiscal classification code
// under whichever field name the installed localization uses.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	DefaultCode string `json:"default_code"`

	// CABYS candidates, in lookup order.
	Cabys       string `json:"cabys"`
	L10nCRCabys string `json:"l10n_cr_cabys"`
	CabysCode   string `json:"cabys_code"`
	XCabys      string `json:"x_cabys"`
}

// TaxDescriptor is a tax applied to a line, identified by display name.
type TaxDescriptor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PaymentEntry is one payment line. Amount is diagnostic only; the canonical
// document carries method names.
type PaymentEntry struct {
	Method *PaymentMethod `json:"payment_method"`
	Name   string         `json:"name"`
	Amount float64        `json:"amount"`
}

// PaymentMethod is the configured payment method behind a payment line.
type PaymentMethod struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Partner is the customer attached to the order, when one was selected.
type Partner struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	VAT          string `json:"vat"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Mobile       string `json:"mobile"`
	City         string `json:"city"`
	Street       string `json:"street"`
	Country      *Ref   `json:"country_id"`
	State        *Ref   `json:"state_id"`
	ActivityCode string `json:"codigo_actividad_receptor"`
}

// DecodeOrder reads the order slot of an order-completed event. An empty,
// null or false slot means no active order and yields (nil, nil); a slot
// that cannot be read as an object is a structural failure wrapping
// ErrNotAnOrder.
func DecodeOrder(raw json.RawMessage) (*OrderSnapshot, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 ||
		bytes.Equal(trimmed, []byte("null")) ||
		bytes.Equal(trimmed, []byte("false")) {
		return nil, nil
	}

	var order OrderSnapshot
	if err := json.Unmarshal(trimmed, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnOrder, err)
	}
	return &order, nil
}
