package entity

import (
	"bytes"
	"encoding/json"
)

// PosContext is the point-of-sale session environment around an order. Any
// field may be missing; consumers must degrade through the documented
// fallback chains instead of failing.
type PosContext struct {
	Currency  *Currency  `json:"currency"`
	Company   *Company   `json:"company"`
	Pricelist *Pricelist `json:"pricelist"`
	Config    *PosConfig `json:"config"`
}

// Currency is the session's primary currency record. Name may be empty even
// when the record exists, which triggers the resolution fallback chain.
type Currency struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Position string `json:"position"`
}

// Company is the selling company as loaded into the session.
type Company struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	VAT      string `json:"vat"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Mobile   string `json:"mobile"`
	City     string `json:"city"`
	Street   string `json:"street"`
	Country  *Ref   `json:"country_id"`
	State    *Ref   `json:"state_id"`
	Currency *Ref   `json:"currency_id"`
}

// Pricelist is the active price list, carried only for its currency
// reference.
type Pricelist struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Currency *Ref   `json:"currency_id"`
}

// PosConfig is the terminal configuration record.
type PosConfig struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Journal  *Ref   `json:"journal_id"`
	Currency *Ref   `json:"currency_id"`
}

// DecodePosContext reads the pos slot of an order-completed event. A missing
// or unreadable context is not an error; it decodes to an empty context and
// the caller logs what it saw.
func DecodePosContext(raw json.RawMessage) (*PosContext, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 ||
		bytes.Equal(trimmed, []byte("null")) ||
		bytes.Equal(trimmed, []byte("false")) {
		return &PosContext{}, nil
	}

	var ctx PosContext
	if err := json.Unmarshal(trimmed, &ctx); err != nil {
		return &PosContext{}, err
	}
	return &ctx, nil
}
