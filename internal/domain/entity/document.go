package entity

// CanonicalInvoiceDocument is the normalized invoice-like document shipped to
// the fiscal proxy. Every optional upstream field resolves to an explicit
// null or a documented default; the document never carries an upstream
// "undefined" sentinel.
type CanonicalInvoiceDocument struct {
	Invoice Invoice `json:"invoice"`
}

// Invoice is the single section of the canonical document.
type Invoice struct {
	ID       *string       `json:"id"`
	MoveType string        `json:"move_type"`
	Name     string        `json:"name"`
	State    string        `json:"state"`
	Journal  Journal       `json:"journal"`
	Currency CurrencyInfo  `json:"currency"`
	Dates    Dates         `json:"dates"`
	Company  Party         `json:"company"`
	Customer Party         `json:"customer"`
	Amounts  Amounts       `json:"amounts"`
	Payment  PaymentInfo   `json:"payment"`
	Lines    []InvoiceLine `json:"lines"`
	Meta     Meta          `json:"meta"`
}

// Journal identifies the accounting journal the sale posts to.
type Journal struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Code *string `json:"code"`
}

// CurrencyInfo is the resolved currency. Name is null only when the whole
// fallback chain came up empty.
type CurrencyInfo struct {
	ID       int64   `json:"id"`
	Name     *string `json:"name"`
	Symbol   string  `json:"symbol"`
	Position string  `json:"position"`
}

// Dates holds the invoice calendar dates as ISO dates (YYYY-MM-DD). POS
// sales carry no due date.
type Dates struct {
	InvoiceDate    string  `json:"invoice_date"`
	InvoiceDateDue *string `json:"invoice_date_due"`
}

// Party is either the selling company or the customer block.
type Party struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	VAT          string  `json:"vat"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	ActivityCode *string `json:"codigo_actividad_receptor,omitempty"`
	Address      Address `json:"address"`
}

// Address is the normalized address block.
type Address struct {
	Country      *string `json:"country"`
	State        *string `json:"state"`
	City         *string `json:"city"`
	Street       *string `json:"street"`
	Neighborhood *string `json:"neighborhood"`
	Other        *string `json:"other"`
}

// Amounts are the order totals. Tax is always derived as total minus
// untaxed, never sourced independently.
type Amounts struct {
	Untaxed float64 `json:"untaxed"`
	Tax     float64 `json:"tax"`
	Total   float64 `json:"total"`
}

// PaymentInfo describes how the sale was paid. POS transactions carry no
// credit terms, so TermDays is always 0.
type PaymentInfo struct {
	Condition string   `json:"condition"`
	TermDays  int      `json:"term_days"`
	Methods   []string `json:"methods"`
}

// InvoiceLine is one normalized order line.
type InvoiceLine struct {
	ID           int64      `json:"id"`
	Product      ProductRef `json:"product"`
	Description  string     `json:"description"`
	Quantity     float64    `json:"quantity"`
	UomName      *string    `json:"uom_name"`
	UomCode      *string    `json:"uom_code"`
	PriceUnit    float64    `json:"price_unit"`
	Discount     float64    `json:"discount"`
	Cabys        *string    `json:"cabys"`
	TaxesDisplay []string   `json:"taxes_display"`
	TaxesIDs     []int64    `json:"taxes_ids"`
	Subtotal     float64    `json:"subtotal"`
	Total        float64    `json:"total"`
}

// ProductRef is the product identity carried on a canonical line.
type ProductRef struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	DefaultCode *string `json:"default_code"`
}

// Meta identifies the document's origin and schema revision for the
// receiving system's compatibility checks.
type Meta struct {
	Source  string `json:"source"`
	Version string `json:"version"`
}

// SummaryView is the flat projection handed to whatever renders the cashier
// summary. It is derived from the same computation as the canonical
// document so the two views cannot disagree.
type SummaryView struct {
	OrderName      string  `json:"order_name"`
	CustomerName   string  `json:"customer_name"`
	JournalName    string  `json:"journal_name"`
	InvoiceDate    string  `json:"invoice_date"`
	InvoiceDateDue string  `json:"invoice_date_due"`
	State          string  `json:"state"`
	Untaxed        float64 `json:"untaxed"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
	CurrencySymbol string  `json:"currency_symbol"`
	CurrencyName   string  `json:"currency_name"`
}
