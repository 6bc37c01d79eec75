// Package normalizer turns a completed point-of-sale order into the
// canonical invoice document the fiscal proxy expects, together with the
// flat summary projection shown to the cashier.
//
// The normalizer is deliberately tolerant: missing optional data resolves
// through documented defaults and malformed values fall back with a warning.
// It never fails on incomplete input; structural problems are caught before
// it runs, at decode time (entity.DecodeOrder).
package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/JKalith/clocky-accounting-integration/internal/domain/entity"
	"go.uber.org/zap"
)

const (
	// MetaSource and MetaVersion identify the document origin and schema
	// revision to the receiving system.
	MetaSource  = "clocky_pos"
	MetaVersion = "1.0"

	// WalkInCustomer is the sentinel customer name for orders without a
	// selected partner.
	WalkInCustomer = "Cliente mostrador"

	// DefaultPaymentCondition is the fiscal cash-sale condition code.
	DefaultPaymentCondition = "01"

	defaultJournalName = "POS"
	statePosted        = "posted"
	moveTypeOutInvoice = "out_invoice"
	dueDatePlaceholder = "-"
)

// validationDateLayouts are the timestamp shapes the host platform has been
// seen emitting for validation_date.
var validationDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Config carries the normalization policy knobs.
type Config struct {
	// PaymentCondition is the payment.condition marker for "paid in full
	// at the point of sale". Defaults to the fiscal cash condition code
	// "01"; the legacy "POS" label remains configurable.
	PaymentCondition string
}

// Normalizer builds canonical invoice documents from order snapshots.
type Normalizer struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Normalizer with the given policy.
func New(cfg Config, logger *zap.Logger) *Normalizer {
	if cfg.PaymentCondition == "" {
		cfg.PaymentCondition = DefaultPaymentCondition
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{cfg: cfg, logger: logger, now: time.Now}
}

// Normalize builds the canonical document and its summary projection for a
// completed order. A nil order means no active order and yields nil results
// without error. The point-of-sale context may be nil or partially
// populated; every access degrades through the documented defaults.
func (n *Normalizer) Normalize(order *entity.OrderSnapshot, pos *entity.PosContext) (*entity.CanonicalInvoiceDocument, *entity.SummaryView) {
	if order == nil {
		n.logger.Warn("normalize called without an active order")
		return nil, nil
	}
	if pos == nil {
		pos = &entity.PosContext{}
	}

	currency := n.resolveCurrency(pos)
	journal := resolveJournal(pos.Config)
	invoiceDate := n.invoiceDate(order.ValidationDate)

	customerName := WalkInCustomer
	if order.Partner != nil && order.Partner.Name != "" {
		customerName = order.Partner.Name
	}

	untaxed := 0.0
	if order.AmountUntaxed != nil {
		untaxed = *order.AmountUntaxed
	}
	total := untaxed
	if order.AmountTotal != nil {
		total = *order.AmountTotal
	}
	tax := total - untaxed
	if tax < 0 {
		// Inclusive total below the exclusive total is bad upstream data;
		// the inclusive figure loses.
		n.logger.Warn("order reports negative tax amount, clamping",
			zap.String("order", order.Name),
			zap.Float64("untaxed", untaxed),
			zap.Float64("total", total))
		total = untaxed
		tax = 0
	}

	lines := make([]entity.InvoiceLine, 0, len(order.Lines))
	for i, line := range order.Lines {
		lines = append(lines, n.normalizeLine(line, i, currency.Symbol))
	}

	doc := &entity.CanonicalInvoiceDocument{
		Invoice: entity.Invoice{
			ID:       optional(order.UID),
			MoveType: moveTypeOutInvoice,
			Name:     order.Name,
			State:    statePosted,
			Journal:  journal,
			Currency: currency,
			Dates: entity.Dates{
				InvoiceDate:    invoiceDate.Format("2006-01-02"),
				InvoiceDateDue: nil,
			},
			Company:  companyParty(pos.Company, order.Partner),
			Customer: customerParty(order.Partner, customerName),
			Amounts: entity.Amounts{
				Untaxed: untaxed,
				Tax:     tax,
				Total:   total,
			},
			Payment: entity.PaymentInfo{
				Condition: n.cfg.PaymentCondition,
				TermDays:  0,
				Methods:   paymentMethods(order.Payments),
			},
			Lines: lines,
			Meta: entity.Meta{
				Source:  MetaSource,
				Version: MetaVersion,
			},
		},
	}

	summary := &entity.SummaryView{
		OrderName:      order.Name,
		CustomerName:   customerName,
		JournalName:    journal.Name,
		InvoiceDate:    doc.Invoice.Dates.InvoiceDate,
		InvoiceDateDue: dueDatePlaceholder,
		State:          statePosted,
		Untaxed:        untaxed,
		Tax:            tax,
		Total:          total,
		CurrencySymbol: currency.Symbol,
	}
	if currency.Name != nil {
		summary.CurrencyName = *currency.Name
	}

	return doc, summary
}

// resolveCurrency applies the currency fallback chain: the session currency
// record, then the company, price list and terminal-config currency
// references. The name stays null only when every source is empty; the
// normalizer never fails over an incomplete currency.
func (n *Normalizer) resolveCurrency(pos *entity.PosContext) entity.CurrencyInfo {
	info := entity.CurrencyInfo{Position: "before"}

	if cur := pos.Currency; cur != nil {
		info.ID = cur.ID
		info.Symbol = cur.Symbol
		if cur.Position != "" {
			info.Position = cur.Position
		}
		if cur.Name != "" {
			info.Name = optional(cur.Name)
			return info
		}
	}

	var refs []*entity.Ref
	if pos.Company != nil {
		refs = append(refs, pos.Company.Currency)
	}
	if pos.Pricelist != nil {
		refs = append(refs, pos.Pricelist.Currency)
	}
	if pos.Config != nil {
		refs = append(refs, pos.Config.Currency)
	}
	for _, ref := range refs {
		if ref.IsZero() || ref.Name == "" {
			continue
		}
		info.ID = ref.ID
		info.Name = optional(ref.Name)
		return info
	}

	n.logger.Warn("no currency name resolvable from session, company, price list or config")
	return info
}

// resolveJournal resolves id/name/code from the terminal configuration's
// journal reference, falling back to the configuration's own name and
// finally the literal "POS".
func resolveJournal(cfg *entity.PosConfig) entity.Journal {
	journal := entity.Journal{Name: defaultJournalName}
	if cfg == nil {
		return journal
	}
	if !cfg.Journal.IsZero() {
		journal.ID = cfg.Journal.ID
		if cfg.Journal.Name != "" {
			journal.Name = cfg.Journal.Name
			journal.Code = optional(cfg.Journal.Name)
			return journal
		}
	}
	if cfg.Name != "" {
		journal.Name = cfg.Name
	}
	return journal
}

// invoiceDate parses the order's validation timestamp. An absent or
// malformed timestamp falls back to the moment of normalization.
func (n *Normalizer) invoiceDate(raw string) time.Time {
	if raw == "" {
		return n.now()
	}
	for _, layout := range validationDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	n.logger.Warn("unparseable validation date, using current time",
		zap.String("validation_date", raw))
	return n.now()
}

func (n *Normalizer) normalizeLine(line entity.LineItem, index int, currencySymbol string) entity.InvoiceLine {
	product := line.Product

	name := ""
	if product != nil {
		name = product.DisplayName
		if name == "" {
			name = product.Name
		}
	}

	subtotal := line.Quantity * line.PriceUnit
	if line.PriceSubtotal != nil {
		subtotal = *line.PriceSubtotal
	}
	total := subtotal
	if line.PriceTotal != nil {
		total = *line.PriceTotal
	}
	lineTax := total - subtotal

	taxNames := make([]string, 0, len(line.Taxes))
	taxIDs := make([]int64, 0, len(line.Taxes))
	for _, tax := range line.Taxes {
		if tax.Name != "" {
			taxNames = append(taxNames, tax.Name)
		}
		if tax.ID != 0 {
			taxIDs = append(taxIDs, tax.ID)
		}
	}

	display := strings.Join(taxNames, ", ")
	if display == "" {
		if lineTax != 0 {
			display = fmt.Sprintf("%s %.2f", currencySymbol, lineTax)
		} else {
			display = "-"
		}
	}

	id := line.ID
	if id == 0 {
		id = int64(index)
	}

	out := entity.InvoiceLine{
		ID:           id,
		Description:  name,
		Quantity:     line.Quantity,
		PriceUnit:    line.PriceUnit,
		Discount:     line.Discount,
		Cabys:        cabysFromProduct(product),
		TaxesDisplay: []string{display},
		TaxesIDs:     taxIDs,
		Subtotal:     subtotal,
		Total:        total,
	}
	if product != nil {
		out.Product = entity.ProductRef{
			ID:          product.ID,
			Name:        name,
			DefaultCode: optional(product.DefaultCode),
		}
	}
	if !line.Unit.IsZero() {
		out.UomName = optional(line.Unit.Name)
		if line.Unit.ID != 0 {
			code := fmt.Sprintf("%d", line.Unit.ID)
			out.UomCode = &code
		}
	}
	return out
}

// cabysFromProduct returns the first populated fiscal classification code,
// trying the field variants seen across CR localizations:
// cabys, l10n_cr_cabys, cabys_code, x_cabys.
func cabysFromProduct(p *entity.Product) *string {
	if p == nil {
		return nil
	}
	for _, candidate := range []string{p.Cabys, p.L10nCRCabys, p.CabysCode, p.XCabys} {
		if candidate != "" {
			return optional(candidate)
		}
	}
	return nil
}

// paymentMethods collects payment method display names in order, skipping
// entries with no resolvable name.
func paymentMethods(payments []entity.PaymentEntry) []string {
	methods := make([]string, 0, len(payments))
	for _, p := range payments {
		name := p.Name
		if p.Method != nil && p.Method.Name != "" {
			name = p.Method.Name
		}
		if name != "" {
			methods = append(methods, name)
		}
	}
	return methods
}

func companyParty(company *entity.Company, partner *entity.Partner) entity.Party {
	party := entity.Party{}
	if company != nil {
		party.ID = company.ID
		party.Name = company.Name
		party.VAT = company.VAT
		party.Email = optional(company.Email)
		party.Phone = optional(firstNonEmpty(company.Phone, company.Mobile))
		party.Address = entity.Address{
			Country: refName(company.Country),
			State:   refName(company.State),
			City:    optional(company.City),
			Street:  optional(company.Street),
		}
	}
	// The receiver's economic activity code travels in the company block,
	// sourced from the customer record.
	if partner != nil && partner.ActivityCode != "" {
		party.ActivityCode = optional(partner.ActivityCode)
	}
	return party
}

func customerParty(partner *entity.Partner, displayName string) entity.Party {
	party := entity.Party{Name: displayName}
	if partner == nil {
		return party
	}
	party.ID = partner.ID
	party.VAT = partner.VAT
	party.Email = optional(partner.Email)
	party.Phone = optional(firstNonEmpty(partner.Phone, partner.Mobile))
	party.Address = entity.Address{
		Country: refName(partner.Country),
		State:   refName(partner.State),
		City:    optional(partner.City),
		Street:  optional(partner.Street),
	}
	return party
}

// optional maps an empty string to null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func refName(r *entity.Ref) *string {
	if r.IsZero() {
		return nil
	}
	return optional(r.Name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
