package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefUnmarshalForms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Ref
	}{
		{"pair form", `[7, "Costa Rican Colón"]`, Ref{ID: 7, Name: "Costa Rican Colón"}},
		{"object form", `{"id": 3, "name": "PdV"}`, Ref{ID: 3, Name: "PdV"}},
		{"empty reference as false", `false`, Ref{}},
		{"null", `null`, Ref{}},
		{"single element pair", `[12]`, Ref{ID: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Ref
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRefUnmarshalRejectsGarbage(t *testing.T) {
	var got Ref
	assert.Error(t, json.Unmarshal([]byte(`"loose string"`), &got))
}

func TestRefIsZero(t *testing.T) {
	var nilRef *Ref
	assert.True(t, nilRef.IsZero())
	assert.True(t, (&Ref{}).IsZero())
	assert.False(t, (&Ref{ID: 1}).IsZero())
	assert.False(t, (&Ref{Name: "x"}).IsZero())
}

func TestDecodeOrderAbsent(t *testing.T) {
	for _, raw := range []string{"", "null", "false"} {
		order, err := DecodeOrder(json.RawMessage(raw))
		assert.NoError(t, err, raw)
		assert.Nil(t, order, raw)
	}
}

func TestDecodeOrderStructuralFailure(t *testing.T) {
	for _, raw := range []string{`"hello"`, `42`, `[1,2,3]`} {
		order, err := DecodeOrder(json.RawMessage(raw))
		assert.Nil(t, order, raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrNotAnOrder, raw)
	}
}

func TestDecodeOrderEmptyObjectIsValid(t *testing.T) {
	// An empty order is an order with zero lines, not a structural
	// failure.
	order, err := DecodeOrder(json.RawMessage(`{}`))
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Len(t, order.Lines, 0)
}

func TestDecodeOrderFullShape(t *testing.T) {
	raw := json.RawMessage(`{
		"name": "Order 0001",
		"uid": "00001-001-0001",
		"validation_date": "2024-03-15 10:22:01",
		"amount_untaxed": 20,
		"amount_total": 22.6,
		"partner": {"id": 8, "name": "ACME", "country_id": [52, "Costa Rica"]},
		"lines": [{
			"id": 1,
			"product": {"id": 42, "display_name": "Widget", "l10n_cr_cabys": "1234"},
			"quantity": 2,
			"price_unit": 10,
			"price_subtotal": 20,
			"price_total": 22.6,
			"taxes": [{"id": 5, "name": "IVA 13%"}],
			"uom": [1, "Units"]
		}],
		"payments": [{"payment_method": {"id": 1, "name": "Cash"}, "amount": 22.6}]
	}`)

	order, err := DecodeOrder(raw)
	require.NoError(t, err)

	assert.Equal(t, "Order 0001", order.Name)
	require.NotNil(t, order.AmountTotal)
	assert.Equal(t, 22.6, *order.AmountTotal)
	require.NotNil(t, order.Partner)
	assert.Equal(t, "Costa Rica", order.Partner.Country.Name)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "1234", order.Lines[0].Product.L10nCRCabys)
	assert.Equal(t, "Units", order.Lines[0].Unit.Name)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, "Cash", order.Payments[0].Method.Name)
}

func TestDecodePosContextTolerant(t *testing.T) {
	ctx, err := DecodePosContext(json.RawMessage(""))
	assert.NoError(t, err)
	require.NotNil(t, ctx)

	ctx, err = DecodePosContext(json.RawMessage(`"broken"`))
	assert.Error(t, err)
	require.NotNil(t, ctx)
	assert.Nil(t, ctx.Currency)

	ctx, err = DecodePosContext(json.RawMessage(`{"config": {"name": "Caja 1", "journal_id": [3, "PdV"]}}`))
	require.NoError(t, err)
	require.NotNil(t, ctx.Config)
	assert.Equal(t, int64(3), ctx.Config.Journal.ID)
}
