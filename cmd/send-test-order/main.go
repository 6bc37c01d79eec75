package main

// Fires a sample completed order at a running integration service, the same
// way the old POS test button did. Useful for checking the webhook, the
// normalization output and the fiscal-proxy wiring end to end.

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	url := flag.String("url", "http://localhost:8080/webhooks/pos/order-completed", "order-completed webhook URL")
	token := flag.String("token", "", "shared bearer token, if the webhook requires one")
	flag.Parse()

	event := map[string]interface{}{
		"order": map[string]interface{}{
			"name":            "Order 0001",
			"uid":             "00001-001-0001",
			"validation_date": time.Now().Format("2006-01-02 15:04:05"),
			"amount_untaxed":  20.0,
			"amount_total":    22.6,
			"lines": []map[string]interface{}{
				{
					"id": 1,
					"product": map[string]interface{}{
						"id":            42,
						"display_name":  "Producto de prueba",
						"default_code":  "TEST-42",
						"l10n_cr_cabys": "2399999000000",
					},
					"quantity":       2,
					"price_unit":     10.0,
					"price_subtotal": 20.0,
					"price_total":    22.6,
					"taxes":          []map[string]interface{}{{"id": 5, "name": "IVA 13%"}},
				},
			},
			"payments": []map[string]interface{}{
				{"payment_method": map[string]interface{}{"id": 1, "name": "Efectivo"}, "amount": 22.6},
			},
		},
		"pos": map[string]interface{}{
			"currency": map[string]interface{}{"id": 7, "name": "Costa Rican Colón", "symbol": "₡", "position": "before"},
			"company":  map[string]interface{}{"id": 1, "name": "Empresa de Prueba S.A.", "vat": "3101123456"},
			"config":   map[string]interface{}{"id": 1, "name": "Caja Principal", "journal_id": []interface{}{3, "PdV"}},
		},
	}

	body, err := json.Marshal(event)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode event: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "post test order: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("status: %d\n", resp.StatusCode)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(respBody))
	}
}
