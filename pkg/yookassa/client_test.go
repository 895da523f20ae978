package yookassa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		100:    "1.00",
		60000:  "600.00",
		123456: "1234.56",
	}
	for kopecks, want := range cases {
		assert.Equal(t, want, FormatAmount(kopecks))
	}
}

func TestCreatePayment(t *testing.T) {
	var gotAuthUser, gotAuthPass, gotIdemKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		gotIdemKey = r.Header.Get("Idempotence-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(Payment{
			ID:     "pay-1",
			Status: "pending",
			Confirmation: &Confirmation{
				Type:            "redirect",
				ConfirmationURL: "https://pay.example/redirect",
			},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("shop-1", "sk-secret", srv.URL)
	p, err := c.CreatePayment(context.Background(), &CreatePaymentRequest{
		Amount:      60000,
		Description: "Order #7",
		ReturnURL:   "https://front.example/result",
		Metadata:    map[string]string{"type": "order", "order_id": "7"},
	})
	require.NoError(t, err)

	assert.Equal(t, "pay-1", p.ID)
	assert.Equal(t, "https://pay.example/redirect", p.ConfirmationURL())

	assert.Equal(t, "shop-1", gotAuthUser)
	assert.Equal(t, "sk-secret", gotAuthPass)
	assert.NotEmpty(t, gotIdemKey)

	amount := gotBody["amount"].(map[string]any)
	assert.Equal(t, "600.00", amount["value"])
	assert.Equal(t, "RUB", amount["currency"])
	assert.Equal(t, true, gotBody["capture"])
}

func TestCreatePaymentGuards(t *testing.T) {
	c := NewClient("", "")
	_, err := c.CreatePayment(context.Background(), &CreatePaymentRequest{Amount: 100})
	assert.ErrorIs(t, err, ErrNotConfigured)

	c = NewClient("shop", "key")
	_, err = c.CreatePayment(context.Background(), &CreatePaymentRequest{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreatePaymentAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"type":        "error",
			"code":        "invalid_request",
			"description": "amount is too small",
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("shop-1", "sk-secret", srv.URL)
	_, err := c.CreatePayment(context.Background(), &CreatePaymentRequest{Amount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount is too small")
}

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/pay-9", r.URL.Path)
		json.NewEncoder(w).Encode(Payment{ID: "pay-9", Status: "succeeded", Paid: true})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("shop-1", "sk-secret", srv.URL)
	p, err := c.GetPayment(context.Background(), "pay-9")
	require.NoError(t, err)
	assert.True(t, p.Paid)
	assert.Equal(t, "succeeded", p.Status)
}
