package openbanking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	t           *testing.T
	tokenCalls  int32
	accounts    string
	requisition string
	txns        map[string]string
	status      int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/token/new/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokenCalls, 1)
		assert.Equal(f.t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		if body["secret_id"] != "id" || body["secret_key"] != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access":"tok","access_expires":86400,"refresh":"r"}`))
	})
	mux.HandleFunc("/api/v2/accounts/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"detail":"rate limited"}`))
			return
		}
		if r.URL.Path == "/api/v2/accounts/" {
			_, _ = w.Write([]byte(f.accounts))
			return
		}
		acc := r.URL.Path[len("/api/v2/accounts/"):]
		acc = acc[:len(acc)-len("/transactions/")]
		assert.Equal(f.t, "2025-01-01", r.URL.Query().Get("date_from"))
		assert.Equal(f.t, "2025-01-31", r.URL.Query().Get("date_to"))
		_, _ = w.Write([]byte(f.txns[acc]))
	})
	mux.HandleFunc("/api/v2/requisitions/req-1/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(f.requisition))
	})
	return mux
}

func newTestClient(t *testing.T, api *fakeAPI, requisition string) *Client {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		BaseURL:       srv.URL + "/",
		SecretID:      "id",
		SecretKey:     "key",
		RequisitionID: requisition,
		HTTPClient:    srv.Client(),
	})
	require.NoError(t, err)
	return c
}

var (
	jan1  = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
)

func TestNewClient_RequiresSecrets(t *testing.T) {
	_, err := NewClient(Config{SecretKey: "key"})
	assert.Error(t, err)
	_, err = NewClient(Config{SecretID: "id"})
	assert.Error(t, err)
}

func TestListAccounts(t *testing.T) {
	api := &fakeAPI{t: t, accounts: `[{"id":"acc-1"},{"account_id":"acc-2"},{"resourceId":"acc-3"},{}]`}
	c := newTestClient(t, api, "")

	accounts, err := c.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Account{{ID: "acc-1"}, {ID: "acc-2"}, {ID: "acc-3"}}, accounts)

	_, err = c.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.tokenCalls), "token is cached")
}

func TestListAccounts_Paginated(t *testing.T) {
	api := &fakeAPI{t: t, accounts: `{"count":1,"results":[{"id":"acc-9"}]}`}
	c := newTestClient(t, api, "")

	accounts, err := c.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Account{{ID: "acc-9"}}, accounts)
}

func TestListAccounts_Requisition(t *testing.T) {
	api := &fakeAPI{t: t, requisition: `{"id":"req-1","status":"LN","accounts":["a","b"]}`}
	c := newTestClient(t, api, "req-1")

	accounts, err := c.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Account{{ID: "a"}, {ID: "b"}}, accounts)
}

func TestListTransactions_Nested(t *testing.T) {
	api := &fakeAPI{t: t, txns: map[string]string{"acc-1": `{
		"transactions": {
			"booked": [
				{"transactionId":"t1","bookingDate":"2025-01-05","transactionAmount":{"amount":"-12.50","currency":"EUR"},"creditorName":"ESSELUNGA","remittanceInformationUnstructured":"POS Esselunga"},
				{"internalTransactionId":"t2","bookingDateTime":"2025-01-06T10:00:00Z","transactionAmount":{"amount":"1500.00","currency":"EUR"},"debtorName":"ACME SPA"}
			],
			"pending": [
				{"id":"t3","bookingDate":"2025-01-30","amount":-3.2}
			]
		}
	}`}}
	c := newTestClient(t, api, "")

	records, err := c.ListTransactions(context.Background(), "acc-1", jan1, jan31)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Record{
		AccountID: "acc-1", TransactionID: "t1", Description: "POS Esselunga", Merchant: "ESSELUNGA",
		Amount: "-12.50", Currency: "EUR", BookingDate: "2025-01-05", Status: "booked",
	}, records[0])
	assert.Equal(t, "t2", records[1].TransactionID)
	assert.Equal(t, "2025-01-06", records[1].BookingDate)
	assert.Equal(t, "ACME SPA", records[1].Merchant)

	assert.Equal(t, "t3", records[2].TransactionID)
	assert.Equal(t, "-3.2", records[2].Amount)
	assert.Equal(t, "EUR", records[2].Currency)
	assert.Equal(t, "pending", records[2].Status)
}

func TestListTransactions_TopLevel(t *testing.T) {
	api := &fakeAPI{t: t, txns: map[string]string{"acc-1": `{"booked":[{"transactionId":"t1","bookingDate":"2025-01-05","amount":"9.99","currency":"USD","description":"Refund"}]}`}}
	c := newTestClient(t, api, "")

	records, err := c.ListTransactions(context.Background(), "acc-1", jan1, jan31)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "USD", records[0].Currency)
	assert.Equal(t, "Refund", records[0].Description)
}

func TestClient_Errors(t *testing.T) {
	t.Run("bad credentials", func(t *testing.T) {
		api := &fakeAPI{t: t}
		srv := httptest.NewServer(api.handler())
		defer srv.Close()
		c, err := NewClient(Config{BaseURL: srv.URL, SecretID: "id", SecretKey: "wrong"})
		require.NoError(t, err)

		_, err = c.ListAccounts(context.Background())
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("api error", func(t *testing.T) {
		api := &fakeAPI{t: t, status: http.StatusTooManyRequests}
		c := newTestClient(t, api, "")

		_, err := c.ListAccounts(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
		assert.Contains(t, apiErr.Body, "rate limited")
	})
}
