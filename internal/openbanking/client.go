// Package openbanking pulls booked and pending transactions from the
// GoCardless Bank Account Data API.
package openbanking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://bankaccountdata.gocardless.com"

// ErrUnauthorized is returned when the API rejects the credentials or token.
var ErrUnauthorized = errors.New("open banking: unauthorized")

// Account is a linked bank account.
type Account struct {
	ID string `json:"account_id"`
}

// Record is a provider transaction reduced to the fields the importer needs.
type Record struct {
	AccountID     string `json:"account_id"`
	TransactionID string `json:"transaction_id"`
	Description   string `json:"description"`
	Merchant      string `json:"merchant_name,omitempty"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	BookingDate   string `json:"booking_date"`
	Status        string `json:"status"`
}

//go:generate mockgen -destination=mocks/mock_provider.go -source=client.go Provider

// Provider lists accounts and their transactions.
type Provider interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	ListTransactions(ctx context.Context, accountID string, from, to time.Time) ([]Record, error)
}

// Config configures a Client.
type Config struct {
	BaseURL       string
	SecretID      string
	SecretKey     string
	RequisitionID string
	HTTPClient    *http.Client
	Clock         func() time.Time
}

// Client is a Provider backed by the GoCardless HTTP API. Safe for concurrent
// use.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	secretID      string
	secretKey     string
	requisitionID string
	clock         func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

var _ Provider = (*Client)(nil)

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.SecretID == "" {
		return nil, errors.New("open banking secret_id required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("open banking secret_key required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimSuffix(base, "/"),
		secretID:      cfg.SecretID,
		secretKey:     cfg.SecretKey,
		requisitionID: cfg.RequisitionID,
		clock:         clock,
	}, nil
}

type tokenResponse struct {
	Access        string `json:"access"`
	AccessExpires int    `json:"access_expires"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.clock().Before(c.expiresAt) {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"secret_id":  c.secretID,
		"secret_key": c.secretKey,
	})
	if err != nil {
		return "", err
	}

	var tok tokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/v2/token/new/", "", bytes.NewReader(body), &tok); err != nil {
		return "", fmt.Errorf("requesting access token: %w", err)
	}
	if tok.Access == "" {
		return "", errors.New("requesting access token: empty access token")
	}

	ttl := time.Duration(tok.AccessExpires) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	c.token = tok.Access
	// Refresh a minute early.
	c.expiresAt = c.clock().Add(ttl - time.Minute)
	return c.token, nil
}

// dropTokenOn forgets the cached token after an auth failure so the next call
// requests a fresh one.
func (c *Client) dropTokenOn(err error) {
	if !errors.Is(err, ErrUnauthorized) {
		return
	}
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

type accountRef struct {
	ID         string `json:"id"`
	AccountID  string `json:"account_id"`
	ResourceID string `json:"resourceId"`
}

func (a accountRef) id() string {
	switch {
	case a.ID != "":
		return a.ID
	case a.AccountID != "":
		return a.AccountID
	}
	return a.ResourceID
}

// ListAccounts returns the accounts of the configured requisition, or every
// account visible to the credentials when no requisition is set.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	if c.requisitionID != "" {
		var rq struct {
			Accounts []string `json:"accounts"`
		}
		path := "/api/v2/requisitions/" + url.PathEscape(c.requisitionID) + "/"
		if err := c.do(ctx, http.MethodGet, path, token, nil, &rq); err != nil {
			c.dropTokenOn(err)
			return nil, fmt.Errorf("fetching requisition: %w", err)
		}
		accounts := make([]Account, 0, len(rq.Accounts))
		for _, id := range rq.Accounts {
			if id != "" {
				accounts = append(accounts, Account{ID: id})
			}
		}
		return accounts, nil
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v2/accounts/", token, nil, &raw); err != nil {
		c.dropTokenOn(err)
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	refs, err := decodeAccounts(raw)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	accounts := make([]Account, 0, len(refs))
	for _, ref := range refs {
		if id := ref.id(); id != "" {
			accounts = append(accounts, Account{ID: id})
		}
	}
	return accounts, nil
}

// decodeAccounts accepts a bare array or a paginated {"results": [...]} body.
func decodeAccounts(raw json.RawMessage) ([]accountRef, error) {
	var refs []accountRef
	if err := json.Unmarshal(raw, &refs); err == nil {
		return refs, nil
	}
	var page struct {
		Results []accountRef `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

type amountField struct {
	Amount   flexString `json:"amount"`
	Currency string     `json:"currency"`
}

type rawTransaction struct {
	TransactionID         string      `json:"transactionId"`
	InternalTransactionID string      `json:"internalTransactionId"`
	ID                    string      `json:"id"`
	Remittance            string      `json:"remittanceInformationUnstructured"`
	Description           string      `json:"description"`
	CreditorName          string      `json:"creditorName"`
	DebtorName            string      `json:"debtorName"`
	TransactionAmount     amountField `json:"transactionAmount"`
	Amount                flexString  `json:"amount"`
	Currency              string      `json:"currency"`
	BookingDate           string      `json:"bookingDate"`
	BookingDateTime       string      `json:"bookingDateTime"`
}

type transactionsResponse struct {
	Booked       []rawTransaction `json:"booked"`
	Pending      []rawTransaction `json:"pending"`
	Transactions struct {
		Booked  []rawTransaction `json:"booked"`
		Pending []rawTransaction `json:"pending"`
	} `json:"transactions"`
}

// ListTransactions returns booked records followed by pending ones for the
// inclusive date range.
func (c *Client) ListTransactions(ctx context.Context, accountID string, from, to time.Time) ([]Record, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"date_from": {from.Format("2006-01-02")},
		"date_to":   {to.Format("2006-01-02")},
	}
	path := "/api/v2/accounts/" + url.PathEscape(accountID) + "/transactions/?" + q.Encode()

	var resp transactionsResponse
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		c.dropTokenOn(err)
		return nil, fmt.Errorf("fetching transactions for %s: %w", accountID, err)
	}

	booked := resp.Booked
	if len(booked) == 0 {
		booked = resp.Transactions.Booked
	}
	pending := resp.Pending
	if len(pending) == 0 {
		pending = resp.Transactions.Pending
	}

	records := make([]Record, 0, len(booked)+len(pending))
	for _, t := range booked {
		records = append(records, t.record(accountID, "booked"))
	}
	for _, t := range pending {
		records = append(records, t.record(accountID, "pending"))
	}
	return records, nil
}

func (t rawTransaction) record(accountID, status string) Record {
	r := Record{
		AccountID:     accountID,
		TransactionID: firstNonEmpty(t.TransactionID, t.InternalTransactionID, t.ID),
		Description:   firstNonEmpty(t.Remittance, t.Description),
		Merchant:      firstNonEmpty(t.CreditorName, t.DebtorName),
		Amount:        firstNonEmpty(string(t.TransactionAmount.Amount), string(t.Amount)),
		Currency:      firstNonEmpty(t.TransactionAmount.Currency, t.Currency, "EUR"),
		BookingDate:   t.BookingDate,
		Status:        status,
	}
	if r.BookingDate == "" {
		r.BookingDate, _, _ = strings.Cut(t.BookingDateTime, "T")
	}
	return r
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// APIError is a non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("open banking API returned %d: %s", e.Status, e.Body)
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w (%d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
