package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var ErrInvoiceFetchFailed = errors.New("INVOICE_FETCH_FAILED")

// Invoice is a single payable or receivable invoice as returned by the
// invoice service. Payable invoices carry Vendor, receivable ones Customer.
type Invoice struct {
	ID       string  `json:"id"`
	Vendor   string  `json:"vendor,omitempty"`
	Customer string  `json:"customer,omitempty"`
	Amount   float64 `json:"amount"`
	DueDate  string  `json:"dueDate"`
	Status   string  `json:"status"`
}

type Summary struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type Data struct {
	Invoices []Invoice `json:"invoices"`
	Summary  Summary   `json:"summary"`
}

// Query selects which invoices to fetch. Type is "payable" or "receivable";
// the filter fields are optional and omitted from the request when empty.
type Query struct {
	Type     string
	Status   string
	Vendor   string
	Customer string
}

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

func NewClient(baseURL string, timeout time.Duration, logger Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) Fetch(ctx context.Context, q Query) (*Data, error) {
	params := url.Values{}
	params.Set("type", q.Type)
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Vendor != "" {
		params.Set("vendor", q.Vendor)
	}
	if q.Customer != "" {
		params.Set("customer", q.Customer)
	}

	endpoint := fmt.Sprintf("%s/api/genai-invoices?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvoiceFetchFailed, err)
	}

	c.logger.Info("Fetching invoice data", map[string]interface{}{
		"type":     q.Type,
		"status":   q.Status,
		"vendor":   q.Vendor,
		"customer": q.Customer,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvoiceFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrInvoiceFetchFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: invoice service returned status %d", ErrInvoiceFetchFailed, resp.StatusCode)
	}

	var data Data
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrInvoiceFetchFailed, err)
	}

	return &data, nil
}
