// Package starpay implements the PaymentGateway port against the
// provider's HTTP API.
package starpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/ports/gateways"
)

const defaultTimeout = 30 * time.Second

// Client talks to the payment provider. Error classification feeds the
// retry policy: 429 carries a Retry-After, 5xx and transport errors are
// transient, anything else is permanent.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a provider client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

var _ gateways.PaymentGateway = (*Client)(nil)

func (c *Client) ListTransactions(ctx context.Context, offset, limit int) ([]domain.StarTransaction, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	var result struct {
		Transactions []struct {
			ID              string `json:"id"`
			Amount          int64  `json:"amount"`
			SourceAccountID *int64 `json:"sourceAccountID"`
		} `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, "/transactions?"+query.Encode(), nil, &result); err != nil {
		return nil, err
	}

	transactions := make([]domain.StarTransaction, 0, len(result.Transactions))
	for _, t := range result.Transactions {
		transactions = append(transactions, domain.StarTransaction{
			ID:              t.ID,
			Amount:          t.Amount,
			SourceAccountID: t.SourceAccountID,
		})
	}
	return transactions, nil
}

func (c *Client) ReverseTransaction(ctx context.Context, accountID int64, transactionID string) error {
	body := map[string]any{
		"accountID":     accountID,
		"transactionID": transactionID,
	}
	return c.do(ctx, http.MethodPost, "/refunds", body, nil)
}

func (c *Client) SendItem(ctx context.Context, itemID string, recipient gateways.Recipient) error {
	body := map[string]any{"itemID": itemID}
	if recipient.AccountID != nil {
		body["recipientAccountID"] = *recipient.AccountID
	}
	if recipient.Channel != nil {
		body["recipientChannel"] = *recipient.Channel
	}
	return c.do(ctx, http.MethodPost, "/gifts/send", body, nil)
}

func (c *Client) FilteredCatalog(ctx context.Context, filter gateways.CatalogFilter) ([]domain.CatalogItem, error) {
	query := url.Values{}
	query.Set("minPrice", strconv.FormatInt(filter.MinPrice, 10))
	query.Set("maxPrice", strconv.FormatInt(filter.MaxPrice, 10))
	query.Set("minSupply", strconv.FormatInt(filter.MinSupply, 10))
	query.Set("maxSupply", strconv.FormatInt(filter.MaxSupply, 10))

	var result struct {
		Items []struct {
			ID     string `json:"id"`
			Price  int64  `json:"price"`
			Supply int64  `json:"supply"`
		} `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/gifts/catalog?"+query.Encode(), nil, &result); err != nil {
		return nil, err
	}

	items := make([]domain.CatalogItem, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, domain.CatalogItem{ID: item.ID, Price: item.Price, Supply: item.Supply})
	}
	return items, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &apperrors.TransientError{Err: err}
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &apperrors.TransientError{Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := time.Second
		if header := resp.Header.Get("Retry-After"); header != "" {
			if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return &apperrors.RateLimitedError{RetryAfter: retryAfter}
	case resp.StatusCode >= 500:
		return &apperrors.TransientError{Err: fmt.Errorf("provider returned status %d", resp.StatusCode)}
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", apperrors.ErrProviderPermanent, resp.StatusCode, payload)
	}
}
