// Package fyers is the live order-execution venue, a thin client for
// the Fyers v3 REST API.
package fyers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rksahai/tradehook/broker"
	"github.com/rksahai/tradehook/pkg/id"
)

const (
	// APIURL is the transaction endpoint root.
	APIURL = "https://api-t1.fyers.in/api/v3"
	// DataURL is the market-data endpoint root.
	DataURL = "https://api-t1.fyers.in/data"
)

// Fyers order type codes.
const (
	orderTypeLimit  = 1
	orderTypeMarket = 2
)

// Client talks to the Fyers API. It implements broker.OrderExecutor
// and broker.Quoter.
type Client struct {
	apiURL     string
	dataURL    string
	appID      string
	token      string
	httpClient *http.Client
}

// NewClient builds a client authenticated as appID with the given
// access token. Every call is bounded by the HTTP client timeout in
// addition to the caller's context.
func NewClient(appID, accessToken string) *Client {
	return &Client{
		apiURL:  APIURL,
		dataURL: DataURL,
		appID:   appID,
		token:   accessToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fyers authorizes with "appID:token" rather than a bare bearer token.
func (c *Client) authHeader() string {
	return c.appID + ":" + c.token
}

type orderPayload struct {
	Symbol       string  `json:"symbol"`
	Qty          int     `json:"qty"`
	Type         int     `json:"type"`
	Side         int     `json:"side"`
	ProductType  string  `json:"productType"`
	LimitPrice   float64 `json:"limitPrice"`
	StopPrice    float64 `json:"stopPrice"`
	Validity     string  `json:"validity"`
	DisclosedQty int     `json:"disclosedQty"`
	OfflineOrder bool    `json:"offlineOrder"`
	OrderTag     string  `json:"orderTag"`
}

// envelope is the common Fyers response wrapper: s is "ok" or "error".
type envelope struct {
	S       string `json:"s"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// PlaceOrder submits an intraday order. Any transport error, non-2xx
// status, or s != "ok" means the order was not placed.
func (c *Client) PlaceOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderResult, error) {
	orderType := orderTypeMarket
	if req.Type == broker.Limit {
		orderType = orderTypeLimit
	}

	payload := orderPayload{
		Symbol:      req.Symbol,
		Qty:         req.Quantity,
		Type:        orderType,
		Side:        int(req.Side),
		ProductType: "INTRADAY",
		Validity:    "DAY",
		OrderTag:    id.New(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return broker.OrderResult{}, fmt.Errorf("marshal order: %w", err)
	}

	var resp envelope
	if err := c.post(ctx, c.apiURL+"/orders/sync", body, &resp); err != nil {
		return broker.OrderResult{}, fmt.Errorf("place order: %w", err)
	}
	if resp.S != "ok" {
		return broker.OrderResult{}, fmt.Errorf("place order rejected: %s", resp.Message)
	}

	return broker.OrderResult{OrderID: resp.ID}, nil
}

type quoteResponse struct {
	S string `json:"s"`
	D []struct {
		N string `json:"n"`
		V struct {
			LP float64 `json:"lp"` // last traded price
		} `json:"v"`
	} `json:"d"`
}

// Quote returns the last traded price for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	u := c.dataURL + "/quotes?symbols=" + url.QueryEscape(symbol)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", c.authHeader())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("quote %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("quote %s: status %d: %s", symbol, resp.StatusCode, string(b))
	}

	var qr quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return 0, fmt.Errorf("decode quote: %w", err)
	}
	if qr.S != "ok" || len(qr.D) == 0 {
		return 0, fmt.Errorf("quote %s: no data", symbol)
	}

	return qr.D[0].V.LP, nil
}

// Profile verifies the credentials at startup, mirroring the login
// check the dashboard does. Returns the account holder's name.
func (c *Client) Profile(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/profile", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", c.authHeader())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("get profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("get profile: status %d: %s", resp.StatusCode, string(b))
	}

	var pr struct {
		S    string `json:"s"`
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("decode profile: %w", err)
	}
	if pr.S != "ok" {
		return "", fmt.Errorf("get profile: %s", pr.Message)
	}

	return pr.Data.Name, nil
}

func (c *Client) post(ctx context.Context, u string, body []byte, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", c.authHeader())
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
