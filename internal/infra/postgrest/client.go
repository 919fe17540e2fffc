// Package postgrest talks to the hosted data store over its REST interface.
package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cpghub_cleanup/internal/infra/config"
)

const maxErrorBody = 4096

// DataStoreError is returned for any non-success response from the data store.
type DataStoreError struct {
	Op     string
	Status int
	Body   string
}

func (e *DataStoreError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.Status, e.Body)
}

// Client is a minimal PostgREST client authenticated with a service key.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient builds a client. Empty baseURL or serviceKey are accepted here and
// reported as a ConfigurationError on the first request.
func NewClient(baseURL, serviceKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) checkConfig() error {
	if c.baseURL == "" {
		return &config.ConfigurationError{Key: config.EnvSupabaseURL}
	}
	if c.serviceKey == "" {
		return &config.ConfigurationError{Key: config.EnvSupabaseServiceKey}
	}
	return nil
}

// do issues a request against /rest/v1/<table>. A non-2xx status becomes a
// DataStoreError; on success the body is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, op string, out any) error {
	if err := c.checkConfig(); err != nil {
		return err
	}

	endpoint := c.baseURL + "/rest/v1/" + table + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &DataStoreError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
