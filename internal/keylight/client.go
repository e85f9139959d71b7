// Package keylight provides a minimal HTTP client for Elgato key light
// devices. The device exposes a plain JSON API on port 9123; the response
// bodies of updates are drained but not interpreted.
package keylight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Client talks to a single key light device
type Client struct {
	address    string
	httpClient *http.Client
}

// NewClient creates a new key light client for host:port
func NewClient(host string, port int, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		address: fmt.Sprintf("%s:%d", host, port),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Address returns the device address (host:port)
func (c *Client) Address() string {
	return c.address
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("http://%s/elgato/%s", c.address, path)
}

func (c *Client) request(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

// Connect verifies the device is reachable by fetching its accessory info
func (c *Client) Connect(ctx context.Context) error {
	info, err := c.AccessoryInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to key light: %w", err)
	}

	log.Info().
		Str("address", c.address).
		Str("product", info.ProductName).
		Str("name", info.DisplayName).
		Str("firmware", info.FirmwareVersion).
		Msg("Connected to key light")
	return nil
}

// AccessoryInfo fetches device identity and firmware details
func (c *Client) AccessoryInfo(ctx context.Context) (*AccessoryInfo, error) {
	resp, err := c.request(ctx, http.MethodGet, "accessory-info", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info AccessoryInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	return &info, nil
}

// GetLights fetches the current light group state from the device
func (c *Client) GetLights(ctx context.Context) (*LightGroup, error) {
	resp, err := c.request(ctx, http.MethodGet, "lights", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var group LightGroup
	if err := json.NewDecoder(resp.Body).Decode(&group); err != nil {
		return nil, err
	}

	return &group, nil
}

// SetLights pushes a light group update to the device.
// The response body is drained so the connection can be reused.
func (c *Client) SetLights(ctx context.Context, group *LightGroup) error {
	payload, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to marshal light group: %w", err)
	}

	resp, err := c.request(ctx, http.MethodPut, "lights", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

// Close closes the client
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
