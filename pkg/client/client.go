package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/naveenspark/tokenchat/pkg/domain"
)

// Client is the chat backend's token gateway. It holds no session state.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateToken requests a fresh room token for a new chat.
func (c *Client) GenerateToken(ctx context.Context) (domain.RoomToken, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.get(ctx, "/api/generate-token", &resp); err != nil {
		return "", fmt.Errorf("client.GenerateToken: %w", err)
	}
	token := domain.NewRoomToken(resp.Token)
	if token == "" {
		return "", fmt.Errorf("client.GenerateToken: %w: empty token in response", ErrNetwork)
	}
	return token, nil
}

// ValidateToken asks whether candidate names an open room. The candidate is
// uppercased before it is sent. A false result with a nil error means the
// server rejected the token; transport and decode failures return ErrNetwork.
func (c *Client) ValidateToken(ctx context.Context, candidate string) (bool, error) {
	body := map[string]string{"token": domain.NewRoomToken(candidate).String()}
	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := c.post(ctx, "/api/validate-token", body, &resp); err != nil {
		return false, fmt.Errorf("client.ValidateToken: %w", err)
	}
	return resp.Valid, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w: %w", ErrNetwork, err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}
