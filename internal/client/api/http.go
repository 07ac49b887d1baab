package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every request unless the caller's context is
// stricter.
const DefaultTimeout = 10 * time.Second

// TokenSource supplies the current bearer token. ok is false when no valid
// token exists, in which case the request goes out unauthenticated.
type TokenSource func() (token string, ok bool)

// HTTPClient is the production Client implementation.
//
// Every outgoing request passes through the token source (the request
// interceptor); every 401 response triggers onUnauthorized before the error
// is returned (the response interceptor). Both hooks are optional.
type HTTPClient struct {
	baseURL        string
	http           *http.Client
	tokenSource    TokenSource
	onUnauthorized func()
}

func NewHTTPClient(baseURL string, timeout time.Duration, tokenSource TokenSource, onUnauthorized func()) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL:        baseURL,
		http:           &http.Client{Timeout: timeout},
		tokenSource:    tokenSource,
		onUnauthorized: onUnauthorized,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokenSource != nil {
		if token, ok := c.tokenSource(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// mapError converts a non-2xx response into a sentinel or *APIError. The
// response body is consumed.
func (c *HTTPClient) mapError(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}

	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Message == "" {
		payload.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: payload.Message}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body, err := json.Marshal(LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.mapError(resp)
	}
	defer resp.Body.Close()

	var result LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &result, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/auth/logout", "application/json", nil)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(resp)
	}
	resp.Body.Close()
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, contentType string, body io.Reader) error {
	resp, err := c.do(ctx, http.MethodPost, "/auth/register", contentType, body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(resp)
	}
	resp.Body.Close()
	return nil
}

func (c *HTTPClient) DocumentTypes(ctx context.Context) ([]DocumentType, error) {
	var result []DocumentType
	if err := c.getJSON(ctx, "/document-types", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) ActiveCourseTypes(ctx context.Context) ([]CourseType, error) {
	var result []CourseType
	if err := c.getJSON(ctx, "/course-types/active", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(resp)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
