// Package client calls the form's translation endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// TranslatePath is the fixed backend path the form posts to.
const TranslatePath = "/api/translate"

// FallbackMessage is shown when an error response carries no usable reason.
const FallbackMessage = "Translation failed."

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 1 << 20

type Request struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type Response struct {
	TranslatedText string `json:"translatedText"`
}

// StatusError is returned for any non-2xx response. Message is the reason
// extracted from the body by ErrorMessage.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a client for the server at baseURL (scheme and host, no path).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate issues exactly one POST to TranslatePath.
func (c *Client) Translate(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+TranslatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: ErrorMessage(body)}
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in response body")
	}

	out := &Response{}
	if v := gjson.GetBytes(body, "translatedText"); truthy(v) {
		out.TranslatedText = v.String()
	}
	return out, nil
}

// ErrorMessage derives a human readable reason from an error response body:
// the "detail" field, else the "error" field, else the whole body as compact
// JSON. Non-string values are serialized. An unparsable body, or one whose
// reason is empty, yields FallbackMessage.
func ErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return FallbackMessage
	}

	root := gjson.ParseBytes(body)
	if !truthy(root) {
		return FallbackMessage
	}

	for _, key := range []string{"detail", "error"} {
		if root.IsObject() {
			if v := root.Get(key); truthy(v) {
				return stringify(v)
			}
		}
	}

	return stringify(root)
}

func stringify(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	return string(pretty.Ugly([]byte(v.Raw)))
}

// truthy mirrors the truthiness of a decoded JSON value.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	default:
		return v.Exists()
	}
}
