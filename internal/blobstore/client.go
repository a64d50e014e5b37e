// Package blobstore — HTTP client for the bucket-style blob storage
// service holding uploaded logo images.
// Operations: Upload (upsert PUT), List (prefix listing), Delete
// (idempotent). Objects are publicly readable through a derived URL.
package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrStorage wraps every blob store failure so callers can classify the
// error without inspecting HTTP details.
var ErrStorage = errors.New("blob store error")

// ObjectInfo — object metadata returned by List.
type ObjectInfo struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// listResponse — blob store response to GET /object/list/{bucket}.
type listResponse struct {
	Objects []ObjectInfo `json:"objects"`
}

// Client — HTTP client for the blob storage service. All operations
// target a single bucket fixed at construction time.
type Client struct {
	baseURL    string
	key        string
	bucket     string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a blob store client.
// key is the bearer credential; an empty key sends unauthenticated
// requests (the startup warning covers that case).
func New(baseURL, key, bucket string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    normalizeURL(baseURL),
		key:        key,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With(slog.String("component", "blobstore")),
	}
}

// Upload stores data under path in the bucket, replacing any existing
// object at the same path. Returns the path and the public URL of the
// stored object.
func (c *Client) Upload(ctx context.Context, data []byte, contentType, path string) (storedPath, publicURL string, err error) {
	reqURL := fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, escapePath(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("%w: creating upload request: %v", ErrStorage, err)
	}
	req.Header.Set("Content-Type", contentType)
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: upload to %s: %v", ErrStorage, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("%w: upload returned status %d: %s", ErrStorage, resp.StatusCode, string(body))
	}

	c.logger.Debug("object uploaded",
		slog.String("bucket", c.bucket),
		slog.String("path", path),
		slog.Int("size", len(data)),
	)

	return path, c.PublicURL(path), nil
}

// List returns metadata of objects whose path starts with prefix.
func (c *Client) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	reqURL := fmt.Sprintf("%s/object/list/%s?prefix=%s", c.baseURL, c.bucket, url.QueryEscape(prefix))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating list request: %v", ErrStorage, err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list from %s: %v", ErrStorage, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: list returned status %d: %s", ErrStorage, resp.StatusCode, string(body))
	}

	var listResp listResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("%w: decoding list response: %v", ErrStorage, err)
	}

	return listResp.Objects, nil
}

// Delete removes the object at path. Deleting an absent object is not
// an error.
func (c *Client) Delete(ctx context.Context, path string) error {
	reqURL := fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, escapePath(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: creating delete request: %v", ErrStorage, err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: delete from %s: %v", ErrStorage, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent &&
		resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: delete returned status %d: %s", ErrStorage, resp.StatusCode, string(body))
	}

	return nil
}

// PublicURL derives the public read URL of an object path.
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.baseURL, c.bucket, escapePath(path))
}

// BaseURL returns the service endpoint (used by the dependency health
// check and the storage probe page).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// authorize sets the bearer header when a credential is configured.
func (c *Client) authorize(req *http.Request) {
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}
}

// escapePath escapes each path segment, keeping the separators.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// normalizeURL strips the trailing slash from a URL.
func normalizeURL(rawURL string) string {
	return strings.TrimRight(rawURL, "/")
}
