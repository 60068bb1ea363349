package blobcdn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielovera/streampass-backend/pkg/config"
	"github.com/danielovera/streampass-backend/pkg/logger"
)

const pingTimeout = 5 * time.Second

// Client talks to the blob CDN's HTTP upload API. Uploaded blobs are served
// from the CDN's public URL space; the blob ID is what delete operations key on.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	folder     string
}

type uploadResponse struct {
	URL    string `json:"url"`
	BlobID string `json:"blob_id"`
}

// NewClient validates config and verifies connectivity before returning.
func NewClient(ctx context.Context, cfg config.BlobCDNConfig, logg *logger.Logger) (*Client, error) {
	if !cfg.Configured() {
		return nil, errors.New("blob cdn base url is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("blob cdn api key is required")
	}

	timeout := cfg.ClientTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		folder:     cfg.UploadFolder,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("blob cdn health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "blob cdn client initialized")
	}

	return client, nil
}

// Upload stores the payload under the configured folder and returns the
// public URL plus the blob ID used for later deletion.
func (c *Client) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, string, error) {
	if c == nil {
		return "", "", errors.New("blob cdn client not initialized")
	}
	if len(data) == 0 {
		return "", "", errors.New("payload is empty")
	}
	if strings.TrimSpace(filename) == "" {
		return "", "", errors.New("filename is required")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("folder", c.folder); err != nil {
		return "", "", fmt.Errorf("writing folder field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", "", fmt.Errorf("writing payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", "", fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/blobs", &body)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if contentType != "" {
		req.Header.Set("X-Blob-Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", "", fmt.Errorf("blob cdn upload returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", "", fmt.Errorf("decoding upload response: %w", err)
	}
	if parsed.URL == "" || parsed.BlobID == "" {
		return "", "", errors.New("blob cdn upload response missing url or blob_id")
	}

	return parsed.URL, parsed.BlobID, nil
}

// Delete removes the blob. A 404 counts as success so retries stay idempotent.
func (c *Client) Delete(ctx context.Context, blobID string) error {
	if c == nil {
		return errors.New("blob cdn client not initialized")
	}
	if strings.TrimSpace(blobID) == "" {
		return errors.New("blob id is required")
	}

	u := fmt.Sprintf("%s/v1/blobs/%s", c.baseURL, url.PathEscape(blobID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("blob cdn delete returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
}

// Ping verifies the CDN answers with our credentials.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("blob cdn client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("blob cdn health returned %d", resp.StatusCode)
	}
	return nil
}
