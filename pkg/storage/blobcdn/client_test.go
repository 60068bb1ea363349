package blobcdn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielovera/streampass-backend/pkg/config"
)

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/blobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.FormValue("folder") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer func() { _ = file.Close() }()

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"url":     "https://cdn.example.com/" + header.Filename,
			"blob_id": "blob-" + header.Filename,
		})
	})
	mux.HandleFunc("/v1/blobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), config.BlobCDNConfig{
		BaseURL:       server.URL,
		APIKey:        "test-key",
		UploadFolder:  "streampass-test",
		ClientTimeout: 5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return server, client
}

func TestUploadReturnsURLAndBlobID(t *testing.T) {
	_, client := newTestServer(t)

	url, blobID, err := client.Upload(context.Background(), []byte("png-bytes"), "logo.png", "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://cdn.example.com/logo.png" {
		t.Fatalf("url = %q", url)
	}
	if blobID != "blob-logo.png" {
		t.Fatalf("blob id = %q", blobID)
	}
}

func TestUploadRejectsEmptyPayload(t *testing.T) {
	_, client := newTestServer(t)

	if _, _, err := client.Upload(context.Background(), nil, "logo.png", "image/png"); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, _, err := client.Upload(context.Background(), []byte("x"), "", "image/png"); err == nil {
		t.Fatal("expected error for empty filename")
	}
}

func TestDeleteTreatsNotFoundAsSuccess(t *testing.T) {
	_, client := newTestServer(t)

	if err := client.Delete(context.Background(), "blob-logo.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := client.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("delete missing blob should be idempotent: %v", err)
	}
}

func TestNewClientRequiresConfig(t *testing.T) {
	if _, err := NewClient(context.Background(), config.BlobCDNConfig{APIKey: "k"}, nil); err == nil {
		t.Fatal("expected error without base url")
	}
	if _, err := NewClient(context.Background(), config.BlobCDNConfig{BaseURL: "http://example.com"}, nil); err == nil {
		t.Fatal("expected error without api key")
	}
}
