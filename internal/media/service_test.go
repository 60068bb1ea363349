package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danielovera/streampass-backend/pkg/config"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/logger"
)

type fakeUploader struct {
	uploaded []string
	deleted  []string
	failOn   map[string]error
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, string, error) {
	f.uploaded = append(f.uploaded, filename)
	return "https://cdn.example.com/" + filename, "blob-" + filename, nil
}

func (f *fakeUploader) Delete(ctx context.Context, blobID string) error {
	if err, ok := f.failOn[blobID]; ok {
		return err
	}
	f.deleted = append(f.deleted, blobID)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "streampass-test", Level: zerolog.ErrorLevel})
}

func newTestService(t *testing.T, uploader blobUploader) Service {
	t.Helper()
	svc, err := NewService(uploader, config.MediaConfig{MaxUploadMB: 1}, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestUploadViaCDN(t *testing.T) {
	uploader := &fakeUploader{}
	svc := newTestService(t, uploader)

	out, err := svc.Upload(context.Background(), UploadInput{
		Kind:        KindChannelLogo,
		FileName:    "logo.png",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if out.URL != "https://cdn.example.com/logo.png" || out.BlobID != "blob-logo.png" {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestUploadInlineFallback(t *testing.T) {
	svc := newTestService(t, nil)

	out, err := svc.Upload(context.Background(), UploadInput{
		Kind:        KindAppIcon,
		FileName:    "icon.png",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(out.URL, "data:image/png;base64,") {
		t.Fatalf("expected data url, got %q", out.URL)
	}
	if out.BlobID != "" {
		t.Fatalf("inline mode must not return a blob id, got %q", out.BlobID)
	}
}

func TestUploadValidation(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})
	ctx := context.Background()

	cases := []struct {
		name  string
		input UploadInput
	}{
		{"unknown kind", UploadInput{Kind: Kind("banner"), FileName: "x.png", ContentType: "image/png", Data: []byte("x")}},
		{"empty file", UploadInput{Kind: KindChannelLogo, FileName: "x.png", ContentType: "image/png"}},
		{"wrong mime", UploadInput{Kind: KindVideo, FileName: "x.gif", ContentType: "image/gif", Data: []byte("x")}},
		{"missing name", UploadInput{Kind: KindChannelLogo, ContentType: "image/png", Data: []byte("x")}},
		{"oversized", UploadInput{Kind: KindChannelLogo, FileName: "x.png", ContentType: "image/png", Data: make([]byte, 2*1024*1024)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tc.input)
			if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDeleteBlobBestEffortSwallowsFailures(t *testing.T) {
	uploader := &fakeUploader{failOn: map[string]error{"blob-bad": errors.New("cdn down")}}
	svc := newTestService(t, uploader)

	svc.DeleteBlobBestEffort(context.Background(), "blob-good", "blob-bad", "", "blob-also-good")

	if len(uploader.deleted) != 2 {
		t.Fatalf("deleted %v, want the two healthy blobs", uploader.deleted)
	}
}
