package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/danielovera/streampass-backend/pkg/config"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/logger"
)

// Kind classifies what an upload is for; each kind has its own mime allowlist.
type Kind string

const (
	KindChannelLogo    Kind = "channel_logo"
	KindAppIcon        Kind = "app_icon"
	KindVideoThumbnail Kind = "video_thumbnail"
	KindVideo          Kind = "video"
)

var allowedMimeByKind = map[Kind][]string{
	KindChannelLogo:    {"image/png", "image/jpeg", "image/webp", "image/svg+xml"},
	KindAppIcon:        {"image/png", "image/jpeg", "image/webp"},
	KindVideoThumbnail: {"image/png", "image/jpeg", "image/webp"},
	KindVideo:          {"video/mp4", "video/webm"},
}

// blobUploader is the slice of the CDN client the service needs. A nil
// uploader switches the service to inline data-URL mode for environments
// without a CDN.
type blobUploader interface {
	Upload(ctx context.Context, data []byte, filename string, contentType string) (string, string, error)
	Delete(ctx context.Context, blobID string) error
}

// UploadInput models one incoming file.
type UploadInput struct {
	Kind        Kind
	FileName    string
	ContentType string
	Data        []byte
}

// UploadOutput is returned to the admin client. BlobID is empty in inline mode.
type UploadOutput struct {
	URL    string `json:"url"`
	BlobID string `json:"blob_id,omitempty"`
}

// Service stores uploaded media and removes abandoned blobs.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	DeleteBlobBestEffort(ctx context.Context, blobIDs ...string)
}

type service struct {
	uploader blobUploader
	logg     *logger.Logger
	maxBytes int64
}

// NewService constructs a media service. uploader may be nil.
func NewService(uploader blobUploader, cfg config.MediaConfig, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		uploader: uploader,
		logg:     logg,
		maxBytes: int64(maxMB) * 1024 * 1024,
	}, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	allowed, ok := allowedMimeByKind[input.Kind]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown media kind %q", input.Kind))
	}
	if len(input.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if int64(len(input.Data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds the %d MB upload limit", s.maxBytes/(1024*1024)))
	}

	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	if !containsString(allowed, contentType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s uploads accept %s, got %q", input.Kind, strings.Join(allowed, ", "), contentType))
	}

	filename := strings.TrimSpace(input.FileName)
	if filename == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}

	if s.uploader == nil {
		// Inline mode keeps small deployments working without a CDN.
		url := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(input.Data))
		return &UploadOutput{URL: url}, nil
	}

	url, blobID, err := s.uploader.Upload(ctx, input.Data, filename, contentType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading to blob cdn")
	}
	return &UploadOutput{URL: url, BlobID: blobID}, nil
}

// DeleteBlobBestEffort removes blobs left behind by replaced or deleted
// catalog entries. Failures are logged and swallowed; a stale blob is not
// worth failing the caller's request over.
func (s *service) DeleteBlobBestEffort(ctx context.Context, blobIDs ...string) {
	if s.uploader == nil {
		return
	}

	var errs error
	for _, blobID := range blobIDs {
		if strings.TrimSpace(blobID) == "" {
			continue
		}
		if err := s.uploader.Delete(ctx, blobID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("blob %s: %w", blobID, err))
		}
	}
	if errs != nil {
		s.logg.Error(ctx, "failed to delete cdn blobs", errs)
	}
}

func containsString(haystack []string, needle string) bool {
	for _, value := range haystack {
		if value == needle {
			return true
		}
	}
	return false
}
