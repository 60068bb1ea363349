package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

// Service exposes catalog browsing for the storefront and CRUD for admins.
type Service interface {
	CreateChannel(ctx context.Context, dto CreateChannelDTO) (*ChannelDTO, error)
	GetChannel(ctx context.Context, id uuid.UUID) (*ChannelDTO, error)
	ListChannels(ctx context.Context, filter ListFilter, params pagination.Params) ([]ChannelDTO, pagination.Meta, error)
	UpdateChannel(ctx context.Context, id uuid.UUID, dto UpdateChannelDTO) (*ChannelDTO, error)
	DeleteChannel(ctx context.Context, id uuid.UUID) error

	CreateApp(ctx context.Context, dto CreateAppDTO) (*AppDTO, error)
	GetApp(ctx context.Context, id uuid.UUID) (*AppDTO, error)
	ListApps(ctx context.Context, filter ListFilter, params pagination.Params) ([]AppDTO, pagination.Meta, error)
	UpdateApp(ctx context.Context, id uuid.UUID, dto UpdateAppDTO) (*AppDTO, error)
	DeleteApp(ctx context.Context, id uuid.UUID) error

	CreateVideo(ctx context.Context, dto CreateVideoDTO) (*VideoDTO, error)
	GetVideo(ctx context.Context, id uuid.UUID) (*VideoDTO, error)
	ListVideos(ctx context.Context, filter ListFilter, params pagination.Params) ([]VideoDTO, pagination.Meta, error)
	UpdateVideo(ctx context.Context, id uuid.UUID, dto UpdateVideoDTO) (*VideoDTO, error)
	DeleteVideo(ctx context.Context, id uuid.UUID) error
}

// blobCleaner removes CDN blobs that catalog mutations orphan. Failures are
// swallowed by the implementation, so callers never branch on cleanup.
type blobCleaner interface {
	DeleteBlobBestEffort(ctx context.Context, blobIDs ...string)
}

type service struct {
	repo  Repository
	blobs blobCleaner
}

// NewService wires a catalog service with the provided repository. blobs may
// be nil when no CDN is configured.
func NewService(repo Repository, blobs blobCleaner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, blobs: blobs}, nil
}

func (s *service) cleanupBlob(ctx context.Context, blobID *string) {
	if s.blobs == nil || blobID == nil || *blobID == "" {
		return
	}
	s.blobs.DeleteBlobBestEffort(ctx, *blobID)
}

func (s *service) CreateChannel(ctx context.Context, dto CreateChannelDTO) (*ChannelDTO, error) {
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "channel name is required")
	}
	if !dto.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid channel category %q", dto.Category))
	}

	channel := dto.ToModel()
	if err := s.repo.CreateChannel(ctx, channel); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating channel")
	}
	return ChannelFromModel(channel), nil
}

func (s *service) GetChannel(ctx context.Context, id uuid.UUID) (*ChannelDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "channel id is required")
	}

	channel, err := s.repo.FindChannelByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "channel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading channel")
	}
	return ChannelFromModel(channel), nil
}

func (s *service) ListChannels(ctx context.Context, filter ListFilter, params pagination.Params) ([]ChannelDTO, pagination.Meta, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid channel category %q", filter.Category))
	}
	params = params.Normalize()

	rows, total, err := s.repo.ListChannels(ctx, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing channels")
	}

	dtos := make([]ChannelDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ChannelFromModel(&rows[i]))
	}
	return dtos, pagination.MetaFor(params, total), nil
}

func (s *service) UpdateChannel(ctx context.Context, id uuid.UUID, dto UpdateChannelDTO) (*ChannelDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "channel id is required")
	}
	if dto.Category != nil && !dto.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid channel category %q", *dto.Category))
	}
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "channel name cannot be empty")
	}

	channel, err := s.repo.FindChannelByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "channel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading channel")
	}

	var replacedBlob *string
	if dto.Name != nil {
		channel.Name = *dto.Name
	}
	if dto.Category != nil {
		channel.Category = *dto.Category
	}
	if dto.Description != nil {
		channel.Description = dto.Description
	}
	if dto.LogoURL != nil {
		channel.LogoURL = dto.LogoURL
	}
	if dto.LogoBlobID != nil {
		if channel.LogoBlobID != nil && *channel.LogoBlobID != *dto.LogoBlobID {
			replacedBlob = channel.LogoBlobID
		}
		channel.LogoBlobID = dto.LogoBlobID
	}

	if err := s.repo.SaveChannel(ctx, channel); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating channel")
	}
	s.cleanupBlob(ctx, replacedBlob)
	return ChannelFromModel(channel), nil
}

func (s *service) DeleteChannel(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "channel id is required")
	}

	channel, err := s.repo.FindChannelByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "channel not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading channel")
	}

	rows, err := s.repo.DeleteChannel(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting channel")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "channel not found")
	}
	s.cleanupBlob(ctx, channel.LogoBlobID)
	return nil
}

func (s *service) CreateApp(ctx context.Context, dto CreateAppDTO) (*AppDTO, error) {
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "app name is required")
	}
	if dto.PriceCredits < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative integer")
	}

	app := dto.ToModel()
	if err := s.repo.CreateApp(ctx, app); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating app")
	}
	return AppFromModel(app), nil
}

func (s *service) GetApp(ctx context.Context, id uuid.UUID) (*AppDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "app id is required")
	}

	app, err := s.repo.FindAppByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "app not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading app")
	}
	return AppFromModel(app), nil
}

func (s *service) ListApps(ctx context.Context, filter ListFilter, params pagination.Params) ([]AppDTO, pagination.Meta, error) {
	if err := validatePriceRange(filter); err != nil {
		return nil, pagination.Meta{}, err
	}
	params = params.Normalize()

	rows, total, err := s.repo.ListApps(ctx, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing apps")
	}

	dtos := make([]AppDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *AppFromModel(&rows[i]))
	}
	return dtos, pagination.MetaFor(params, total), nil
}

func (s *service) UpdateApp(ctx context.Context, id uuid.UUID, dto UpdateAppDTO) (*AppDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "app id is required")
	}
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "app name cannot be empty")
	}
	if dto.PriceCredits != nil && *dto.PriceCredits < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative integer")
	}

	app, err := s.repo.FindAppByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "app not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading app")
	}

	var replacedBlob *string
	if dto.Name != nil {
		app.Name = *dto.Name
	}
	if dto.Description != nil {
		app.Description = dto.Description
	}
	if dto.PriceCredits != nil {
		app.PriceCredits = *dto.PriceCredits
	}
	if dto.DownloadURL != nil {
		app.DownloadURL = dto.DownloadURL
	}
	if dto.IconURL != nil {
		app.IconURL = dto.IconURL
	}
	if dto.IconBlobID != nil {
		if app.IconBlobID != nil && *app.IconBlobID != *dto.IconBlobID {
			replacedBlob = app.IconBlobID
		}
		app.IconBlobID = dto.IconBlobID
	}

	if err := s.repo.SaveApp(ctx, app); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating app")
	}
	s.cleanupBlob(ctx, replacedBlob)
	return AppFromModel(app), nil
}

func (s *service) DeleteApp(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "app id is required")
	}

	app, err := s.repo.FindAppByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "app not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading app")
	}

	rows, err := s.repo.DeleteApp(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting app")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "app not found")
	}
	s.cleanupBlob(ctx, app.IconBlobID)
	return nil
}

func (s *service) CreateVideo(ctx context.Context, dto CreateVideoDTO) (*VideoDTO, error) {
	if strings.TrimSpace(dto.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video title is required")
	}
	if dto.PriceCredits < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative integer")
	}

	video := dto.ToModel()
	if err := s.repo.CreateVideo(ctx, video); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating video")
	}
	return VideoFromModel(video), nil
}

func (s *service) GetVideo(ctx context.Context, id uuid.UUID) (*VideoDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video id is required")
	}

	video, err := s.repo.FindVideoByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "video not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading video")
	}
	return VideoFromModel(video), nil
}

func (s *service) ListVideos(ctx context.Context, filter ListFilter, params pagination.Params) ([]VideoDTO, pagination.Meta, error) {
	if err := validatePriceRange(filter); err != nil {
		return nil, pagination.Meta{}, err
	}
	params = params.Normalize()

	rows, total, err := s.repo.ListVideos(ctx, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing videos")
	}

	dtos := make([]VideoDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *VideoFromModel(&rows[i]))
	}
	return dtos, pagination.MetaFor(params, total), nil
}

func (s *service) UpdateVideo(ctx context.Context, id uuid.UUID, dto UpdateVideoDTO) (*VideoDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video id is required")
	}
	if dto.Title != nil && strings.TrimSpace(*dto.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video title cannot be empty")
	}
	if dto.PriceCredits != nil && *dto.PriceCredits < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative integer")
	}

	video, err := s.repo.FindVideoByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "video not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading video")
	}

	var replacedBlob *string
	if dto.Title != nil {
		video.Title = *dto.Title
	}
	if dto.Description != nil {
		video.Description = dto.Description
	}
	if dto.PriceCredits != nil {
		video.PriceCredits = *dto.PriceCredits
	}
	if dto.VideoURL != nil {
		video.VideoURL = dto.VideoURL
	}
	if dto.ThumbURL != nil {
		video.ThumbURL = dto.ThumbURL
	}
	if dto.ThumbBlobID != nil {
		if video.ThumbBlobID != nil && *video.ThumbBlobID != *dto.ThumbBlobID {
			replacedBlob = video.ThumbBlobID
		}
		video.ThumbBlobID = dto.ThumbBlobID
	}

	if err := s.repo.SaveVideo(ctx, video); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating video")
	}
	s.cleanupBlob(ctx, replacedBlob)
	return VideoFromModel(video), nil
}

func (s *service) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "video id is required")
	}

	video, err := s.repo.FindVideoByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "video not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading video")
	}

	rows, err := s.repo.DeleteVideo(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting video")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "video not found")
	}
	s.cleanupBlob(ctx, video.ThumbBlobID)
	return nil
}

func validatePriceRange(filter ListFilter) error {
	if filter.MinPrice != nil && *filter.MinPrice < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min price must be non-negative")
	}
	if filter.MaxPrice != nil && *filter.MaxPrice < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "max price must be non-negative")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return pkgerrors.New(pkgerrors.CodeValidation, "min price cannot exceed max price")
	}
	return nil
}
