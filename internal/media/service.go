package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/upcoming-content-backend/internal/pkg/storage"
)

const (
	thumbnailWidth  = 320
	thumbnailHeight = 480
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// UploadInput is a single poster upload.
type UploadInput struct {
	Filename string
	Content  io.Reader
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Media, error)
	Get(ctx context.Context, id string) (*Media, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Media, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Media, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	storage  storage.Storage
	imgProc  *storage.ImageProcessor
	maxBytes int64
	logger   zerolog.Logger
}

func NewService(repo Repository, store storage.Storage, maxBytes int64, logger zerolog.Logger) Service {
	return &service{
		repo:     repo,
		storage:  store,
		imgProc:  storage.NewImageProcessor(thumbnailWidth, thumbnailHeight),
		maxBytes: maxBytes,
		logger:   logger.With().Str("component", "media").Logger(),
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Media, error) {
	// One byte past the cap marks an oversize upload.
	data, err := io.ReadAll(io.LimitReader(in.Content, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	mt := mimetype.Detect(data)
	if !allowedTypes[mt.String()] {
		return nil, ErrUnsupportedType
	}

	id := uuid.New().String()
	shard := id[:2]
	storagePath := fmt.Sprintf("media/%s/%s%s", shard, id, mt.Extension())

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to save media: %w", err)
	}

	var thumbnailPath *string
	thumb, err := s.imgProc.GenerateThumbnail(bytes.NewReader(data))
	if err != nil {
		s.logger.Warn().Err(err).Str("media_id", id).Msg("thumbnail generation failed")
	} else {
		tPath := fmt.Sprintf("media/%s/%s_thumb.jpg", shard, id)
		if err := s.storage.Save(ctx, tPath, thumb); err != nil {
			s.logger.Warn().Err(err).Str("media_id", id).Msg("thumbnail save failed")
		} else {
			thumbnailPath = &tPath
		}
	}

	m := &Media{
		ID:            id,
		Filename:      filepath.Base(in.Filename),
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   mt.String(),
		Size:          int64(len(data)),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	return m, nil
}

func (s *service) Get(ctx context.Context, id string) (*Media, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Media, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, m.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve media from storage: %w", err)
	}
	return stream, m, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Media, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if m.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.storage.Get(ctx, *m.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve thumbnail from storage: %w", err)
	}
	return stream, m, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Blob removal is best-effort once the row is gone.
	if err := s.storage.Delete(ctx, m.StoragePath); err != nil {
		s.logger.Warn().Err(err).Str("media_id", id).Msg("failed to remove media blob")
	}
	if m.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, *m.ThumbnailPath); err != nil {
			s.logger.Warn().Err(err).Str("media_id", id).Msg("failed to remove thumbnail blob")
		}
	}
	return nil
}
