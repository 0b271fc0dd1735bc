package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/lifelog/internal/blob"
	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/logging"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/records"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"github.com/google/uuid"
)

const photoKeyPrefix = "photos/"

// maxExtLen bounds the file extension kept from the uploaded file name.
const maxExtLen = 10

var photoOrder = store.Desc("dateUploaded")

// PhotoFile is the binary part of an upload.
type PhotoFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// PhotoService stores photo metadata in the store and the image itself in
// a blob store, under a freshly generated key per upload.
type PhotoService struct {
	repo      *records.Repository[*models.Photo]
	blobs     blob.Store
	urlPrefix string
	log       logging.Logger
	now       Clock
	newKey    func(ext string) string
}

func NewPhotoService(m repomanager.RepositoryManager, blobs blob.Store, urlPrefix string, log logging.Logger) *PhotoService {
	if urlPrefix == "" {
		urlPrefix = common.DefaultUploadURLPrefix
	}
	return &PhotoService{
		repo:      m.Photos(),
		blobs:     blobs,
		urlPrefix: urlPrefix,
		log:       log.With("module", "photos"),
		now:       time.Now,
		newKey:    func(ext string) string { return photoKeyPrefix + uuid.NewString() + ext },
	}
}

// extension returns the lowercased extension of name if it is short and
// alphanumeric, and "" otherwise.
func extension(name string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(name, `\`, "/"))))
	if len(ext) < 2 || len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// Upload writes the file under a new key and records its metadata. If the
// metadata cannot be stored the blob is removed again.
func (s *PhotoService) Upload(ctx context.Context, owner string, file PhotoFile, meta *models.Photo) (*models.Photo, error) {
	if len(file.Content) == 0 {
		return nil, fmt.Errorf("%w: file is empty", common.ErrorValidation)
	}
	if meta == nil {
		meta = &models.Photo{}
	}
	if err := validate(meta); err != nil {
		return nil, err
	}

	key := s.newKey(extension(file.Filename))
	info, err := s.blobs.Put(ctx, key, bytes.NewReader(file.Content), blob.PutOptions{ContentType: file.ContentType})
	if err != nil {
		return nil, fmt.Errorf("store photo file: %w", err)
	}

	meta.StorageKey = key
	meta.ImageURL = s.urlPrefix + key
	meta.ContentType = info.ContentType
	if meta.ContentType == "" {
		meta.ContentType = file.ContentType
	}
	meta.DateUploaded = models.NewTimestamp(s.now())
	meta.Tags = meta.Tags.Normalized()

	photo, err := create(ctx, s.repo, owner, meta)
	if err != nil {
		if _, delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.Warn(ctx, "orphaned photo file", "key", key, "error", delErr)
		}
		return nil, err
	}
	return photo, nil
}

// Delete removes the metadata and then the file. The file is released
// even when removing the metadata failed after authorization, and a file
// that is already gone is not an error.
func (s *PhotoService) Delete(ctx context.Context, owner, id string) error {
	photo, err := authorized(ctx, s.repo, owner, id)
	if err != nil {
		return err
	}
	metaErr := s.repo.Delete(ctx, photo)
	if errors.Is(metaErr, common.ErrorNotFound) {
		metaErr = nil
	}

	var blobErr error
	if photo.StorageKey != "" {
		if _, err := s.blobs.Delete(ctx, photo.StorageKey); err != nil {
			s.log.Warn(ctx, "photo file not released", "key", photo.StorageKey, "error", err)
			blobErr = fmt.Errorf("release photo file: %w", err)
		}
	}
	return errors.Join(metaErr, blobErr)
}

func (s *PhotoService) Get(ctx context.Context, owner, id string) (*models.Photo, error) {
	return get(ctx, s.repo, owner, id)
}

// Content returns the photo and its file bytes.
func (s *PhotoService) Content(ctx context.Context, owner, id string) (*models.Photo, []byte, error) {
	photo, err := get(ctx, s.repo, owner, id)
	if err != nil {
		return nil, nil, err
	}
	_, rc, err := s.blobs.Get(ctx, photo.StorageKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: photo file is missing", common.ErrorNotFound)
		}
		return nil, nil, fmt.Errorf("read photo file: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("read photo file: %w", err)
	}
	return photo, data, nil
}

func (s *PhotoService) List(ctx context.Context, owner string) ([]*models.Photo, error) {
	return s.repo.Find(ctx, owner, nil, photoOrder)
}

func (s *PhotoService) ByMood(ctx context.Context, owner string, mood models.Mood) ([]*models.Photo, error) {
	if err := checkMood(mood); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, owner, byMood(mood), photoOrder)
}

func (s *PhotoService) ByTag(ctx context.Context, owner, tag string) ([]*models.Photo, error) {
	return s.repo.Find(ctx, owner, byTag(tag), photoOrder)
}

func (s *PhotoService) ByLifePhase(ctx context.Context, owner, name string) ([]*models.Photo, error) {
	return s.repo.Find(ctx, owner, byLifePhase(name), photoOrder)
}
