package services

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/internal/storage"
	"flowershop_backend/models"
	"flowershop_backend/repositories"
	"flowershop_backend/utils"

	"github.com/rs/zerolog"
)

type Upload struct {
	OriginalName string
	MimeType     string
	Content      io.Reader
}

type FileService struct {
	files *repositories.FileRepository
	disk  *storage.Disk
	log   zerolog.Logger
}

func NewFileService(files *repositories.FileRepository, disk *storage.Disk, log zerolog.Logger) *FileService {
	return &FileService{files: files, disk: disk, log: log}
}

// Store writes the upload to disk and records it.
func (s *FileService) Store(ctx context.Context, up Upload) (*models.File, error) {
	mime, ok := utils.ImageMimeType(up.OriginalName)
	if !ok {
		return nil, apperr.BadRequest("Validation failed (expected type is .(png|jpeg|jpg))")
	}
	// Clients often send application/octet-stream for every part.
	if !strings.HasPrefix(up.MimeType, "image/") {
		up.MimeType = mime
	}

	path, err := s.disk.Save(utils.StoredFileName(up.OriginalName), up.Content)
	if err != nil {
		return nil, err
	}

	file := &models.File{OriginalName: up.OriginalName, Path: path, MimeType: up.MimeType}
	if err := s.files.Create(ctx, file); err != nil {
		s.removeObject(path)
		return nil, err
	}
	return file, nil
}

func (s *FileService) FindOne(ctx context.Context, id uint) (*models.File, error) {
	file, err := s.files.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Nonexistent file"))
	}
	return file, nil
}

// Open returns the record and the stored object for path. Objects on disk
// without a record are not served.
func (s *FileService) Open(ctx context.Context, path string) (*models.File, *os.File, error) {
	file, err := s.files.FindByPath(ctx, path)
	if err != nil {
		return nil, nil, missing(err, apperr.NotFound("Nonexistent file"))
	}
	f, err := s.disk.Open(file.Path)
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, storage.ErrInvalidPath) {
		return nil, nil, apperr.NotFound("Nonexistent file")
	}
	if err != nil {
		return nil, nil, err
	}
	return file, f, nil
}

// Remove deletes the record, then the object on disk. A failed disk delete is
// only logged.
func (s *FileService) Remove(ctx context.Context, id uint) error {
	file, err := s.files.FindByID(ctx, id)
	if err != nil {
		return missing(err, apperr.BadRequest("Nonexistent file to delete"))
	}
	if _, err := s.files.Delete(ctx, id); err != nil {
		return err
	}
	s.removeObject(file.Path)
	return nil
}

func (s *FileService) removeObject(path string) {
	if err := s.disk.Remove(path); err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("failed to delete stored file")
	}
}
