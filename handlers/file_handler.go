package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/models"
	"flowershop_backend/services"
	"flowershop_backend/utils"

	"github.com/gofiber/fiber/v2"
)

// FileHandler handles image uploads and serves stored images.
type FileHandler struct {
	files    *services.FileService
	maxBytes int64
}

func NewFileHandler(files *services.FileService, maxBytes int64) *FileHandler {
	return &FileHandler{files: files, maxBytes: maxBytes}
}

// UploadFile - POST /files
func (h *FileHandler) UploadFile(c *fiber.Ctx) error {
	up, closer, err := formImage(c, "file", h.maxBytes)
	if err != nil {
		return err
	}
	if up == nil {
		return apperr.BadRequest("File is required")
	}
	defer closer.Close()

	file, err := h.files.Store(c.UserContext(), *up)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("File uploaded", file, nil))
}

// GetFile - GET /files/:path
func (h *FileHandler) GetFile(c *fiber.Ctx) error {
	file, f, err := h.files.Open(c.UserContext(), c.Params("path"))
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	c.Set(fiber.HeaderContentType, file.MimeType)
	// The response body closes f once it has been written.
	return c.SendStream(f, int(info.Size()))
}

// DeleteFile - DELETE /files/:id
func (h *FileHandler) DeleteFile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.files.Remove(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("File deleted", nil, nil))
}

// formImage reads an optional image from a multipart field. It returns nil
// when the request is not multipart or the field is absent.
func formImage(c *fiber.Ctx, field string, maxBytes int64) (*services.Upload, io.Closer, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil, nil
	}
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, nil
	}
	if err := checkImage(fh, maxBytes); err != nil {
		return nil, nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &services.Upload{
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get(fiber.HeaderContentType),
		Content:      f,
	}, f, nil
}

func checkImage(fh *multipart.FileHeader, maxBytes int64) error {
	if maxBytes > 0 && fh.Size > maxBytes {
		return apperr.BadRequest(fmt.Sprintf("Validation failed (expected size is less than %d)", maxBytes))
	}
	if _, ok := utils.ImageMimeType(fh.Filename); !ok {
		return apperr.BadRequest("Validation failed (expected type is .(png|jpeg|jpg))")
	}
	return nil
}
