package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/glowpoint/salon-api/internal/httperr"
	"github.com/glowpoint/salon-api/internal/httpresp"
	"github.com/glowpoint/salon-api/internal/photo"
)

// 20 MB cap on uploaded originals. HEIC shots from modern phones are
// well under this.
const maxPhotoBytes = 20 << 20

type PhotoHandler struct {
	storage         photo.Storage
	photoDir        string
	servicePhotoDir string
}

func NewPhotoHandler(storage photo.Storage, photoDir, servicePhotoDir string) *PhotoHandler {
	return &PhotoHandler{
		storage:         storage,
		photoDir:        photoDir,
		servicePhotoDir: servicePhotoDir,
	}
}

// ======================================================
// POST /api/upload-photo
// ======================================================

func (h *PhotoHandler) UploadSpecialistPhoto(c *gin.Context) {
	h.upload(c, h.photoDir)
}

// ======================================================
// POST /api/upload-service-photo
// ======================================================

func (h *PhotoHandler) UploadServicePhoto(c *gin.Context) {
	h.upload(c, h.servicePhotoDir)
}

func (h *PhotoHandler) upload(c *gin.Context, dir string) {
	file, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "Файл не загружен")
		return
	}
	if file.Size > maxPhotoBytes {
		httperr.BadRequest(c, "Файл слишком большой")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxPhotoBytes+1))
	if err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	if len(data) > maxPhotoBytes {
		httperr.BadRequest(c, "Файл слишком большой")
		return
	}

	processed, err := photo.Process(data)
	if err != nil {
		if httperr.IsBusiness(err, "unsupported_image") {
			httperr.BadRequest(c, "Неподдерживаемый формат изображения")
			return
		}
		httperr.Internal(c, err.Error())
		return
	}

	path, err := h.storage.Save(c.Request.Context(), dir, processed)
	if err != nil {
		httperr.Internal(c, err.Error())
		return
	}

	httpresp.OK(c, gin.H{"path": path})
}
