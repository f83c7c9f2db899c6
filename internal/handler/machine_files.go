package handler

import (
	"net/http"
	"time"

	"stockatelier/internal/apierror"
	"stockatelier/internal/dto"
	"stockatelier/internal/service"

	"github.com/gin-gonic/gin"
)

type MachineFilesHandler struct{ svc service.MachineService }

func NewMachineFilesHandler(svc service.MachineService) *MachineFilesHandler {
	return &MachineFilesHandler{svc: svc}
}

func (h *MachineFilesHandler) List(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	files, err := h.svc.ListFiles(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]dto.MachineFileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, dto.MachineFileResponse{
			ID:         f.ID,
			Filename:   f.Filename,
			StoredPath: f.StoredPath,
			FileType:   f.FileType,
			UploadedAt: f.UploadedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

// Upload accepts a multipart form with a required "file" part.
func (h *MachineFilesHandler) Upload(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("no file provided"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid upload: "+err.Error()))
		return
	}
	defer f.Close()

	rec, err := h.svc.AttachDocument(c.Request.Context(), id, fh.Filename, f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FileUploadResponse{ID: rec.ID, StoredPath: rec.StoredPath})
}

func (h *MachineFilesHandler) Delete(c *gin.Context) {
	fileID, ok := idParam(c, "fileId")
	if !ok {
		return
	}
	if err := h.svc.DetachDocument(c.Request.Context(), fileID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
