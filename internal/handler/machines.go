package handler

import (
	"mime/multipart"
	"net/http"

	"stockatelier/internal/apierror"
	"stockatelier/internal/dto"
	"stockatelier/internal/middleware"
	"stockatelier/internal/service"

	"github.com/gin-gonic/gin"
)

type MachinesHandler struct{ svc service.MachineService }

func NewMachinesHandler(svc service.MachineService) *MachinesHandler {
	return &MachinesHandler{svc: svc}
}

func (h *MachinesHandler) List(c *gin.Context) {
	machines, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, machines)
}

func (h *MachinesHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Create accepts a multipart form: machine fields plus an optional "glb_file"
// part carrying the 3D preview asset.
func (h *MachinesHandler) Create(c *gin.Context) {
	var form dto.MachineForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid form: "+err.Error()))
		return
	}

	name, src, cleanup, ok := openUpload(c, "glb_file")
	if !ok {
		return
	}
	defer cleanup()

	m, err := h.svc.Create(c.Request.Context(), form, name, src)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MachinesHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var form dto.MachineForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid form: "+err.Error()))
		return
	}

	name, src, cleanup, uploadOK := openUpload(c, "glb_file")
	if !uploadOK {
		return
	}
	defer cleanup()

	m, err := h.svc.Update(c.Request.Context(), id, form, middleware.Caps(c).CanEditPrices, name, src)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MachinesHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// openUpload fetches an optional file part. On success the reader may be nil
// (no file sent); cleanup is always safe to defer. A false third-ish return
// means the response has already been written.
func openUpload(c *gin.Context, field string) (name string, src multipart.File, cleanup func(), ok bool) {
	cleanup = func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return "", nil, cleanup, true
		}
		c.JSON(http.StatusBadRequest, apierror.New("invalid upload: "+err.Error()))
		return "", nil, cleanup, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid upload: "+err.Error()))
		return "", nil, cleanup, false
	}
	return fh.Filename, f, func() { f.Close() }, true
}
