package handler

import (
	"errors"
	"net/http"
	"strconv"

	"stockatelier/internal/apierror"
	"stockatelier/internal/filestore"
	"stockatelier/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// idParam parses a positive integer path parameter; writes the 400 itself.
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return 0, false
	}
	return uint(v), true
}

// respondServiceError maps the service taxonomy onto HTTP statuses. Storage
// failures are logged with the request id and reduced to a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New("not found"))
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, filestore.ErrUnsupportedFileType):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.New("invalid credentials"))
	default:
		log.Error().
			Str("request_id", c.GetString("request_id")).
			Str("path", c.FullPath()).
			Err(err).
			Msg("storage failure")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
