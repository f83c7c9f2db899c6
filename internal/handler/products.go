package handler

import (
	"net/http"

	"stockatelier/internal/apierror"
	"stockatelier/internal/dto"
	"stockatelier/internal/middleware"
	"stockatelier/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	items, err := h.svc.List(c.Request.Context(), filter.Category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.StockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return
	}
	item, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.StockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return
	}
	item, err := h.svc.Update(c.Request.Context(), id, req, middleware.Caps(c).CanEditPrices)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ProductsHandler) PatchQuantity(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.QuantityPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return
	}
	item, err := h.svc.UpdateQuantity(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{Message: "deleted", ID: id})
}
