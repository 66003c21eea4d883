package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glowmart/beauty-shop-api/internal/config"
	"github.com/glowmart/beauty-shop-api/internal/dto"
	"github.com/glowmart/beauty-shop-api/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
	api            config.APIConfig
}

func NewProductHandler(productService *service.ProductService, api config.APIConfig) *ProductHandler {
	return &ProductHandler{productService: productService, api: api}
}

func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}
	h.api.NormalizePaging(&req.Page, &req.Limit)

	products, total, err := h.productService.List(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			fail(c, http.StatusBadRequest, "unknown category")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.ToProductResponse(&products[i]))
	}

	c.JSON(http.StatusOK, dto.ProductListResponse{
		Envelope:   dto.Envelope{Success: true},
		Products:   items,
		Pagination: paginate(req.Page, req.Limit, total),
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetByRef(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": dto.ToProductResponse(product)})
}

func (h *ProductHandler) Featured(c *gin.Context) {
	products, err := h.productService.Featured(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.ToProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": items})
}

func (h *ProductHandler) Categories(c *gin.Context) {
	counts, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]dto.CategoryCountResponse, 0, len(counts))
	for _, cc := range counts {
		items = append(items, dto.CategoryCountResponse{Category: cc.Category, Count: cc.Count})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": items})
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			fail(c, http.StatusBadRequest, "unknown category")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "product created", "product": dto.ToProductResponse(product)})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			fail(c, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrInvalidCategory):
			fail(c, http.StatusBadRequest, "unknown category")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "product updated", "product": dto.ToProductResponse(product)})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	err := h.productService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "product deleted"})
}
