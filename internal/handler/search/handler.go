package search

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WahidMubarrat/EmerCare/internal/handler"
	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/service/search"
)

type Handler struct {
	service search.SearchService
}

func NewHandler(service search.SearchService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	searches := r.Group("/search")
	{
		searches.GET("/donors", h.Donors)
		searches.GET("/hospitals", h.Hospitals)
		searches.GET("/ambulances", h.Ambulances)
	}
}

func (h *Handler) Donors(c *gin.Context) {
	var q model.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.BindError(c, err)
		return
	}

	donors, err := h.service.Donors(c.Request.Context(), &q)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"count":  len(donors),
		"donors": donors,
	}))
}

func (h *Handler) Hospitals(c *gin.Context) {
	var q model.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.BindError(c, err)
		return
	}

	hospitals, err := h.service.Hospitals(c.Request.Context(), &q)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"count":     len(hospitals),
		"hospitals": hospitals,
	}))
}

func (h *Handler) Ambulances(c *gin.Context) {
	var q model.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.BindError(c, err)
		return
	}

	ambulances, err := h.service.Ambulances(c.Request.Context(), &q)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"count":      len(ambulances),
		"ambulances": ambulances,
	}))
}
