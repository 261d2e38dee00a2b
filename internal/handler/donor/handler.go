package donor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WahidMubarrat/EmerCare/internal/handler"
	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/service/donor"
)

type Handler struct {
	service donor.DonorService
}

func NewHandler(service donor.DonorService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	donors := r.Group("/donors")
	{
		donors.POST("", h.Register)
		donors.POST("/login", h.Login)
		donors.GET("/:id", h.Get)
		donors.PUT("/:id", h.UpdateProfile)
		donors.PUT("/:id/password", h.ChangePassword)
		donors.PUT("/:id/availability", h.SetAvailability)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	created, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	donor, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(&model.LoginResult{
		UserType: "donor",
		Profile:  donor,
	}))
}

func (h *Handler) Get(c *gin.Context) {
	donor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(donor))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), c.Param("id"), &req); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "password updated"}))
}

func (h *Handler) SetAvailability(c *gin.Context) {
	var req model.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	updated, err := h.service.SetAvailability(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}
