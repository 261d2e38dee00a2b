package ambulance

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WahidMubarrat/EmerCare/internal/handler"
	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/service/ambulance"
)

type Handler struct {
	service ambulance.AmbulanceService
}

func NewHandler(service ambulance.AmbulanceService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	ambulances := r.Group("/ambulances")
	{
		ambulances.POST("", h.RegisterOwner)
		ambulances.POST("/login", h.Login)
		ambulances.GET("/:id", h.GetOwner)
		ambulances.PUT("/:id", h.UpdateOwner)
		ambulances.PUT("/:id/password", h.ChangePassword)
		ambulances.GET("/:id/vehicles", h.ListVehicles)
	}

	vehicles := r.Group("/vehicles")
	{
		vehicles.POST("", h.AddVehicle)
		vehicles.GET("/:id", h.GetVehicle)
		vehicles.PUT("/:id", h.UpdateVehicle)
		vehicles.PUT("/:id/availability", h.SetVehicleAvailability)
		vehicles.DELETE("/:id", h.RemoveVehicle)
	}
}

func (h *Handler) RegisterOwner(c *gin.Context) {
	var req model.RegisterAmbulanceOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	created, err := h.service.RegisterOwner(c.Request.Context(), &req)
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

	owner, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(&model.LoginResult{
		UserType: "ambulance",
		Profile:  owner,
	}))
}

func (h *Handler) GetOwner(c *gin.Context) {
	owner, err := h.service.GetOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(owner))
}

func (h *Handler) UpdateOwner(c *gin.Context) {
	var req model.UpdateAmbulanceOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	updated, err := h.service.UpdateOwner(c.Request.Context(), c.Param("id"), &req)
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

func (h *Handler) AddVehicle(c *gin.Context) {
	var req model.AddVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	vehicle, err := h.service.AddVehicle(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(vehicle))
}

func (h *Handler) GetVehicle(c *gin.Context) {
	vehicle, err := h.service.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(vehicle))
}

func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.service.ListVehicles(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(vehicles))
}

func (h *Handler) UpdateVehicle(c *gin.Context) {
	var req model.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	vehicle, err := h.service.UpdateVehicle(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(vehicle))
}

func (h *Handler) SetVehicleAvailability(c *gin.Context) {
	var req model.ToggleVehicleAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	vehicle, err := h.service.SetVehicleAvailability(c.Request.Context(), c.Param("id"), *req.IsAvailable)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(vehicle))
}

func (h *Handler) RemoveVehicle(c *gin.Context) {
	if err := h.service.RemoveVehicle(c.Request.Context(), c.Param("id")); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "vehicle removed"}))
}
