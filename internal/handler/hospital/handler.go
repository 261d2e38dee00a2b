package hospital

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WahidMubarrat/EmerCare/internal/handler"
	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/service/hospital"
	"github.com/WahidMubarrat/EmerCare/internal/service/hospitalservice"
)

type Handler struct {
	service  hospital.HospitalService
	profiles hospitalservice.ProfileService
}

func NewHandler(service hospital.HospitalService, profiles hospitalservice.ProfileService) *Handler {
	return &Handler{service: service, profiles: profiles}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hospitals := r.Group("/hospitals")
	{
		hospitals.POST("", h.Register)
		hospitals.POST("/login", h.Login)
		hospitals.GET("/:id", h.Get)
		hospitals.PUT("/:id", h.UpdateProfile)
		hospitals.PUT("/:id/password", h.ChangePassword)

		hospitals.GET("/:id/profile", h.GetServiceProfile)

		hospitals.POST("/:id/profile/doctors", h.AddDoctor)
		hospitals.PUT("/:id/profile/doctors/:doctorId", h.UpdateDoctor)
		hospitals.DELETE("/:id/profile/doctors/:doctorId", h.RemoveDoctor)

		hospitals.POST("/:id/profile/services", h.AddService)
		hospitals.PUT("/:id/profile/services/:serviceId", h.UpdateService)
		hospitals.DELETE("/:id/profile/services/:serviceId", h.RemoveService)

		hospitals.PUT("/:id/profile/beds", h.ReplaceBeds)
		hospitals.PUT("/:id/profile/blood-bank", h.ReplaceBloodBank)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterHospitalRequest
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

	hospital, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(&model.LoginResult{
		UserType: "hospital",
		Profile:  hospital,
	}))
}

func (h *Handler) Get(c *gin.Context) {
	hospital, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospital))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateHospitalRequest
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

func (h *Handler) GetServiceProfile(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}

func (h *Handler) AddDoctor(c *gin.Context) {
	var req model.AddDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	doctor, err := h.profiles.AddDoctor(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(doctor))
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	doctor, err := h.profiles.UpdateDoctor(c.Request.Context(), c.Param("id"), c.Param("doctorId"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctor))
}

func (h *Handler) RemoveDoctor(c *gin.Context) {
	if err := h.profiles.RemoveDoctor(c.Request.Context(), c.Param("id"), c.Param("doctorId")); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "doctor removed"}))
}

func (h *Handler) AddService(c *gin.Context) {
	var req model.AddServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	entry, err := h.profiles.AddService(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(entry))
}

func (h *Handler) UpdateService(c *gin.Context) {
	var req model.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	entry, err := h.profiles.UpdateService(c.Request.Context(), c.Param("id"), c.Param("serviceId"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(entry))
}

func (h *Handler) RemoveService(c *gin.Context) {
	if err := h.profiles.RemoveService(c.Request.Context(), c.Param("id"), c.Param("serviceId")); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "service removed"}))
}

func (h *Handler) ReplaceBeds(c *gin.Context) {
	var req model.ReplaceBedsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	profile, err := h.profiles.ReplaceBeds(c.Request.Context(), c.Param("id"), req.Beds)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}

func (h *Handler) ReplaceBloodBank(c *gin.Context) {
	var req model.ReplaceBloodBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	profile, err := h.profiles.ReplaceBloodBank(c.Request.Context(), c.Param("id"), req.BloodBank)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}
