package api

import (
	"net/http"

	"github.com/dkrylov/railbooking/internal/service/trains"
	"github.com/gin-gonic/gin"
)

type TrainHandler struct {
	service trains.TrainUseCase
}

type createTrainRequest struct {
	TrainNumber      string `json:"train_number" binding:"required"`
	TrainName        string `json:"train_name" binding:"required"`
	DepartureDate    string `json:"departure_date" binding:"required"`
	StartDestination string `json:"start_destination" binding:"required"`
	EndDestination   string `json:"end_destination" binding:"required"`
}

func NewTrainHandler(service trains.TrainUseCase) *TrainHandler {
	return &TrainHandler{service: service}
}

func (h *TrainHandler) Register(router *gin.RouterGroup) {
	router.POST("/trains", h.create)
	router.GET("/trains", h.list)
	router.GET("/trains/:number", h.get)
	router.DELETE("/trains/:number", h.delete)
}

func (h *TrainHandler) create(c *gin.Context) {
	var req createTrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	train, err := h.service.Add(c.Request.Context(), trains.AddTrainInput{
		Number:           req.TrainNumber,
		Name:             req.TrainName,
		DepartureDate:    req.DepartureDate,
		StartDestination: req.StartDestination,
		EndDestination:   req.EndDestination,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, train)
}

func (h *TrainHandler) list(c *gin.Context) {
	trains, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trains)
}

func (h *TrainHandler) get(c *gin.Context) {
	train, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, train)
}

func (h *TrainHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("number")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("number")})
}
