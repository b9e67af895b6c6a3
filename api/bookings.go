package api

import (
	"net/http"
	"strconv"

	"github.com/dkrylov/railbooking/internal/domain"
	"github.com/dkrylov/railbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookTicketRequest struct {
	PassengerName   string `json:"passenger_name" binding:"required"`
	PassengerAge    int    `json:"passenger_age" binding:"required,min=1"`
	PassengerGender string `json:"passenger_gender" binding:"required,oneof=Male Female"`
	SeatType        string `json:"seat_type" binding:"required,oneof=Window Aisle Middle"`
}

type ticketResponse struct {
	TrainNumber     string `json:"train_number"`
	SeatNumber      int    `json:"seat_number"`
	SeatType        string `json:"seat_type"`
	PassengerName   string `json:"passenger_name"`
	PassengerAge    int    `json:"passenger_age"`
	PassengerGender string `json:"passenger_gender"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/trains/:number/seats", h.seats)
	router.GET("/trains/:number/seats/next", h.next)
	router.POST("/trains/:number/tickets", h.book)
	router.DELETE("/trains/:number/tickets/:seat", h.cancel)
}

func (h *BookingHandler) seats(c *gin.Context) {
	seats, err := h.service.ViewSeats(c.Request.Context(), c.Param("number"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, seats)
}

func (h *BookingHandler) next(c *gin.Context) {
	seatType := domain.SeatType(c.Query("seat_type"))
	seatNumber, err := h.service.NextAvailable(c.Request.Context(), c.Param("number"), seatType)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"seat_number": seatNumber, "seat_type": seatType})
}

func (h *BookingHandler) book(c *gin.Context) {
	var req bookTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trainNumber := c.Param("number")
	seat, err := h.service.Book(c.Request.Context(), booking.BookTicketInput{
		TrainNumber:     trainNumber,
		PassengerName:   req.PassengerName,
		PassengerAge:    req.PassengerAge,
		PassengerGender: req.PassengerGender,
		SeatType:        domain.SeatType(req.SeatType),
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, ticketResponse{
		TrainNumber:     trainNumber,
		SeatNumber:      seat.SeatNumber,
		SeatType:        string(seat.SeatType),
		PassengerName:   seat.PassengerName,
		PassengerAge:    seat.PassengerAge,
		PassengerGender: seat.PassengerGender,
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	seatNumber, err := strconv.Atoi(c.Param("seat"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seat number"})
		return
	}

	trainNumber := c.Param("number")
	if err := h.service.Cancel(c.Request.Context(), trainNumber, seatNumber); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"train_number": trainNumber, "seat_number": seatNumber, "cancelled": true})
}
