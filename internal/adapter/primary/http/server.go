package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

var corsConfig = middleware.CORSConfig{
	AllowOrigins: []string{"*"},
	AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
}

// NewServer builds the Echo instance with middleware and routes
func NewServer(paymentHandler *PaymentHandler, logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger = logger

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(corsConfig))

	RegisterRoutes(e, paymentHandler)
	return e
}

// RegisterRoutes mounts the payment endpoints
func RegisterRoutes(e *echo.Echo, paymentHandler *PaymentHandler) {
	functions := e.Group("/functions/v1")
	functions.POST("/mpesa-stk-push", paymentHandler.InitiatePayment)
	functions.POST("/mpesa-callback", paymentHandler.HandleCallback)
	functions.POST("/payment-status", paymentHandler.GetStatus)

	api := e.Group("/api/v1")
	api.GET("/payments/:checkoutRequestID", paymentHandler.GetStatus)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
