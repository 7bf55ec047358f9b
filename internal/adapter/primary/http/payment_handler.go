package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linknk/satellite-payments/internal/core"
	"github.com/linknk/satellite-payments/internal/port/input"
)

// PaymentHandler is a primary adapter (HTTP handler)
type PaymentHandler struct {
	paymentService input.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService input.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// InitiatePaymentRequest represents the HTTP request to start an STK push
type InitiatePaymentRequest struct {
	PhoneNumber string  `json:"phoneNumber"`
	Amount      float64 `json:"amount"`
}

// InitiatePaymentResponse represents an accepted STK push
type InitiatePaymentResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	CheckoutRequestID string `json:"checkoutRequestID"`
	MerchantRequestID string `json:"merchantRequestID"`
}

// ErrorResponse is the failure body shared by all endpoints
type ErrorResponse struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	ErrorCode string                 `json:"errorCode,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// CallbackRequest is the provider's STK callback envelope
type CallbackRequest struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []core.MetadataItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// Outcome parses the envelope once into the typed callback outcome
func (r *CallbackRequest) Outcome() core.CallbackOutcome {
	cb := r.Body.StkCallback
	outcome := core.CallbackOutcome{
		CheckoutRequestID: cb.CheckoutRequestID,
		MerchantRequestID: cb.MerchantRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}
	if outcome.Succeeded() {
		outcome.Metadata = core.ParseMetadata(cb.CallbackMetadata.Item)
	}
	return outcome
}

// CallbackResponse acknowledges a provider callback
type CallbackResponse struct {
	Success bool `json:"success"`
}

// StatusRequest represents a status query
type StatusRequest struct {
	CheckoutRequestID string `json:"checkoutRequestID" param:"checkoutRequestID"`
}

// StatusResponse represents the current state of a payment session
type StatusResponse struct {
	Success            bool   `json:"success"`
	Status             string `json:"status"`
	Message            string `json:"message,omitempty"`
	MpesaReceiptNumber string `json:"mpesaReceiptNumber,omitempty"`
	Amount             int    `json:"amount,omitempty"`
	PhoneNumber        string `json:"phoneNumber,omitempty"`
	TransactionDate    string `json:"transactionDate,omitempty"`
	ResultDesc         string `json:"resultDesc,omitempty"`
}

// InitiatePayment handles STK push initiation
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	var req InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	c.Logger().Infof("Received STK push request for %q", req.PhoneNumber)

	// Call service (input port)
	response, err := h.paymentService.InitiatePayment(c.Request().Context(), input.InitiatePaymentRequest{
		PhoneNumber: req.PhoneNumber,
		Amount:      req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, InitiatePaymentResponse{
		Success:           true,
		Message:           response.Message,
		CheckoutRequestID: response.CheckoutRequestID,
		MerchantRequestID: response.MerchantRequestID,
	})
}

// HandleCallback receives the provider's asynchronous STK result. The
// provider is always acknowledged once the body is readable.
func (h *PaymentHandler) HandleCallback(c echo.Context) error {
	var req CallbackRequest
	if err := c.Bind(&req); err != nil {
		c.Logger().Errorf("Error processing callback: %v", err)
		return c.JSON(http.StatusInternalServerError, CallbackResponse{Success: false})
	}

	// Internal failures are logged by the service and never reach the provider
	_ = h.paymentService.HandleCallback(c.Request().Context(), req.Outcome())

	return c.JSON(http.StatusOK, CallbackResponse{Success: true})
}

// GetStatus handles status queries, by JSON body or path parameter
func (h *PaymentHandler) GetStatus(c echo.Context) error {
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}

	response, err := h.paymentService.GetStatus(c.Request().Context(), req.CheckoutRequestID)
	if err != nil {
		return writeError(c, err)
	}

	body := StatusResponse{
		Success:            true,
		Status:             string(response.Status),
		MpesaReceiptNumber: response.MpesaReceiptNumber,
		Amount:             response.Amount,
		PhoneNumber:        response.PhoneNumber,
		TransactionDate:    response.TransactionDate,
		ResultDesc:         response.ResultDesc,
	}
	if response.Status == core.SessionStatusNotFound {
		body.Message = "Payment session not found"
	}
	return c.JSON(http.StatusOK, body)
}

// writeError maps the error taxonomy onto HTTP responses
func writeError(c echo.Context, err error) error {
	var rejection *core.ProviderRejectionError
	switch {
	case errors.As(err, &rejection):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message:   rejection.Message,
			ErrorCode: rejection.Code,
			Data:      rejection.Data,
		})
	case errors.Is(err, core.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	default:
		c.Logger().Errorf("Request failed: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: err.Error()})
	}
}
