package output

import (
	"context"
)

// TransactionTypePayBill is the STK push type for PayBill shortcodes
const TransactionTypePayBill = "CustomerPayBillOnline"

// ResponseCodeAccepted is the provider's code for an accepted push request
const ResponseCodeAccepted = "0"

// STKPushRequest is the provider's push-payment payload
type STKPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int    `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPushResponse is the provider's reply. Accepted pushes carry ResponseCode,
// rejected ones usually carry errorCode and errorMessage instead.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	RequestID           string `json:"requestId"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`

	// Raw is the decoded body as sent, for error reporting
	Raw map[string]interface{} `json:"-"`
}

// Accepted reports whether the provider accepted the push
func (r *STKPushResponse) Accepted() bool {
	return r.ResponseCode == ResponseCodeAccepted
}

// PaymentGateway is an output port for the mobile-money provider
type PaymentGateway interface {
	// AccessToken obtains a bearer token with the consumer key and secret
	AccessToken(ctx context.Context, consumerKey, consumerSecret string) (string, error)

	// STKPush submits a push-payment request
	STKPush(ctx context.Context, token string, req STKPushRequest) (*STKPushResponse, error)
}
