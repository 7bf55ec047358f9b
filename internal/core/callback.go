package core

import (
	"github.com/spf13/cast"
)

// MetadataName is one of the item names the provider sends in CallbackMetadata
type MetadataName string

const (
	MetadataAmount             MetadataName = "Amount"
	MetadataMpesaReceiptNumber MetadataName = "MpesaReceiptNumber"
	MetadataTransactionDate    MetadataName = "TransactionDate"
	MetadataPhoneNumber        MetadataName = "PhoneNumber"
	MetadataBalance            MetadataName = "Balance"
)

// ResultCodeSuccess is the provider result code for a completed payment
const ResultCodeSuccess = 0

// MetadataItem is a raw {Name, Value} pair. Value is a JSON string or number.
type MetadataItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value,omitempty"`
}

// CallbackMetadata is the typed view of the provider's metadata list
type CallbackMetadata struct {
	Amount             int
	MpesaReceiptNumber string
	TransactionDate    string
	PhoneNumber        string
}

// ParseMetadata picks the known items out of the list. Missing or unknown
// items leave the zero value in place.
func ParseMetadata(items []MetadataItem) CallbackMetadata {
	var md CallbackMetadata
	for _, item := range items {
		switch MetadataName(item.Name) {
		case MetadataAmount:
			md.Amount = cast.ToInt(cast.ToFloat64(item.Value))
		case MetadataMpesaReceiptNumber:
			md.MpesaReceiptNumber = cast.ToString(item.Value)
		case MetadataTransactionDate:
			md.TransactionDate = cast.ToString(item.Value)
		case MetadataPhoneNumber:
			md.PhoneNumber = cast.ToString(item.Value)
		}
	}
	return md
}

// CallbackOutcome is what the provider told us about a checkout request
type CallbackOutcome struct {
	CheckoutRequestID string
	MerchantRequestID string
	ResultCode        int
	ResultDesc        string
	Metadata          CallbackMetadata
}

// Succeeded reports whether the provider completed the payment
func (o CallbackOutcome) Succeeded() bool {
	return o.ResultCode == ResultCodeSuccess
}

// Status is the session state this outcome leads to
func (o CallbackOutcome) Status() SessionStatus {
	if o.Succeeded() {
		return SessionStatusSuccess
	}
	return SessionStatusFailed
}
