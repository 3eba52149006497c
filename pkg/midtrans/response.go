package midtrans

// Transaction status values returned by the status endpoint.
const (
	StatusPending    = "pending"
	StatusSettlement = "settlement"
	StatusCapture    = "capture"
	StatusExpire     = "expire"
	StatusCancel     = "cancel"
	StatusDeny       = "deny"
)

// ChargeResponse is returned by Snap transaction creation.
type ChargeResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// StatusResponse is returned by the transaction status endpoint.
type StatusResponse struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	GrossAmount       string `json:"gross_amount,omitempty"`
	TransactionTime   string `json:"transaction_time,omitempty"`
}

// Settled reports whether the status means the buyer has paid.
func (s *StatusResponse) Settled() bool {
	if s.TransactionStatus == StatusSettlement {
		return true
	}
	// Card payments report capture with an accepted fraud check.
	return s.TransactionStatus == StatusCapture && (s.FraudStatus == "" || s.FraudStatus == "accept")
}

// ErrorResponse is the Midtrans error envelope.
type ErrorResponse struct {
	ErrorMessages []string `json:"error_messages"`
}
