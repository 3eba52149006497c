package midtrans

// ChargeRequest is the Snap transaction creation payload.
type ChargeRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    *CustomerDetails   `json:"customer_details,omitempty"`
	ItemDetails        []ItemDetail       `json:"item_details,omitempty"`
	Expiry             *Expiry            `json:"expiry,omitempty"`
}

// TransactionDetails identifies the order and the gross amount in rupiah.
type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int    `json:"gross_amount"`
}

// CustomerDetails identifies the buyer.
type CustomerDetails struct {
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// ItemDetail is one line item on the payment page.
type ItemDetail struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// Expiry bounds how long the payment page stays payable.
type Expiry struct {
	Unit     string `json:"unit"`
	Duration int    `json:"duration"`
}
