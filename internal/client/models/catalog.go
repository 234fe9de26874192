package models

import "time"

type Product struct {
	ID          string    `json:"_id,omitempty"`
	Name        string    `json:"name"`
	Status      string    `json:"status,omitempty"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Images      string    `json:"images,omitempty"`
	CreatedDate time.Time `json:"createdDate,omitzero"`
}

type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

type Ticket struct {
	ID          string       `json:"_id,omitempty"`
	TicketID    string       `json:"ticketId,omitempty"`
	Subject     string       `json:"subject,omitempty"`
	Description string       `json:"description,omitempty"`
	Status      TicketStatus `json:"status"`
	Priority    string       `json:"priority"`
	Name        string       `json:"name,omitempty"`
	Email       string       `json:"email,omitempty"`
	Role        string       `json:"role,omitempty"`
	CreatedAt   time.Time    `json:"createdAt,omitzero"`
	UpdatedAt   time.Time    `json:"updatedAt,omitzero"`
}

// ProductRef is the product summary embedded in sales and promotions.
type ProductRef struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// UserRef is the user summary embedded in sales.
type UserRef struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

// Sale is a completed ambassador payment.
type Sale struct {
	ID             string     `json:"_id"`
	User           UserRef    `json:"userId"`
	Product        ProductRef `json:"productId"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	TransactionRef string     `json:"transactionRef"`
	PaymentGateway string     `json:"paymentGateway,omitempty"`
	CreatedAt      time.Time  `json:"createdAt,omitzero"`
	PaidAt         time.Time  `json:"paidAt,omitzero"`
}

type PromotionStatus string

const (
	PromotionPending  PromotionStatus = "pending"
	PromotionApproved PromotionStatus = "approved"
	PromotionRejected PromotionStatus = "rejected"
)

// Promotion is a sale submitted by an ambassador and awaiting review.
type Promotion struct {
	ID                   string          `json:"_id"`
	Product              ProductRef      `json:"productId"`
	Quantity             int             `json:"quantity"`
	TransactionReference string          `json:"transactionReference"`
	Status               PromotionStatus `json:"status"`
	CreatedAt            time.Time       `json:"createdAt,omitzero"`
}

type BankDetails struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

// AccountBalance is the signed-in user's wallet state.
type AccountBalance struct {
	WalletBalance float64      `json:"walletBalance"`
	BankDetails   *BankDetails `json:"bankDetails,omitempty"`
}
