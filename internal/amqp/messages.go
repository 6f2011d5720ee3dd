package amqp

import (
	"encoding/json"
	"time"

	"alugueis/internal/core"
)

// RentalCreatedMessage announces a newly recorded rental.
type RentalCreatedMessage struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewRentalCreatedMessage(r core.Rental) *RentalCreatedMessage {
	return &RentalCreatedMessage{
		ID:            r.ID,
		Date:          r.Date.String(),
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
		Timestamp:     time.Now(),
	}
}

func (m *RentalCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RentalCreatedMessageFromJSON(data []byte) (*RentalCreatedMessage, error) {
	var msg RentalCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
