// server/internal/models/refill_request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Refill request lifecycle. A request cycles pending -> printing -> pending
// for as long as printing keeps failing; printed is terminal.
const (
	StatusPending  = "pending"
	StatusPrinting = "printing"
	StatusPrinted  = "printed"
)

// RefillRequest is the unit of work handed off to a store's print agent.
// JSON field names match the patient web form and the original agent wire
// format (snake_case).
type RefillRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RequestID   string             `bson:"requestID" json:"id"`
	RxNumber    string             `bson:"rxNumber" json:"rx_number"`
	StoreID     string             `bson:"storeID" json:"store_id"`
	PatientName string             `bson:"patientName" json:"patient_name"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	PrintedAt   *time.Time         `bson:"printedAt,omitempty" json:"printed_at,omitempty"`
}
