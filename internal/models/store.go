// server/internal/models/store.go
package models

// PharmacyStore is one entry of the store directory. PrinterAddress may be
// empty for stores whose agent is configured locally (or runs in console
// mode).
type PharmacyStore struct {
	StoreID        string `json:"store_id"`
	Name           string `json:"name"`
	City           string `json:"city"`
	Phone          string `json:"phone"`
	PrinterAddress string `json:"printer_address,omitempty"`
	PrinterPort    int    `json:"printer_port,omitempty"`
}
