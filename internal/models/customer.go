package models

// MasterCustomer is a deduplicated customer directory entry keyed by phone
type MasterCustomer struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	State       string `json:"state,omitempty"`
	GSTIN       string `json:"gstin,omitempty"`
	CreatedAt   string `json:"createdAt"`
	LastUpdated string `json:"lastUpdated"`
}
