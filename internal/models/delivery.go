package models

import "strings"

// DeliveryDetails captures the hand-back of a device.
// CourierNumber and CourierCompany only apply to carrier modes.
type DeliveryDetails struct {
	DeliveryDate   string       `json:"deliveryDate" validate:"required"`
	DeliveryMode   DeliveryMode `json:"deliveryMode" validate:"deliverymode"`
	RecipientName  string       `json:"recipientName" validate:"notblank"`
	CourierNumber  string       `json:"courierNumber,omitempty"`
	CourierCompany string       `json:"courierCompany,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}

// Normalize trims text fields and drops courier data for non-carrier modes
func (d DeliveryDetails) Normalize() DeliveryDetails {
	d.RecipientName = strings.TrimSpace(d.RecipientName)
	d.CourierNumber = strings.TrimSpace(d.CourierNumber)
	d.CourierCompany = strings.TrimSpace(d.CourierCompany)
	if !d.DeliveryMode.NeedsTracking() {
		d.CourierNumber = ""
		d.CourierCompany = ""
	}
	return d
}
