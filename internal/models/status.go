package models

import "fmt"

// RecordStatus is the canonical lifecycle state of a job
type RecordStatus string

const (
	StatusPending    RecordStatus = "pending"     // Received, not yet being worked on
	StatusInProgress RecordStatus = "in_progress" // Outward record exists, not completed
	StatusCompleted  RecordStatus = "completed"   // Delivered back to the customer
)

// AllRecordStatuses lists the states in lifecycle order
var AllRecordStatuses = []RecordStatus{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known states
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Label returns the display label used on reports
func (s RecordStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// ParseRecordStatus converts raw input into a RecordStatus
func ParseRecordStatus(raw string) (RecordStatus, error) {
	s := RecordStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown record status %q", raw)
	}
	return s, nil
}

// DeliveryMode describes how a device is handed back
type DeliveryMode string

const (
	DeliveryHand    DeliveryMode = "Hand Delivery"
	DeliveryCourier DeliveryMode = "Courier"
	DeliveryPostal  DeliveryMode = "Postal Service"
	DeliveryPickup  DeliveryMode = "Pickup by Customer"
	DeliveryOther   DeliveryMode = "Other"
)

// DeliveryModeOptions is the ordered list offered to operators
var DeliveryModeOptions = []DeliveryMode{DeliveryHand, DeliveryCourier, DeliveryPostal, DeliveryPickup, DeliveryOther}

// Valid reports whether m is one of the known delivery modes
func (m DeliveryMode) Valid() bool {
	switch m {
	case DeliveryHand, DeliveryCourier, DeliveryPostal, DeliveryPickup, DeliveryOther:
		return true
	}
	return false
}

// NeedsTracking is true for modes that go through a carrier
func (m DeliveryMode) NeedsTracking() bool {
	return m == DeliveryCourier || m == DeliveryPostal
}
