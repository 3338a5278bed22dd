package models

// HardDiskRecord is the intake record of a job and the authoritative source
// for device and customer facts
type HardDiskRecord struct {
	JobID                 string           `json:"jobId"`
	SerialNumber          string           `json:"serialNumber"`
	Model                 string           `json:"model"`
	Capacity              string           `json:"capacity"`
	Year                  int              `json:"year"`
	Complaint             string           `json:"complaint"`
	CustomerName          string           `json:"customerName"`
	PhoneNumber           string           `json:"phoneNumber"`
	CustomerGSTIN         string           `json:"customerGSTIN,omitempty"`
	CustomerAddress       string           `json:"customerAddress,omitempty"`
	CustomerState         string           `json:"customerState,omitempty"`
	EstimatedAmount       *float64         `json:"estimatedAmount,omitempty"`
	EstimatedDeliveryDate string           `json:"estimatedDeliveryDate,omitempty"`
	ReceivedDate          string           `json:"receivedDate"`
	CreatedAt             string           `json:"createdAt"`
	IsClosed              bool             `json:"isClosed,omitempty"`
	DeliveryDetails       *DeliveryDetails `json:"deliveryDetails,omitempty"`
	Status                RecordStatus     `json:"status,omitempty"`
}

// DeviceInfo is the short device description used on reports
func (r HardDiskRecord) DeviceInfo() string {
	return r.Model + " " + r.Capacity
}

// InwardRecord tracks receipt bookkeeping and the job's estimate
type InwardRecord struct {
	ID                    int64        `json:"id"`
	JobID                 string       `json:"jobId"`
	Date                  string       `json:"date"`
	ReceivedFrom          string       `json:"receivedFrom"`
	Notes                 string       `json:"notes"`
	CustomerName          string       `json:"customerName"`
	PhoneNumber           string       `json:"phoneNumber"`
	ManualAmount          *float64     `json:"manualAmount,omitempty"`
	EstimatedAmount       *float64     `json:"estimatedAmount,omitempty"`
	EstimatedDeliveryDate string       `json:"estimatedDeliveryDate,omitempty"`
	IsDelivered           bool         `json:"isDelivered,omitempty"`
	DeliveryDate          string       `json:"deliveryDate,omitempty"`
	Status                RecordStatus `json:"status,omitempty"`
}

// OutwardRecord tracks how and when the device went back to the customer
type OutwardRecord struct {
	ID              int64        `json:"id"`
	JobID           string       `json:"jobId"`
	Date            string       `json:"date"`
	DeliveredTo     string       `json:"deliveredTo"`
	DeliveryMode    DeliveryMode `json:"deliveryMode,omitempty"`
	Notes           string       `json:"notes"`
	CustomerName    string       `json:"customerName"`
	PhoneNumber     string       `json:"phoneNumber"`
	IsCompleted     bool         `json:"isCompleted,omitempty"`
	CompletedDate   string       `json:"completedDate,omitempty"`
	EstimatedAmount *float64     `json:"estimatedAmount,omitempty"`
	Status          RecordStatus `json:"status,omitempty"`
}

// Amount returns a pointer to a copy of v
func Amount(v float64) *float64 {
	return &v
}

// CopyAmount duplicates an optional amount so records never share a pointer
func CopyAmount(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
