package models

// BackupJobData is a flattened analytics snapshot of a job.
// It is only reconciled with the primary collections on explicit request.
type BackupJobData struct {
	ID              int64        `json:"id"`
	JobID           string       `json:"jobId"`
	CustomerName    string       `json:"customerName"`
	PhoneNumber     string       `json:"phoneNumber"`
	DeviceInfo      string       `json:"deviceInfo"`
	SerialNumber    string       `json:"serialNumber"`
	Complaint       string       `json:"complaint"`
	ReceivedDate    string       `json:"receivedDate"`
	EstimatedAmount *float64     `json:"estimatedAmount,omitempty"`
	Status          RecordStatus `json:"status"`
	CreatedAt       string       `json:"createdAt"`
	Notes           string       `json:"notes,omitempty"`
}

// BackupJobDataExport is the analytics-only backup file
type BackupJobDataExport struct {
	BackupJobData []BackupJobData `json:"backupJobData"`
	ExportDate    string          `json:"exportDate"`
	TotalRecords  int             `json:"totalRecords"`
}

// SystemExport is the full-system backup file.
// Nil collections in an import are left untouched.
type SystemExport struct {
	HardDiskRecords []HardDiskRecord `json:"hardDiskRecords"`
	InwardRecords   []InwardRecord   `json:"inwardRecords"`
	OutwardRecords  []OutwardRecord  `json:"outwardRecords"`
	InvoiceCounter  *InvoiceCounter  `json:"invoiceCounter"`
	JobCounter      *int             `json:"jobCounter"`
	ExportDate      string           `json:"exportDate"`
}
