package models

// MasterRecordData is the merged view of a job across HardDisk, Inward and
// Outward records
type MasterRecordData struct {
	JobID        string `json:"jobId"`
	SerialNumber string `json:"serialNumber"`
	Model        string `json:"model"`
	Capacity     string `json:"capacity"`
	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"`
	ReceivedDate string `json:"receivedDate"`
	Complaint    string `json:"complaint"`

	EstimatedAmount       *float64 `json:"estimatedAmount,omitempty"`
	EstimatedDeliveryDate string   `json:"estimatedDeliveryDate,omitempty"`
	InwardDate            string   `json:"inwardDate,omitempty"`
	InwardNotes           string   `json:"inwardNotes,omitempty"`

	OutwardDate     string           `json:"outwardDate,omitempty"`
	DeliveredTo     string           `json:"deliveredTo,omitempty"`
	DeliveryMode    DeliveryMode     `json:"deliveryMode,omitempty"`
	DeliveryDetails *DeliveryDetails `json:"deliveryDetails,omitempty"`

	Status        RecordStatus `json:"status"`
	IsClosed      bool         `json:"isClosed"`
	IsDelivered   bool         `json:"isDelivered"`
	CompletedDate string       `json:"completedDate,omitempty"`
}

// DeliveryReport is one row of the delivery report.
// ID is a presentation key only and changes on every call.
type DeliveryReport struct {
	ID              string       `json:"id"`
	JobID           string       `json:"jobId"`
	Date            string       `json:"date"`
	DeliveredTo     string       `json:"deliveredTo"`
	DeliveryMode    DeliveryMode `json:"deliveryMode,omitempty"`
	CustomerName    string       `json:"customerName"`
	PhoneNumber     string       `json:"phoneNumber"`
	IsCompleted     bool         `json:"isCompleted"`
	CompletedDate   string       `json:"completedDate,omitempty"`
	InwardDate      string       `json:"inwardDate,omitempty"`
	DeviceInfo      string       `json:"deviceInfo"`
	SerialNumber    string       `json:"serialNumber"`
	EstimatedAmount *float64     `json:"estimatedAmount,omitempty"`
	Status          RecordStatus `json:"status"`
}

// MonthlyTrend is one bucket of the dashboard trend chart
type MonthlyTrend struct {
	Month     string  `json:"month"`
	Inward    int     `json:"inward"`
	Completed int     `json:"completed"`
	Revenue   float64 `json:"revenue"`
}

// CustomerStat ranks customers by job count
type CustomerStat struct {
	Name string `json:"name"`
	Jobs int    `json:"jobs"`
}

// StatusCount is one slice of the status distribution
type StatusCount struct {
	Status RecordStatus `json:"status"`
	Name   string       `json:"name"`
	Value  int          `json:"value"`
}

// DashboardStats is the aggregate view shown on the dashboard
type DashboardStats struct {
	TotalJobs        int     `json:"totalJobs"`
	TotalCustomers   int     `json:"totalCustomers"`
	TotalRevenue     float64 `json:"totalRevenue"`
	MonthlyRevenue   float64 `json:"monthlyRevenue"`
	LastMonthRevenue float64 `json:"lastMonthRevenue"`
	AvgRevenuePerJob float64 `json:"avgRevenuePerJob"`

	PendingJobs    int     `json:"pendingJobs"`
	InProgressJobs int     `json:"inProgressJobs"`
	CompletedJobs  int     `json:"completedJobs"`
	CompletionRate float64 `json:"completionRate"`

	AvgTurnaroundDays int `json:"avgTurnaroundDays"`
	MonthlyInward     int `json:"monthlyInward"`
	LastMonthInward   int `json:"lastMonthInward"`
	MonthlyCompleted  int `json:"monthlyCompleted"`

	MonthlyTrend       []MonthlyTrend `json:"monthlyTrend"`
	StatusDistribution []StatusCount  `json:"statusDistribution"`
	TopCustomers       []CustomerStat `json:"topCustomers"`

	InwardTrend   string `json:"inwardTrend"`
	InwardChange  int    `json:"inwardChange"`
	RevenueTrend  string `json:"revenueTrend"`
	RevenueChange int    `json:"revenueChange"`
}
