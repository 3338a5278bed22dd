package models

// InvoiceCounter holds the two independent document sequences
type InvoiceCounter struct {
	Invoice  int `json:"invoice"`
	Estimate int `json:"estimate"`
}

// TaxBreakdown is the GST split of a subtotal.
// Intra-state documents carry CGST and SGST, inter-state ones carry IGST.
type TaxBreakdown struct {
	Subtotal     float64 `json:"subtotal"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	IGST         float64 `json:"igst"`
	GrandTotal   float64 `json:"grandTotal"`
	IsInterState bool    `json:"isInterState"`
}

// GeneratedInvoice is a saved invoice, keyed by "<jobId>-<invoiceNumber>"
type GeneratedInvoice struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoiceNumber"`
	JobID         string  `json:"jobId"`
	CustomerName  string  `json:"customerName"`
	PhoneNumber   string  `json:"phoneNumber"`
	Amount        float64 `json:"amount"`
	TaxBreakdown
	GeneratedDate string `json:"generatedDate"`
	CustomTerms   string `json:"customTerms,omitempty"`
}

// GeneratedEstimate is a saved estimate, keyed by "<jobId>-<estimateNumber>"
type GeneratedEstimate struct {
	ID             string   `json:"id"`
	EstimateNumber string   `json:"estimateNumber"`
	JobID          string   `json:"jobId"`
	CustomerName   string   `json:"customerName"`
	PhoneNumber    string   `json:"phoneNumber"`
	BaseAmount     float64  `json:"baseAmount"`
	DiagnosticFee  float64  `json:"diagnosticFee"`
	ManualAmount   *float64 `json:"manualAmount"`
	TaxBreakdown
	ValidityDays   int    `json:"validityDays"`
	ValidUntilDate string `json:"validUntilDate"`
	GeneratedDate  string `json:"generatedDate"`
	CustomTerms    string `json:"customTerms,omitempty"`
}
