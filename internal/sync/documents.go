package sync

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/storage"
	"go.uber.org/zap"
)

const (
	DefaultDiagnosticFee = 500.0
	DefaultValidityDays  = 30
	FallbackAmount       = 5000.0
)

var (
	igstRate = decimal.NewFromFloat(0.18)
	halfRate = decimal.NewFromFloat(0.09)
)

// ComputeTax splits GST on subtotal. The supply is inter-state when the
// customer's state is known and differs from the company's.
func ComputeTax(subtotal float64, customerState, companyState string) models.TaxBreakdown {
	sub := decimal.NewFromFloat(subtotal)
	cs := strings.TrimSpace(customerState)
	inter := cs != "" && !strings.EqualFold(cs, strings.TrimSpace(companyState))

	t := models.TaxBreakdown{Subtotal: sub.Round(2).InexactFloat64(), IsInterState: inter}
	var gst decimal.Decimal
	if inter {
		igst := sub.Mul(igstRate).Round(2)
		t.IGST = igst.InexactFloat64()
		gst = igst
	} else {
		half := sub.Mul(halfRate).Round(2)
		t.CGST = half.InexactFloat64()
		t.SGST = half.InexactFloat64()
		gst = half.Add(half)
	}
	t.GrandTotal = sub.Add(gst).Round(2).InexactFloat64()
	return t
}

// DefaultBaseAmount prices recovery from the capacity label: 2000 per TB,
// 2 per GB, and FallbackAmount when the label has no leading number
func DefaultBaseAmount(capacity string) float64 {
	n, ok := leadingInt(capacity)
	if !ok {
		return FallbackAmount
	}
	if strings.Contains(strings.ToUpper(capacity), "TB") {
		return float64(n * 2000)
	}
	return float64(n * 2)
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// EstimateRequest carries operator input for an estimate. Empty customer
// fields are taken from the job.
type EstimateRequest struct {
	JobID         string   `json:"jobId"`
	CustomerName  string   `json:"customerName,omitempty"`
	PhoneNumber   string   `json:"phoneNumber,omitempty"`
	CustomerState string   `json:"customerState,omitempty"`
	BaseAmount    *float64 `json:"baseAmount,omitempty"`
	DiagnosticFee *float64 `json:"diagnosticFee,omitempty"`
	ManualAmount  *float64 `json:"manualAmount,omitempty"`
	ValidityDays  int      `json:"validityDays,omitempty"`
	CustomTerms   string   `json:"customTerms,omitempty"`
}

// InvoiceRequest carries operator input for an invoice
type InvoiceRequest struct {
	JobID         string   `json:"jobId"`
	CustomerName  string   `json:"customerName,omitempty"`
	PhoneNumber   string   `json:"phoneNumber,omitempty"`
	CustomerState string   `json:"customerState,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	CustomTerms   string   `json:"customTerms,omitempty"`
}

func (u *unit) jobCustomer(jobID string, name, phone, state *string) (*models.HardDiskRecord, error) {
	disks, err := u.hardDisks()
	if err != nil {
		return nil, err
	}
	h := findHardDisk(disks, jobID)
	if h < 0 {
		return nil, nil
	}
	hd := disks[h]
	if *name == "" {
		*name = hd.CustomerName
	}
	if *phone == "" {
		*phone = hd.PhoneNumber
	}
	if *state == "" {
		*state = hd.CustomerState
	}
	return &hd, nil
}

// IssueEstimate prices and saves an estimate for the job. A job keeps its
// estimate number across reissues. The subtotal becomes the job's estimate
// on the Inward record in the same commit.
func (e *Engine) IssueEstimate(ctx context.Context, req EstimateRequest) (models.GeneratedEstimate, error) {
	var est models.GeneratedEstimate
	err := e.run(ctx, func(u *unit) error {
		hd, err := u.jobCustomer(req.JobID, &req.CustomerName, &req.PhoneNumber, &req.CustomerState)
		if err != nil {
			return err
		}
		company, err := u.companyDetails()
		if err != nil {
			return err
		}
		estimates, err := u.estimates()
		if err != nil {
			return err
		}

		base := FallbackAmount
		if hd != nil {
			base = DefaultBaseAmount(hd.Capacity)
		}
		if req.BaseAmount != nil {
			base = *req.BaseAmount
		}
		fee := DefaultDiagnosticFee
		if req.DiagnosticFee != nil {
			fee = *req.DiagnosticFee
		}
		subtotal := decimal.NewFromFloat(base).Add(decimal.NewFromFloat(fee)).InexactFloat64()
		if req.ManualAmount != nil {
			subtotal = *req.ManualAmount
		}
		days := req.ValidityDays
		if days <= 0 {
			days = DefaultValidityDays
		}

		idx := -1
		for i := range estimates {
			if estimates[i].JobID == req.JobID {
				idx = i
				break
			}
		}
		var number string
		if idx >= 0 {
			number = estimates[idx].EstimateNumber
		} else if number, err = u.nextDocumentNumber(false); err != nil {
			return err
		}

		if err := validateDocument(number, req.CustomerName, req.PhoneNumber, subtotal, req.JobID); err != nil {
			return err
		}

		terms := req.CustomTerms
		if terms == "" {
			templates, err := u.termsTemplates()
			if err != nil {
				return err
			}
			terms = defaultTerms(templates, "Estimate")
		}

		est = models.GeneratedEstimate{
			ID:             req.JobID + "-" + number,
			EstimateNumber: number,
			JobID:          req.JobID,
			CustomerName:   req.CustomerName,
			PhoneNumber:    req.PhoneNumber,
			BaseAmount:     base,
			DiagnosticFee:  fee,
			ManualAmount:   models.CopyAmount(req.ManualAmount),
			TaxBreakdown:   ComputeTax(subtotal, req.CustomerState, company.State),
			ValidityDays:   days,
			ValidUntilDate: e.now().AddDate(0, 0, days).Format(dateLayout),
			GeneratedDate:  e.timestamp(),
			CustomTerms:    terms,
		}
		if idx >= 0 {
			estimates[idx] = est
		} else {
			estimates = append(estimates, est)
		}
		if err := u.put(storage.KeyGeneratedEstimates, estimates); err != nil {
			return err
		}
		_, err = u.updateInwardEstimate(req.JobID, est.Subtotal)
		return err
	})
	if err != nil {
		return est, err
	}

	e.log.Info("estimate issued",
		zap.String("job_id", est.JobID),
		zap.String("number", est.EstimateNumber),
		zap.Float64("grand_total", est.GrandTotal),
	)
	e.notify("document.estimate", est.JobID)
	return est, nil
}

// IssueInvoice saves an invoice for the job. Without an explicit amount the
// job's estimate is billed, falling back to FallbackAmount.
func (e *Engine) IssueInvoice(ctx context.Context, req InvoiceRequest) (models.GeneratedInvoice, error) {
	var inv models.GeneratedInvoice
	err := e.run(ctx, func(u *unit) error {
		hd, err := u.jobCustomer(req.JobID, &req.CustomerName, &req.PhoneNumber, &req.CustomerState)
		if err != nil {
			return err
		}
		company, err := u.companyDetails()
		if err != nil {
			return err
		}
		invoices, err := u.invoices()
		if err != nil {
			return err
		}

		amount, err := u.billableAmount(req, hd)
		if err != nil {
			return err
		}

		idx := -1
		for i := range invoices {
			if invoices[i].JobID == req.JobID {
				idx = i
				break
			}
		}
		var number string
		if idx >= 0 {
			number = invoices[idx].InvoiceNumber
		} else if number, err = u.nextDocumentNumber(true); err != nil {
			return err
		}

		if err := validateDocument(number, req.CustomerName, req.PhoneNumber, amount, req.JobID); err != nil {
			return err
		}

		terms := req.CustomTerms
		if terms == "" {
			templates, err := u.termsTemplates()
			if err != nil {
				return err
			}
			terms = defaultTerms(templates, "Invoice")
		}

		inv = models.GeneratedInvoice{
			ID:            req.JobID + "-" + number,
			InvoiceNumber: number,
			JobID:         req.JobID,
			CustomerName:  req.CustomerName,
			PhoneNumber:   req.PhoneNumber,
			Amount:        amount,
			TaxBreakdown:  ComputeTax(amount, req.CustomerState, company.State),
			GeneratedDate: e.timestamp(),
			CustomTerms:   terms,
		}
		if idx >= 0 {
			invoices[idx] = inv
		} else {
			invoices = append(invoices, inv)
		}
		return u.put(storage.KeyGeneratedInvoices, invoices)
	})
	if err != nil {
		return inv, err
	}

	e.log.Info("invoice issued",
		zap.String("job_id", inv.JobID),
		zap.String("number", inv.InvoiceNumber),
		zap.Float64("grand_total", inv.GrandTotal),
	)
	e.notify("document.invoice", inv.JobID)
	return inv, nil
}

// billableAmount resolves an invoice amount: explicit amount, HardDisk
// estimate, estimate subtotal, Inward manual amount, then the fallback
func (u *unit) billableAmount(req InvoiceRequest, hd *models.HardDiskRecord) (float64, error) {
	if req.Amount != nil {
		return *req.Amount, nil
	}
	if hd != nil {
		if a := truthyAmount(hd.EstimatedAmount); a != nil {
			return *a, nil
		}
	}
	estimates, err := u.estimates()
	if err != nil {
		return 0, err
	}
	for _, est := range estimates {
		if est.JobID == req.JobID && est.Subtotal != 0 {
			return est.Subtotal, nil
		}
	}
	inwards, err := u.inwards()
	if err != nil {
		return 0, err
	}
	if i := findInward(inwards, req.JobID); i >= 0 {
		if a := truthyAmount(inwards[i].ManualAmount); a != nil {
			return *a, nil
		}
	}
	return FallbackAmount, nil
}

// GetEstimateByJobID returns nil when the job has no estimate
func (e *Engine) GetEstimateByJobID(ctx context.Context, jobID string) (*models.GeneratedEstimate, error) {
	var out *models.GeneratedEstimate
	err := e.read(ctx, func(u *unit) error {
		list, err := u.estimates()
		if err != nil {
			return err
		}
		for i := range list {
			if list[i].JobID == jobID {
				out = &list[i]
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetInvoiceByJobID returns nil when the job has no invoice
func (e *Engine) GetInvoiceByJobID(ctx context.Context, jobID string) (*models.GeneratedInvoice, error) {
	var out *models.GeneratedInvoice
	err := e.read(ctx, func(u *unit) error {
		list, err := u.invoices()
		if err != nil {
			return err
		}
		for i := range list {
			if list[i].JobID == jobID {
				out = &list[i]
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetGeneratedInvoices lists every saved invoice
func (e *Engine) GetGeneratedInvoices(ctx context.Context) ([]models.GeneratedInvoice, error) {
	var out []models.GeneratedInvoice
	err := e.read(ctx, func(u *unit) error {
		var err error
		out, err = u.invoices()
		return err
	})
	return out, err
}

// GetGeneratedEstimates lists every saved estimate
func (e *Engine) GetGeneratedEstimates(ctx context.Context) ([]models.GeneratedEstimate, error) {
	var out []models.GeneratedEstimate
	err := e.read(ctx, func(u *unit) error {
		var err error
		out, err = u.estimates()
		return err
	})
	return out, err
}
