package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/storage"
	"github.com/xelth-com/recoverydesk/internal/utils"
)

func TestComputeTax(t *testing.T) {
	tests := []struct {
		name          string
		subtotal      float64
		customerState string
		companyState  string
		want          models.TaxBreakdown
	}{
		{
			name:         "intra-state without customer state",
			subtotal:     1000,
			companyState: "Karnataka",
			want:         models.TaxBreakdown{Subtotal: 1000, CGST: 90, SGST: 90, GrandTotal: 1180},
		},
		{
			name:          "same state ignores case",
			subtotal:      4500,
			customerState: "karnataka ",
			companyState:  "Karnataka",
			want:          models.TaxBreakdown{Subtotal: 4500, CGST: 405, SGST: 405, GrandTotal: 5310},
		},
		{
			name:          "inter-state",
			subtotal:      4500,
			customerState: "Maharashtra",
			companyState:  "Karnataka",
			want:          models.TaxBreakdown{Subtotal: 4500, IGST: 810, GrandTotal: 5310, IsInterState: true},
		},
		{
			name:          "rounds to paise",
			subtotal:      333.33,
			customerState: "Kerala",
			companyState:  "Karnataka",
			want:          models.TaxBreakdown{Subtotal: 333.33, IGST: 60, GrandTotal: 393.33, IsInterState: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTax(tt.subtotal, tt.customerState, tt.companyState))
		})
	}
}

func TestDefaultBaseAmount(t *testing.T) {
	assert.Equal(t, 2000.0, DefaultBaseAmount("1TB"))
	assert.Equal(t, 4000.0, DefaultBaseAmount("2 tb"))
	assert.Equal(t, 2000.0, DefaultBaseAmount("1.5TB"))
	assert.Equal(t, 1000.0, DefaultBaseAmount("500GB"))
	assert.Equal(t, FallbackAmount, DefaultBaseAmount("unknown"))
	assert.Equal(t, FallbackAmount, DefaultBaseAmount(""))
}

func TestIssueEstimate(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	rec := sampleJob("JOB001")
	rec.Capacity = "2TB"
	rec.CustomerState = "Maharashtra"
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, rec))

	est, err := e.IssueEstimate(ctx, EstimateRequest{JobID: "JOB001"})
	require.NoError(t, err)
	assert.Equal(t, "EST0001", est.EstimateNumber)
	assert.Equal(t, "JOB001-EST0001", est.ID)
	assert.Equal(t, 4000.0, est.BaseAmount)
	assert.Equal(t, DefaultDiagnosticFee, est.DiagnosticFee)
	assert.Equal(t, 4500.0, est.Subtotal)
	assert.True(t, est.IsInterState)
	assert.Equal(t, 810.0, est.IGST)
	assert.Equal(t, 5310.0, est.GrandTotal)
	assert.Equal(t, DefaultValidityDays, est.ValidityDays)
	assert.Equal(t, "2026-04-14", est.ValidUntilDate)
	assert.Contains(t, est.CustomTerms, "This is an estimate only")
	assert.Equal(t, "Asha Rao", est.CustomerName)

	in := load[models.InwardRecord](t, store, storage.KeyInwardRecords)[0]
	require.NotNil(t, in.ManualAmount)
	assert.Equal(t, 4500.0, *in.ManualAmount)
	assert.Equal(t, 4500.0, *in.EstimatedAmount)

	// reissue keeps the number and replaces the saved estimate
	again, err := e.IssueEstimate(ctx, EstimateRequest{JobID: "JOB001", ManualAmount: models.Amount(3000), ValidityDays: 7})
	require.NoError(t, err)
	assert.Equal(t, "EST0001", again.EstimateNumber)
	assert.Equal(t, 3000.0, again.Subtotal)
	assert.Equal(t, "2026-03-22", again.ValidUntilDate)

	estimates, err := e.GetGeneratedEstimates(ctx)
	require.NoError(t, err)
	require.Len(t, estimates, 1)

	next, err := e.GenerateNextEstimateNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EST0002", next)

	byJob, err := e.GetEstimateByJobID(ctx, "JOB001")
	require.NoError(t, err)
	require.NotNil(t, byJob)
	assert.Equal(t, 3000.0, byJob.Subtotal)
}

func TestIssueInvoice_AmountFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("hard disk estimate", func(t *testing.T) {
		e, _ := newTestEngine(t)
		rec := sampleJob("JOB001")
		rec.EstimatedAmount = models.Amount(1000)
		require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, rec))

		inv, err := e.IssueInvoice(ctx, InvoiceRequest{JobID: "JOB001"})
		require.NoError(t, err)
		assert.Equal(t, "INV0001", inv.InvoiceNumber)
		assert.Equal(t, 1000.0, inv.Amount)
		assert.Equal(t, 90.0, inv.CGST)
		assert.Equal(t, 1180.0, inv.GrandTotal)
		assert.Contains(t, inv.CustomTerms, "Payment due upon receipt")
	})

	t.Run("estimate subtotal", func(t *testing.T) {
		e, _ := newTestEngine(t)
		require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))
		_, err := e.IssueEstimate(ctx, EstimateRequest{JobID: "JOB001", ManualAmount: models.Amount(2750)})
		require.NoError(t, err)

		inv, err := e.IssueInvoice(ctx, InvoiceRequest{JobID: "JOB001"})
		require.NoError(t, err)
		assert.Equal(t, 2750.0, inv.Amount)
	})

	t.Run("fallback amount and reused number", func(t *testing.T) {
		e, _ := newTestEngine(t)
		require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))

		inv, err := e.IssueInvoice(ctx, InvoiceRequest{JobID: "JOB001"})
		require.NoError(t, err)
		assert.Equal(t, FallbackAmount, inv.Amount)

		again, err := e.IssueInvoice(ctx, InvoiceRequest{JobID: "JOB001", Amount: models.Amount(800), CustomTerms: "Net 7"})
		require.NoError(t, err)
		assert.Equal(t, "INV0001", again.InvoiceNumber)
		assert.Equal(t, "Net 7", again.CustomTerms)

		byJob, err := e.GetInvoiceByJobID(ctx, "JOB001")
		require.NoError(t, err)
		require.NotNil(t, byJob)
		assert.Equal(t, 800.0, byJob.Amount)

		missing, err := e.GetInvoiceByJobID(ctx, "JOB404")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestIssueInvoice_ValidationWritesNothing(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	_, err := e.IssueInvoice(ctx, InvoiceRequest{JobID: "JOB404", Amount: models.Amount(0)})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"Customer name is required",
		"Phone number is required",
		"Amount must be greater than zero",
	}, verr.Messages())

	assert.Equal(t, 0, store.Len())
}

func TestValidateDocument_MessageOrder(t *testing.T) {
	err := validateDocument("", "", "", 0, "")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"Invoice/Estimate number is required",
		"Customer name is required",
		"Phone number is required",
		"Amount must be greater than zero",
		"Job ID is required",
	}, verr.Messages())

	assert.NoError(t, validateDocument("INV0001", "Asha", "98765", 10, "JOB001"))
}

func TestCompanyDetailsAndTerms(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	c, err := e.GetCompanyDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Swaz Data Recovery Lab", c.CompanyName)
	assert.Equal(t, "998314", c.HSNCode)

	c.State = ""
	c.Email = "not-an-email"
	err = e.SaveCompanyDetails(ctx, c)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"State is required", "Invalid email format"}, verr.Messages())

	c.State = "Tamil Nadu"
	c.Email = "desk@example.com"
	require.NoError(t, e.SaveCompanyDetails(ctx, c))
	saved, err := e.GetCompanyDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tamil Nadu", saved.State)

	templates, err := e.GetTermsTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "Default Invoice Terms", templates[0].Name)

	stored, err := e.SaveTermsTemplates(ctx, []models.TermsTemplate{{Name: "Express", Content: "48h turnaround"}})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotZero(t, stored[0].ID)
	assert.NotEmpty(t, stored[0].CreatedAt)

	_, err = e.SaveTermsTemplates(ctx, []models.TermsTemplate{{Content: "no name"}})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Template name is required"}, verr.Messages())
}

func TestPassword(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	ok, err := e.VerifyPassword(ctx, "admin123")
	require.NoError(t, err)
	assert.False(t, ok, "no password before bootstrap")

	require.NoError(t, e.EnsurePassword(ctx, "admin123"))
	require.NoError(t, e.EnsurePassword(ctx, "ignored"))

	ok, err = e.VerifyPassword(ctx, "admin123")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, e.ChangePassword(ctx, "wrong", "secret99"), ErrWrongPassword)
	var verr *ValidationError
	assert.True(t, errors.As(e.ChangePassword(ctx, "admin123", "123"), &verr))

	require.NoError(t, e.ChangePassword(ctx, "admin123", "secret99"))
	ok, err = e.VerifyPassword(ctx, "secret99")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPassword_StoredAsJSON(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	require.NoError(t, e.EnsurePassword(ctx, "admin123"))

	raw, ok, err := store.Get(ctx, storage.KeyAuthPassword)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, json.Valid(raw), "password hash must be a JSON string: %s", raw)

	require.NoError(t, e.ChangePassword(ctx, "admin123", "secret99"))
	raw, _, err = store.Get(ctx, storage.KeyAuthPassword)
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
}

func TestPassword_AcceptsBareLegacyHash(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	hash, err := utils.HashPassword("oldpass")
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, storage.KeyAuthPassword, []byte(hash)))

	ok, err := e.VerifyPassword(ctx, "oldpass")
	require.NoError(t, err)
	assert.True(t, ok)
}
