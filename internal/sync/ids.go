package sync

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/xelth-com/recoverydesk/internal/storage"
	"go.uber.org/zap"
)

var (
	autoJobIDPattern = regexp.MustCompile(`^JOB\d{3}$`)
	jobNumberPattern = regexp.MustCompile(`^JOB(\d+)$`)
)

// IsAutoGeneratedJobID reports whether id came from the job counter.
// Such ids can be neither edited nor deleted.
func IsAutoGeneratedJobID(id string) bool {
	return autoJobIDPattern.MatchString(id)
}

// FormatJobID renders a counter value as a job id
func FormatJobID(n int) string {
	return fmt.Sprintf("JOB%03d", n)
}

func jobNumber(id string) (int, bool) {
	m := jobNumberPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (u *unit) previewJobID() (string, error) {
	n, err := u.jobCounter()
	if err != nil {
		return "", err
	}
	return FormatJobID(n + 1), nil
}

// generateJobID advances the counter past any id already held by a job
func (u *unit) generateJobID() (string, error) {
	taken, err := u.takenJobIDs()
	if err != nil {
		return "", err
	}
	n, err := u.jobCounter()
	if err != nil {
		return "", err
	}
	n++
	for taken[FormatJobID(n)] {
		n++
	}
	u.setJobCounter(n)
	return FormatJobID(n), nil
}

func (u *unit) takenJobIDs() (map[string]bool, error) {
	records, err := u.hardDisks()
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(records))
	for _, r := range records {
		taken[r.JobID] = true
	}
	return taken, nil
}

// nextAvailableJobID restarts numbering on an empty collection and otherwise
// skips ids that are already taken. It never advances the counter.
func (u *unit) nextAvailableJobID() (string, error) {
	taken, err := u.takenJobIDs()
	if err != nil {
		return "", err
	}
	if len(taken) == 0 {
		u.setJobCounter(0)
		return FormatJobID(1), nil
	}

	n, err := u.jobCounter()
	if err != nil {
		return "", err
	}
	n++
	for taken[FormatJobID(n)] {
		n++
	}
	return FormatJobID(n), nil
}

// advanceCounterFor bumps the counter only when id is exactly the previewed
// next id
func (u *unit) advanceCounterFor(id string) error {
	n, ok := jobNumber(id)
	if !ok {
		return nil
	}
	current, err := u.jobCounter()
	if err != nil {
		return err
	}
	if n == current+1 {
		u.setJobCounter(n)
	}
	return nil
}

// PreviewNextJobID returns the id the counter would hand out next
func (e *Engine) PreviewNextJobID(ctx context.Context) (string, error) {
	var id string
	err := e.read(ctx, func(u *unit) error {
		var err error
		id, err = u.previewJobID()
		return err
	})
	return id, err
}

// GenerateNextJobID increments the job counter and returns the new id.
// Ids already used by a job are skipped.
func (e *Engine) GenerateNextJobID(ctx context.Context) (string, error) {
	var id string
	err := e.run(ctx, func(u *unit) error {
		var err error
		id, err = u.generateJobID()
		return err
	})
	return id, err
}

// ResetJobIDCounter restarts job numbering at JOB001
func (e *Engine) ResetJobIDCounter(ctx context.Context) error {
	err := e.run(ctx, func(u *unit) error {
		u.setJobCounter(0)
		return nil
	})
	if err == nil {
		e.log.Info("job counter reset")
	}
	return err
}

// NextAvailableJobID suggests an unused id for intake
func (e *Engine) NextAvailableJobID(ctx context.Context) (string, error) {
	var id string
	err := e.run(ctx, func(u *unit) error {
		var err error
		id, err = u.nextAvailableJobID()
		return err
	})
	return id, err
}

// GenerateNextInvoiceNumber allocates the next INV#### number
func (e *Engine) GenerateNextInvoiceNumber(ctx context.Context) (string, error) {
	var num string
	err := e.run(ctx, func(u *unit) error {
		var err error
		num, err = u.nextDocumentNumber(true)
		return err
	})
	return num, err
}

// GenerateNextEstimateNumber allocates the next EST#### number
func (e *Engine) GenerateNextEstimateNumber(ctx context.Context) (string, error) {
	var num string
	err := e.run(ctx, func(u *unit) error {
		var err error
		num, err = u.nextDocumentNumber(false)
		return err
	})
	return num, err
}

func (u *unit) nextDocumentNumber(invoice bool) (string, error) {
	c, err := u.invoiceCounter()
	if err != nil {
		return "", err
	}
	var num string
	if invoice {
		c.Invoice++
		num = fmt.Sprintf("INV%04d", c.Invoice)
	} else {
		c.Estimate++
		num = fmt.Sprintf("EST%04d", c.Estimate)
	}
	if err := u.put(storage.KeyInvoiceCounter, c); err != nil {
		return "", err
	}
	u.e.log.Debug("document number allocated", zap.String("number", num))
	return num, nil
}
