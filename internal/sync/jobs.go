package sync

import (
	"context"
	"strings"

	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/storage"
	"go.uber.org/zap"
)

const (
	inwardAutoNote  = "Auto-created from dashboard. Complaint: "
	outwardAutoNote = "Auto-created from Hard Disk record"
)

// saveWithSync upserts the HardDisk record and propagates it to the
// customer directory and the job's Inward and Outward records
func (u *unit) saveWithSync(rec models.HardDiskRecord) (bool, error) {
	disks, err := u.hardDisks()
	if err != nil {
		return false, err
	}
	idx := findHardDisk(disks, rec.JobID)
	isNew := idx < 0
	if isNew {
		disks = append(disks, rec)
	} else {
		disks[idx] = rec
	}
	if err := u.put(storage.KeyHardDiskRecords, disks); err != nil {
		return false, err
	}

	if err := u.upsertCustomer(rec); err != nil {
		return false, err
	}

	inwards, err := u.inwards()
	if err != nil {
		return false, err
	}
	outwards, err := u.outwards()
	if err != nil {
		return false, err
	}

	if isNew {
		inwards = append(inwards, u.newInward(rec))
		outwards = append(outwards, u.newOutward(rec))
	} else {
		if i := findInward(inwards, rec.JobID); i >= 0 {
			inwards[i].EstimatedAmount = models.CopyAmount(rec.EstimatedAmount)
			inwards[i].EstimatedDeliveryDate = rec.EstimatedDeliveryDate
			if rec.ReceivedDate != "" {
				inwards[i].Date = rec.ReceivedDate
			}
		}
		if o := findOutward(outwards, rec.JobID); o >= 0 {
			outwards[o].EstimatedAmount = models.CopyAmount(rec.EstimatedAmount)
		}
	}

	if err := u.put(storage.KeyInwardRecords, inwards); err != nil {
		return false, err
	}
	if err := u.put(storage.KeyOutwardRecords, outwards); err != nil {
		return false, err
	}
	return isNew, nil
}

func (u *unit) newInward(rec models.HardDiskRecord) models.InwardRecord {
	date := rec.ReceivedDate
	if date == "" {
		date, _, _ = strings.Cut(rec.CreatedAt, "T")
	}
	if date == "" {
		date = u.e.today()
	}
	status := rec.Status
	if !status.Valid() {
		status = models.StatusPending
	}
	return models.InwardRecord{
		ID:                    u.e.ids.Next(),
		JobID:                 rec.JobID,
		Date:                  date,
		ReceivedFrom:          rec.CustomerName,
		Notes:                 inwardAutoNote + rec.Complaint,
		CustomerName:          rec.CustomerName,
		PhoneNumber:           rec.PhoneNumber,
		EstimatedAmount:       models.CopyAmount(rec.EstimatedAmount),
		EstimatedDeliveryDate: rec.EstimatedDeliveryDate,
		Status:                status,
	}
}

func (u *unit) newOutward(rec models.HardDiskRecord) models.OutwardRecord {
	status := rec.Status
	if !status.Valid() {
		status = models.StatusInProgress
	}
	return models.OutwardRecord{
		ID:              u.e.ids.Next(),
		JobID:           rec.JobID,
		Date:            u.e.today(),
		DeliveredTo:     rec.CustomerName,
		DeliveryMode:    models.DeliveryHand,
		Notes:           outwardAutoNote,
		CustomerName:    rec.CustomerName,
		PhoneNumber:     rec.PhoneNumber,
		EstimatedAmount: models.CopyAmount(rec.EstimatedAmount),
		Status:          status,
	}
}

// SaveHardDiskRecordWithSync stores rec and keeps the job's other records
// in step. New jobs get an Inward and an Outward record. For existing jobs
// only the estimate fields are propagated.
func (e *Engine) SaveHardDiskRecordWithSync(ctx context.Context, rec models.HardDiskRecord) error {
	if rec.Status != "" && !rec.Status.Valid() {
		return invalidStatus(rec.Status)
	}
	var isNew bool
	err := e.run(ctx, func(u *unit) error {
		var err error
		isNew, err = u.saveWithSync(rec)
		return err
	})
	if err != nil {
		return err
	}
	e.log.Info("hard disk record saved", zap.String("job_id", rec.JobID), zap.Bool("new", isNew))
	e.notify("job.saved", rec.JobID)
	return nil
}

// CreateJob is the intake entry point. An empty job id is filled with the
// next free id, and the job counter only advances when the saved id is the
// counter's own next value.
func (e *Engine) CreateJob(ctx context.Context, rec models.HardDiskRecord) (models.HardDiskRecord, error) {
	rec.JobID = strings.TrimSpace(rec.JobID)
	if rec.Status != "" && !rec.Status.Valid() {
		return rec, invalidStatus(rec.Status)
	}

	err := e.run(ctx, func(u *unit) error {
		if rec.JobID == "" {
			id, err := u.nextAvailableJobID()
			if err != nil {
				return err
			}
			rec.JobID = id
		}

		disks, err := u.hardDisks()
		if err != nil {
			return err
		}
		if findHardDisk(disks, rec.JobID) >= 0 {
			return ErrDuplicateJobID
		}

		if rec.CreatedAt == "" {
			rec.CreatedAt = e.timestamp()
		}
		if rec.ReceivedDate == "" {
			rec.ReceivedDate = e.today()
		}
		rec.IsClosed = false

		if err := u.advanceCounterFor(rec.JobID); err != nil {
			return err
		}
		_, err = u.saveWithSync(rec)
		return err
	})
	if err != nil {
		return rec, err
	}

	e.log.Info("job created", zap.String("job_id", rec.JobID))
	e.notify("job.created", rec.JobID)
	return rec, nil
}

// UpdateJob is the edit entry point. Auto-generated ids are immutable.
// Delivery bookkeeping and status are kept when the update leaves them out.
func (e *Engine) UpdateJob(ctx context.Context, rec models.HardDiskRecord) (models.HardDiskRecord, error) {
	if IsAutoGeneratedJobID(rec.JobID) {
		return rec, ErrImmutableJobID
	}
	if rec.Status != "" && !rec.Status.Valid() {
		return rec, invalidStatus(rec.Status)
	}

	err := e.run(ctx, func(u *unit) error {
		disks, err := u.hardDisks()
		if err != nil {
			return err
		}
		idx := findHardDisk(disks, rec.JobID)
		if idx < 0 {
			return ErrJobNotFound
		}
		prev := disks[idx]
		rec.CreatedAt = prev.CreatedAt
		if rec.DeliveryDetails == nil {
			rec.DeliveryDetails = prev.DeliveryDetails
			rec.IsClosed = rec.IsClosed || prev.IsClosed
		}
		if rec.Status == "" {
			rec.Status = prev.Status
		}
		_, err = u.saveWithSync(rec)
		return err
	})
	if err != nil {
		return rec, err
	}

	e.log.Info("job updated", zap.String("job_id", rec.JobID))
	e.notify("job.updated", rec.JobID)
	return rec, nil
}

// GetHardDiskRecord returns nil when the job has no intake record
func (e *Engine) GetHardDiskRecord(ctx context.Context, jobID string) (*models.HardDiskRecord, error) {
	var out *models.HardDiskRecord
	err := e.read(ctx, func(u *unit) error {
		disks, err := u.hardDisks()
		if err != nil {
			return err
		}
		if i := findHardDisk(disks, jobID); i >= 0 {
			out = &disks[i]
		}
		return nil
	})
	return out, err
}

func (u *unit) updateInwardEstimate(jobID string, amount float64) (bool, error) {
	inwards, err := u.inwards()
	if err != nil {
		return false, err
	}
	i := findInward(inwards, jobID)
	if i < 0 {
		return false, nil
	}
	inwards[i].ManualAmount = models.Amount(amount)
	inwards[i].EstimatedAmount = models.Amount(amount)
	return true, u.put(storage.KeyInwardRecords, inwards)
}

// UpdateInwardWithEstimate makes amount the job's authoritative estimate.
// A job without an Inward record is left unchanged.
func (e *Engine) UpdateInwardWithEstimate(ctx context.Context, jobID string, amount float64) error {
	var found bool
	err := e.run(ctx, func(u *unit) error {
		var err error
		found, err = u.updateInwardEstimate(jobID, amount)
		return err
	})
	if err != nil {
		return err
	}
	if found {
		e.log.Info("inward estimate updated", zap.String("job_id", jobID), zap.Float64("amount", amount))
		e.notify("job.estimated", jobID)
	}
	return nil
}

// MarkItemAsDeliveredWithDetails records the hand-back on all three records.
// Details are validated before anything is written.
func (e *Engine) MarkItemAsDeliveredWithDetails(ctx context.Context, jobID string, details models.DeliveryDetails) error {
	if details.DeliveryMode == "" {
		details.DeliveryMode = models.DeliveryHand
	}
	if err := ValidateDeliveryDetails(details); err != nil {
		return err
	}
	details = details.Normalize()

	err := e.run(ctx, func(u *unit) error {
		disks, err := u.hardDisks()
		if err != nil {
			return err
		}
		inwards, err := u.inwards()
		if err != nil {
			return err
		}
		outwards, err := u.outwards()
		if err != nil {
			return err
		}

		h, i, o := findHardDisk(disks, jobID), findInward(inwards, jobID), findOutward(outwards, jobID)
		if h < 0 && i < 0 && o < 0 {
			return ErrJobNotFound
		}

		if i >= 0 {
			inwards[i].IsDelivered = true
			inwards[i].DeliveryDate = details.DeliveryDate
			if err := u.put(storage.KeyInwardRecords, inwards); err != nil {
				return err
			}
		}
		if o >= 0 {
			out := &outwards[o]
			out.IsCompleted = true
			out.CompletedDate = details.DeliveryDate
			out.DeliveryMode = details.DeliveryMode
			out.DeliveredTo = details.RecipientName
			if details.Notes != "" {
				out.Notes = details.Notes
			}
			if err := u.put(storage.KeyOutwardRecords, outwards); err != nil {
				return err
			}
		}
		if h >= 0 {
			d := details
			disks[h].IsClosed = true
			disks[h].DeliveryDetails = &d
			if err := u.put(storage.KeyHardDiskRecords, disks); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.log.Info("job delivered",
		zap.String("job_id", jobID),
		zap.String("mode", string(details.DeliveryMode)),
		zap.String("date", details.DeliveryDate),
	)
	e.notify("job.delivered", jobID)
	return nil
}

// MarkItemAsDelivered is the older Inward-only delivery mark
func (e *Engine) MarkItemAsDelivered(ctx context.Context, jobID, deliveryDate string) error {
	err := e.run(ctx, func(u *unit) error {
		inwards, err := u.inwards()
		if err != nil {
			return err
		}
		i := findInward(inwards, jobID)
		if i < 0 {
			return nil
		}
		inwards[i].IsDelivered = true
		inwards[i].DeliveryDate = deliveryDate
		return u.put(storage.KeyInwardRecords, inwards)
	})
	if err == nil {
		e.notify("job.delivered", jobID)
	}
	return err
}
