package sync

import (
	"context"

	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/storage"
	"go.uber.org/zap"
)

const outwardStatusNote = "Auto-created when status changed to completed"

// UpdateRecordStatus writes status onto every record of the job so each
// collection reads correctly on its own. Completing a job without an Outward
// record creates one that is already completed.
func (e *Engine) UpdateRecordStatus(ctx context.Context, jobID string, status models.RecordStatus) error {
	if !status.Valid() {
		return invalidStatus(status)
	}
	completed := status == models.StatusCompleted

	var created bool
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

		if h >= 0 {
			disks[h].Status = status
			disks[h].IsClosed = completed
			if err := u.put(storage.KeyHardDiskRecords, disks); err != nil {
				return err
			}
		}
		if i >= 0 {
			inwards[i].Status = status
			inwards[i].IsDelivered = completed
			if err := u.put(storage.KeyInwardRecords, inwards); err != nil {
				return err
			}
		}

		switch {
		case o >= 0:
			out := &outwards[o]
			out.Status = status
			out.IsCompleted = completed
			if completed {
				if out.CompletedDate == "" {
					out.CompletedDate = e.today()
				}
			} else {
				out.CompletedDate = ""
			}
		case completed && h >= 0:
			hd := disks[h]
			amount := truthyAmount(hd.EstimatedAmount)
			if amount == nil && i >= 0 {
				amount = truthyAmount(inwards[i].EstimatedAmount)
			}
			outwards = append(outwards, models.OutwardRecord{
				ID:              e.ids.Next(),
				JobID:           jobID,
				Date:            e.today(),
				DeliveredTo:     hd.CustomerName,
				DeliveryMode:    models.DeliveryHand,
				Notes:           outwardStatusNote,
				CustomerName:    hd.CustomerName,
				PhoneNumber:     hd.PhoneNumber,
				IsCompleted:     true,
				CompletedDate:   e.today(),
				EstimatedAmount: models.CopyAmount(amount),
				Status:          models.StatusCompleted,
			})
			created = true
		default:
			return nil
		}
		return u.put(storage.KeyOutwardRecords, outwards)
	})
	if err != nil {
		return err
	}

	e.log.Info("status updated",
		zap.String("job_id", jobID),
		zap.String("status", string(status)),
		zap.Bool("outward_created", created),
	)
	e.notify("job.status", jobID)
	return nil
}

// truthyAmount treats a missing or zero amount as unset
func truthyAmount(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}
