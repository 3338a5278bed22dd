package sync

import (
	"context"

	"github.com/google/uuid"
	"github.com/xelth-com/recoverydesk/internal/models"
)

const notYetDelivered = "Not yet delivered"

// buildMaster merges the job's three records. The HardDisk record is
// required; inward and outward may be nil.
func buildMaster(hd models.HardDiskRecord, in *models.InwardRecord, out *models.OutwardRecord) models.MasterRecordData {
	m := models.MasterRecordData{
		JobID:                 hd.JobID,
		SerialNumber:          hd.SerialNumber,
		Model:                 hd.Model,
		Capacity:              hd.Capacity,
		CustomerName:          hd.CustomerName,
		PhoneNumber:           hd.PhoneNumber,
		ReceivedDate:          hd.ReceivedDate,
		Complaint:             hd.Complaint,
		EstimatedAmount:       models.CopyAmount(hd.EstimatedAmount),
		EstimatedDeliveryDate: hd.EstimatedDeliveryDate,
		IsClosed:              hd.IsClosed,
	}
	if hd.DeliveryDetails != nil {
		d := *hd.DeliveryDetails
		m.DeliveryDetails = &d
		m.DeliveryMode = d.DeliveryMode
	}

	if in != nil {
		if a := truthyAmount(in.EstimatedAmount); a != nil {
			m.EstimatedAmount = models.CopyAmount(a)
		}
		if in.EstimatedDeliveryDate != "" {
			m.EstimatedDeliveryDate = in.EstimatedDeliveryDate
		}
		m.InwardDate = in.Date
		m.InwardNotes = in.Notes
		m.IsDelivered = in.IsDelivered
	}
	if out != nil {
		if out.DeliveryMode != "" {
			m.DeliveryMode = out.DeliveryMode
		}
		m.OutwardDate = out.Date
		m.DeliveredTo = out.DeliveredTo
		m.CompletedDate = out.CompletedDate
		m.IsDelivered = m.IsDelivered || out.IsCompleted
	}

	m.Status = mergedStatus(hd, in, out)
	return m
}

// mergedStatus applies the status priority: HardDisk, Outward, Inward, then
// a value derived from the delivery flags
func mergedStatus(hd models.HardDiskRecord, in *models.InwardRecord, out *models.OutwardRecord) models.RecordStatus {
	switch {
	case hd.Status.Valid():
		return hd.Status
	case out != nil && out.Status.Valid():
		return out.Status
	case in != nil && in.Status.Valid():
		return in.Status
	case hd.IsClosed || (out != nil && out.IsCompleted):
		return models.StatusCompleted
	case out != nil:
		return models.StatusInProgress
	default:
		return models.StatusPending
	}
}

// masterRecords builds the merged view of every HardDisk record
func (u *unit) masterRecords() ([]models.MasterRecordData, error) {
	disks, err := u.hardDisks()
	if err != nil {
		return nil, err
	}
	inwards, err := u.inwards()
	if err != nil {
		return nil, err
	}
	outwards, err := u.outwards()
	if err != nil {
		return nil, err
	}

	inByJob := make(map[string]*models.InwardRecord, len(inwards))
	for i := range inwards {
		if _, ok := inByJob[inwards[i].JobID]; !ok {
			inByJob[inwards[i].JobID] = &inwards[i]
		}
	}
	outByJob := make(map[string]*models.OutwardRecord, len(outwards))
	for i := range outwards {
		if _, ok := outByJob[outwards[i].JobID]; !ok {
			outByJob[outwards[i].JobID] = &outwards[i]
		}
	}

	out := make([]models.MasterRecordData, 0, len(disks))
	for _, hd := range disks {
		out = append(out, buildMaster(hd, inByJob[hd.JobID], outByJob[hd.JobID]))
	}
	return out, nil
}

// GetMasterRecordData returns the merged view of one job, or nil when the job
// has no HardDisk record
func (e *Engine) GetMasterRecordData(ctx context.Context, jobID string) (*models.MasterRecordData, error) {
	var m *models.MasterRecordData
	err := e.read(ctx, func(u *unit) error {
		disks, err := u.hardDisks()
		if err != nil {
			return err
		}
		h := findHardDisk(disks, jobID)
		if h < 0 {
			return nil
		}
		inwards, err := u.inwards()
		if err != nil {
			return err
		}
		outwards, err := u.outwards()
		if err != nil {
			return err
		}

		var in *models.InwardRecord
		if i := findInward(inwards, jobID); i >= 0 {
			in = &inwards[i]
		}
		var out *models.OutwardRecord
		if o := findOutward(outwards, jobID); o >= 0 {
			out = &outwards[o]
		}
		merged := buildMaster(disks[h], in, out)
		m = &merged
		return nil
	})
	return m, err
}

// GetAllRecordsWithStatus returns the merged view of every job
func (e *Engine) GetAllRecordsWithStatus(ctx context.Context) ([]models.MasterRecordData, error) {
	var out []models.MasterRecordData
	err := e.read(ctx, func(u *unit) error {
		var err error
		out, err = u.masterRecords()
		return err
	})
	return out, err
}

// GetDeliveryReports projects every job into a delivery report row.
// Row ids are fresh on every call.
func (e *Engine) GetDeliveryReports(ctx context.Context) ([]models.DeliveryReport, error) {
	records, err := e.GetAllRecordsWithStatus(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]models.DeliveryReport, 0, len(records))
	for _, r := range records {
		date := r.OutwardDate
		if date == "" {
			date = r.ReceivedDate
		}
		deliveredTo := r.DeliveredTo
		if deliveredTo == "" {
			deliveredTo = notYetDelivered
		}
		reports = append(reports, models.DeliveryReport{
			ID:              uuid.NewString(),
			JobID:           r.JobID,
			Date:            date,
			DeliveredTo:     deliveredTo,
			DeliveryMode:    r.DeliveryMode,
			CustomerName:    r.CustomerName,
			PhoneNumber:     r.PhoneNumber,
			IsCompleted:     r.Status == models.StatusCompleted,
			CompletedDate:   r.CompletedDate,
			InwardDate:      r.InwardDate,
			DeviceInfo:      r.Model + " " + r.Capacity,
			SerialNumber:    r.SerialNumber,
			EstimatedAmount: r.EstimatedAmount,
			Status:          r.Status,
		})
	}
	return reports, nil
}
