package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/storage"
	"go.uber.org/zap"
)

// BulkResult is the outcome of a bulk or cascading operation. Failures are
// reported in Error instead of being returned.
type BulkResult struct {
	Success       bool     `json:"success"`
	Count         int      `json:"count"`
	ClearedItems  []string `json:"clearedItems,omitempty"`
	DeletedJobIDs []string `json:"deletedJobIds,omitempty"`
	Error         string   `json:"error,omitempty"`
}

const autoSyncNote = "Auto-synced from hard disk record"

// bulk runs fn as one commit unit and folds any failure into the result
func (e *Engine) bulk(ctx context.Context, op string, fn func(u *unit, r *BulkResult) error) BulkResult {
	var r BulkResult
	err := e.run(ctx, func(u *unit) error {
		return fn(u, &r)
	})
	if err != nil {
		e.log.Error("bulk operation failed", zap.String("op", op), zap.Error(err))
		return BulkResult{Error: err.Error()}
	}
	r.Success = true
	e.log.Info("bulk operation done", zap.String("op", op), zap.Int("count", r.Count))
	return r
}

// ClearAllRecordsForFreshStart wipes every job-related collection and both
// counters. Company details, terms templates and the password are kept.
func (e *Engine) ClearAllRecordsForFreshStart(ctx context.Context) BulkResult {
	r := e.bulk(ctx, "fresh_start", func(u *unit, r *BulkResult) error {
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
		backups, err := u.backups()
		if err != nil {
			return err
		}
		invoices, err := u.invoices()
		if err != nil {
			return err
		}
		estimates, err := u.estimates()
		if err != nil {
			return err
		}

		wipe := []struct {
			key   string
			count int
			label string
		}{
			{storage.KeyHardDiskRecords, len(disks), "Hard Disk Records"},
			{storage.KeyInwardRecords, len(inwards), "Inward Records"},
			{storage.KeyOutwardRecords, len(outwards), "Outward Records"},
			{storage.KeyBackupJobData, len(backups), "Business Analytics Records"},
			{storage.KeyGeneratedInvoices, len(invoices), "Generated Invoices"},
			{storage.KeyGeneratedEstimates, len(estimates), "Generated Estimates"},
		}
		items := []string{}
		for _, w := range wipe {
			if w.count == 0 {
				continue
			}
			u.remove(w.key)
			items = append(items, fmt.Sprintf("%d %s", w.count, w.label))
			r.Count += w.count
		}
		// delivery reports are derived from the HardDisk collection
		if len(disks) > 0 {
			items = append(items, fmt.Sprintf("%d Delivery Reports (derived data)", len(disks)))
		}

		u.remove(storage.KeyJobCounter)
		items = append(items, "Job ID Counter Reset")
		u.remove(storage.KeyInvoiceCounter)
		items = append(items, "Invoice Counter Reset")

		r.ClearedItems = items
		return nil
	})
	if r.Success {
		e.notify("records.cleared")
	}
	return r
}

// dropJobs removes every record of the given jobs from the job collections
// and, when orphan purging is enabled, from documents and the customer
// directory
func (u *unit) dropJobs(jobIDs map[string]bool) error {
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
	backups, err := u.backups()
	if err != nil {
		return err
	}

	disks = filterJobs(disks, jobIDs, func(r models.HardDiskRecord) string { return r.JobID })
	if err := u.put(storage.KeyHardDiskRecords, disks); err != nil {
		return err
	}
	if err := u.put(storage.KeyInwardRecords, filterJobs(inwards, jobIDs, func(r models.InwardRecord) string { return r.JobID })); err != nil {
		return err
	}
	if err := u.put(storage.KeyOutwardRecords, filterJobs(outwards, jobIDs, func(r models.OutwardRecord) string { return r.JobID })); err != nil {
		return err
	}
	if err := u.put(storage.KeyBackupJobData, filterJobs(backups, jobIDs, func(r models.BackupJobData) string { return r.JobID })); err != nil {
		return err
	}

	if !u.e.opts.PurgeOrphans {
		return nil
	}
	return u.purgeOrphans(disks, jobIDs)
}

func (u *unit) purgeOrphans(remaining []models.HardDiskRecord, jobIDs map[string]bool) error {
	invoices, err := u.invoices()
	if err != nil {
		return err
	}
	estimates, err := u.estimates()
	if err != nil {
		return err
	}
	customers, err := u.customers()
	if err != nil {
		return err
	}

	if err := u.put(storage.KeyGeneratedInvoices, filterJobs(invoices, jobIDs, func(d models.GeneratedInvoice) string { return d.JobID })); err != nil {
		return err
	}
	if err := u.put(storage.KeyGeneratedEstimates, filterJobs(estimates, jobIDs, func(d models.GeneratedEstimate) string { return d.JobID })); err != nil {
		return err
	}

	kept := customers[:0]
	for _, c := range customers {
		for _, hd := range remaining {
			if customerMatches(c, hd.CustomerName, hd.PhoneNumber) {
				kept = append(kept, c)
				break
			}
		}
	}
	if removed := len(customers) - len(kept); removed > 0 {
		u.e.log.Info("purged orphan customers", zap.Int("count", removed))
	}
	return u.put(storage.KeyMasterCustomers, kept)
}

func filterJobs[T any](list []T, drop map[string]bool, jobID func(T) string) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if !drop[jobID(v)] {
			out = append(out, v)
		}
	}
	return out
}

// DeleteJobIDFromAllRecords removes the job from HardDisk, Inward, Outward
// and BackupJobData in one commit
func (e *Engine) DeleteJobIDFromAllRecords(ctx context.Context, jobID string) BulkResult {
	r := e.bulk(ctx, "delete_job", func(u *unit, r *BulkResult) error {
		r.DeletedJobIDs = []string{jobID}
		r.Count = 1
		return u.dropJobs(map[string]bool{jobID: true})
	})
	if r.Success {
		e.notify("job.deleted", jobID)
	}
	return r
}

// DeleteJob is the guarded delete used by the API. Auto-generated ids are
// rejected before anything is written.
func (e *Engine) DeleteJob(ctx context.Context, jobID string) (BulkResult, error) {
	if IsAutoGeneratedJobID(jobID) {
		return BulkResult{Error: ErrImmutableJobID.Error()}, ErrImmutableJobID
	}
	return e.DeleteJobIDFromAllRecords(ctx, jobID), nil
}

// DeleteSelectedBackupJobData deletes the given backup rows and cascades to
// every record of the jobs they reference
func (e *Engine) DeleteSelectedBackupJobData(ctx context.Context, ids []int64) BulkResult {
	selected := make(map[int64]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	r := e.bulk(ctx, "delete_selected_backup", func(u *unit, r *BulkResult) error {
		backups, err := u.backups()
		if err != nil {
			return err
		}
		jobIDs := make(map[string]bool)
		deleted := []string{}
		kept := make([]models.BackupJobData, 0, len(backups))
		for _, b := range backups {
			if !selected[b.ID] {
				kept = append(kept, b)
				continue
			}
			deleted = append(deleted, b.JobID)
			jobIDs[b.JobID] = true
		}
		if err := u.put(storage.KeyBackupJobData, kept); err != nil {
			return err
		}
		r.Count = len(deleted)
		r.DeletedJobIDs = deleted
		return u.dropJobs(jobIDs)
	})
	if r.Success {
		e.notify("job.deleted", r.DeletedJobIDs...)
	}
	return r
}

// AutoSyncBackupJobData appends a backup row for every job that has none.
// Existing rows are never touched.
func (e *Engine) AutoSyncBackupJobData(ctx context.Context) BulkResult {
	return e.bulk(ctx, "auto_sync_backup", func(u *unit, r *BulkResult) error {
		disks, err := u.hardDisks()
		if err != nil {
			return err
		}
		backups, err := u.backups()
		if err != nil {
			return err
		}
		have := make(map[string]bool, len(backups))
		for _, b := range backups {
			have[b.JobID] = true
		}
		for _, hd := range disks {
			if have[hd.JobID] {
				continue
			}
			status := hd.Status
			if !status.Valid() {
				status = models.StatusPending
			}
			backups = append(backups, models.BackupJobData{
				ID:              e.ids.Next(),
				JobID:           hd.JobID,
				CustomerName:    hd.CustomerName,
				PhoneNumber:     hd.PhoneNumber,
				DeviceInfo:      hd.DeviceInfo(),
				SerialNumber:    hd.SerialNumber,
				Complaint:       hd.Complaint,
				ReceivedDate:    hd.ReceivedDate,
				EstimatedAmount: models.CopyAmount(hd.EstimatedAmount),
				Status:          status,
				CreatedAt:       hd.CreatedAt,
				Notes:           autoSyncNote,
			})
			have[hd.JobID] = true
			r.Count++
		}
		return u.put(storage.KeyBackupJobData, backups)
	})
}

// GetBackupJobData lists the analytics snapshot rows
func (e *Engine) GetBackupJobData(ctx context.Context) ([]models.BackupJobData, error) {
	var out []models.BackupJobData
	err := e.read(ctx, func(u *unit) error {
		var err error
		out, err = u.backups()
		return err
	})
	return out, err
}

// AddBackupJobData appends one row with a fresh id and creation time
func (e *Engine) AddBackupJobData(ctx context.Context, row models.BackupJobData) (models.BackupJobData, error) {
	if row.Status != "" && !row.Status.Valid() {
		return row, invalidStatus(row.Status)
	}
	err := e.run(ctx, func(u *unit) error {
		backups, err := u.backups()
		if err != nil {
			return err
		}
		row.ID = e.ids.Next()
		row.CreatedAt = e.timestamp()
		return u.put(storage.KeyBackupJobData, append(backups, row))
	})
	return row, err
}

// ExportBackupJobData wraps the backup collection for download
func (e *Engine) ExportBackupJobData(ctx context.Context) (models.BackupJobDataExport, error) {
	rows, err := e.GetBackupJobData(ctx)
	if err != nil {
		return models.BackupJobDataExport{}, err
	}
	return models.BackupJobDataExport{
		BackupJobData: rows,
		ExportDate:    e.timestamp(),
		TotalRecords:  len(rows),
	}, nil
}

// ImportBackupJobData appends rows from a loosely typed JSON document. Both a
// bare array and an export file are accepted. Missing fields get defaults
// and existing rows are never overwritten.
func (e *Engine) ImportBackupJobData(ctx context.Context, raw []byte) BulkResult {
	items, err := decodeBackupItems(raw)
	if err != nil {
		e.log.Warn("backup import rejected", zap.Error(err))
		return BulkResult{Error: err.Error()}
	}

	stamp := e.now().UnixMilli()
	return e.bulk(ctx, "import_backup", func(u *unit, r *BulkResult) error {
		backups, err := u.backups()
		if err != nil {
			return err
		}
		for i, item := range items {
			backups = append(backups, e.importedRow(item, stamp, i))
		}
		r.Count = len(items)
		return u.put(storage.KeyBackupJobData, backups)
	})
}

func decodeBackupItems(raw []byte) ([]map[string]any, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON file format: %w", err)
	}
	if obj, ok := doc.(map[string]any); ok {
		doc = obj["backupJobData"]
		if doc == nil {
			return []map[string]any{}, nil
		}
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, errors.New("backup data must be an array")
	}
	items := make([]map[string]any, 0, len(list))
	for i, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("backup row %d is not an object", i)
		}
		items = append(items, m)
	}
	return items, nil
}

func (e *Engine) importedRow(item map[string]any, stamp int64, i int) models.BackupJobData {
	status := models.RecordStatus(looseString(item["status"]))
	if !status.Valid() {
		status = models.StatusPending
	}
	return models.BackupJobData{
		ID:              e.ids.Next(),
		JobID:           orDefault(looseString(item["jobId"]), fmt.Sprintf("IMPORTED-%d-%d", stamp, i)),
		CustomerName:    orDefault(looseString(item["customerName"]), "Unknown Customer"),
		PhoneNumber:     looseString(item["phoneNumber"]),
		DeviceInfo:      orDefault(looseString(item["deviceInfo"]), "Unknown Device"),
		SerialNumber:    looseString(item["serialNumber"]),
		Complaint:       orDefault(looseString(item["complaint"]), "No complaint specified"),
		ReceivedDate:    orDefault(looseString(item["receivedDate"]), e.today()),
		EstimatedAmount: looseAmount(item["estimatedAmount"]),
		Status:          status,
		CreatedAt:       orDefault(looseString(item["createdAt"]), e.timestamp()),
		Notes:           looseString(item["notes"]),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func looseString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
	}
	return ""
}

func looseAmount(v any) *float64 {
	switch t := v.(type) {
	case float64:
		if t != 0 {
			return models.Amount(t)
		}
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err == nil && f != 0 {
			return models.Amount(f)
		}
	}
	return nil
}

// ClearBackupJobData removes the whole analytics collection
func (e *Engine) ClearBackupJobData(ctx context.Context) BulkResult {
	return e.bulk(ctx, "clear_backup", func(u *unit, r *BulkResult) error {
		backups, err := u.backups()
		if err != nil {
			return err
		}
		r.Count = len(backups)
		u.remove(storage.KeyBackupJobData)
		return nil
	})
}

// ClearMonthlyRevenueData drops positive amounts from the analytics rows
func (e *Engine) ClearMonthlyRevenueData(ctx context.Context) BulkResult {
	return e.bulk(ctx, "clear_revenue", func(u *unit, r *BulkResult) error {
		backups, err := u.backups()
		if err != nil {
			return err
		}
		for i := range backups {
			if a := backups[i].EstimatedAmount; a != nil && *a > 0 {
				backups[i].EstimatedAmount = nil
				r.Count++
			}
		}
		return u.put(storage.KeyBackupJobData, backups)
	})
}

// ClearAllOutwardRecords empties the Outward collection
func (e *Engine) ClearAllOutwardRecords(ctx context.Context) BulkResult {
	r := e.bulk(ctx, "clear_outward", func(u *unit, r *BulkResult) error {
		outwards, err := u.outwards()
		if err != nil {
			return err
		}
		r.Count = len(outwards)
		return u.put(storage.KeyOutwardRecords, []models.OutwardRecord{})
	})
	if r.Success {
		e.notify("records.cleared")
	}
	return r
}

// ExportAllData snapshots the job collections and both counters
func (e *Engine) ExportAllData(ctx context.Context) (models.SystemExport, error) {
	var out models.SystemExport
	err := e.read(ctx, func(u *unit) error {
		var err error
		if out.HardDiskRecords, err = u.hardDisks(); err != nil {
			return err
		}
		if out.InwardRecords, err = u.inwards(); err != nil {
			return err
		}
		if out.OutwardRecords, err = u.outwards(); err != nil {
			return err
		}
		c, err := u.invoiceCounter()
		if err != nil {
			return err
		}
		n, err := u.jobCounter()
		if err != nil {
			return err
		}
		out.InvoiceCounter = &c
		out.JobCounter = &n
		return nil
	})
	out.ExportDate = e.timestamp()
	return out, err
}

// ImportData replaces every collection present in data. Absent collections
// and a zero job counter are left untouched.
func (e *Engine) ImportData(ctx context.Context, data models.SystemExport) BulkResult {
	r := e.bulk(ctx, "import_all", func(u *unit, r *BulkResult) error {
		if data.HardDiskRecords != nil {
			r.Count += len(data.HardDiskRecords)
			if err := u.put(storage.KeyHardDiskRecords, data.HardDiskRecords); err != nil {
				return err
			}
		}
		if data.InwardRecords != nil {
			r.Count += len(data.InwardRecords)
			if err := u.put(storage.KeyInwardRecords, data.InwardRecords); err != nil {
				return err
			}
		}
		if data.OutwardRecords != nil {
			r.Count += len(data.OutwardRecords)
			if err := u.put(storage.KeyOutwardRecords, data.OutwardRecords); err != nil {
				return err
			}
		}
		if data.InvoiceCounter != nil {
			if err := u.put(storage.KeyInvoiceCounter, data.InvoiceCounter); err != nil {
				return err
			}
		}
		if data.JobCounter != nil && *data.JobCounter != 0 {
			u.setJobCounter(*data.JobCounter)
		}
		return nil
	})
	if r.Success {
		e.notify("records.imported")
	}
	return r
}

// ClearAllData removes every key the shop stores, settings included. The
// operator password is reset to the engine default in the same commit.
func (e *Engine) ClearAllData(ctx context.Context) BulkResult {
	return e.bulk(ctx, "clear_all", func(u *unit, r *BulkResult) error {
		for _, key := range storage.AllKeys {
			u.remove(key)
		}
		r.Count = len(storage.AllKeys)
		return u.putPassword(e.defaultPassword)
	})
}
