package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/storage"
	"go.uber.org/zap"
)

// unit buffers reads and writes of one operation so the collections it
// touches are flushed together
type unit struct {
	ctx context.Context
	e   *Engine

	cache   map[string][]byte // nil value means absent
	pending map[string]storage.Op
	order   []string
}

func (e *Engine) begin(ctx context.Context) *unit {
	return &unit{
		ctx:     ctx,
		e:       e,
		cache:   make(map[string][]byte),
		pending: make(map[string]storage.Op),
	}
}

func (u *unit) get(key string) ([]byte, bool, error) {
	if op, ok := u.pending[key]; ok {
		return op.Value, !op.IsDelete(), nil
	}
	if v, ok := u.cache[key]; ok {
		return v, v != nil, nil
	}
	v, ok, err := u.e.store.Get(u.ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok {
		v = nil
	}
	u.cache[key] = v
	return v, ok, nil
}

func (u *unit) stage(op storage.Op) {
	if _, ok := u.pending[op.Key]; !ok {
		u.order = append(u.order, op.Key)
	}
	u.pending[op.Key] = op
}

func (u *unit) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	u.stage(storage.Op{Key: key, Value: data})
	return nil
}

func (u *unit) remove(key string) {
	u.stage(storage.Op{Key: key})
}

func (u *unit) commit() error {
	if len(u.order) == 0 {
		return nil
	}
	ops := make([]storage.Op, 0, len(u.order))
	for _, key := range u.order {
		ops = append(ops, u.pending[key])
	}
	return storage.Apply(u.ctx, u.e.store, ops)
}

// loadList decodes a JSON array collection. Unreadable data is treated as
// an empty collection.
func loadList[T any](u *unit, key string) ([]T, error) {
	raw, ok, err := u.get(key)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if !ok || len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		u.e.log.Warn("discarding unreadable collection", zap.String("key", key), zap.Error(err))
		return []T{}, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (u *unit) hardDisks() ([]models.HardDiskRecord, error) {
	return loadList[models.HardDiskRecord](u, storage.KeyHardDiskRecords)
}

func (u *unit) inwards() ([]models.InwardRecord, error) {
	return loadList[models.InwardRecord](u, storage.KeyInwardRecords)
}

func (u *unit) outwards() ([]models.OutwardRecord, error) {
	return loadList[models.OutwardRecord](u, storage.KeyOutwardRecords)
}

func (u *unit) customers() ([]models.MasterCustomer, error) {
	return loadList[models.MasterCustomer](u, storage.KeyMasterCustomers)
}

func (u *unit) backups() ([]models.BackupJobData, error) {
	return loadList[models.BackupJobData](u, storage.KeyBackupJobData)
}

func (u *unit) invoices() ([]models.GeneratedInvoice, error) {
	return loadList[models.GeneratedInvoice](u, storage.KeyGeneratedInvoices)
}

func (u *unit) estimates() ([]models.GeneratedEstimate, error) {
	return loadList[models.GeneratedEstimate](u, storage.KeyGeneratedEstimates)
}

func (u *unit) jobCounter() (int, error) {
	raw, ok, err := u.get(storage.KeyJobCounter)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		u.e.log.Warn("resetting unreadable job counter", zap.String("value", string(raw)))
		return 0, nil
	}
	return n, nil
}

func (u *unit) setJobCounter(n int) {
	u.stage(storage.Op{Key: storage.KeyJobCounter, Value: []byte(strconv.Itoa(n))})
}

func (u *unit) invoiceCounter() (models.InvoiceCounter, error) {
	var c models.InvoiceCounter
	raw, ok, err := u.get(storage.KeyInvoiceCounter)
	if err != nil || !ok {
		return c, err
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		u.e.log.Warn("resetting unreadable invoice counter", zap.Error(err))
		return models.InvoiceCounter{}, nil
	}
	return c, nil
}

// job lookup helpers return the index or -1

func findHardDisk(list []models.HardDiskRecord, jobID string) int {
	for i := range list {
		if list[i].JobID == jobID {
			return i
		}
	}
	return -1
}

func findInward(list []models.InwardRecord, jobID string) int {
	for i := range list {
		if list[i].JobID == jobID {
			return i
		}
	}
	return -1
}

func findOutward(list []models.OutwardRecord, jobID string) int {
	for i := range list {
		if list[i].JobID == jobID {
			return i
		}
	}
	return -1
}
