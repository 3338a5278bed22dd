package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/storage"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

const today = "2026-03-15"

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewEngine(store, zap.NewNop(), opts...), store
}

func seed(t *testing.T, s storage.Store, key string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), key, data))
}

func load[T any](t *testing.T, s storage.Store, key string) []T {
	t.Helper()
	raw, ok, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	out := []T{}
	if !ok {
		return out
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func sampleJob(jobID string) models.HardDiskRecord {
	return models.HardDiskRecord{
		JobID:        jobID,
		SerialNumber: "WD-" + jobID,
		Model:        "WD Blue",
		Capacity:     "1TB",
		Complaint:    "Not detected",
		CustomerName: "Asha Rao",
		PhoneNumber:  "9876543210",
		ReceivedDate: "2026-03-01",
		CreatedAt:    "2026-03-01T09:30:00Z",
	}
}

func TestSaveHardDiskRecordWithSync_NewJobCreatesInwardAndOutward(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	rec := sampleJob("JOB001")
	rec.EstimatedAmount = models.Amount(1000)
	rec.EstimatedDeliveryDate = "2026-03-20"
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, rec))

	inwards := load[models.InwardRecord](t, store, storage.KeyInwardRecords)
	require.Len(t, inwards, 1)
	in := inwards[0]
	assert.Equal(t, "JOB001", in.JobID)
	assert.Equal(t, models.StatusPending, in.Status)
	assert.Equal(t, "2026-03-01", in.Date)
	assert.Equal(t, "Asha Rao", in.ReceivedFrom)
	assert.Equal(t, "Auto-created from dashboard. Complaint: Not detected", in.Notes)
	require.NotNil(t, in.EstimatedAmount)
	assert.Equal(t, 1000.0, *in.EstimatedAmount)
	assert.Equal(t, "2026-03-20", in.EstimatedDeliveryDate)
	assert.False(t, in.IsDelivered)

	outwards := load[models.OutwardRecord](t, store, storage.KeyOutwardRecords)
	require.Len(t, outwards, 1)
	out := outwards[0]
	assert.Equal(t, models.StatusInProgress, out.Status)
	assert.Equal(t, models.DeliveryHand, out.DeliveryMode)
	assert.Equal(t, "Asha Rao", out.DeliveredTo)
	assert.Equal(t, today, out.Date)
	assert.Equal(t, "Auto-created from Hard Disk record", out.Notes)
	assert.NotEqual(t, in.ID, out.ID)
}

func TestSaveHardDiskRecordWithSync_InwardDateFallsBackToCreatedAt(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	rec := sampleJob("JOB001")
	rec.ReceivedDate = ""
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, rec))

	inwards := load[models.InwardRecord](t, store, storage.KeyInwardRecords)
	require.Len(t, inwards, 1)
	assert.Equal(t, "2026-03-01", inwards[0].Date)
}

func TestSaveHardDiskRecordWithSync_ResaveUpdatesEstimateOnly(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	rec := sampleJob("JOB001")
	rec.EstimatedAmount = models.Amount(1000)
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, rec))
	before := load[models.OutwardRecord](t, store, storage.KeyOutwardRecords)[0]

	rec.EstimatedAmount = models.Amount(2500)
	rec.EstimatedDeliveryDate = "2026-04-01"
	rec.ReceivedDate = "2026-03-02"
	rec.Complaint = "Clicking noise"
	rec.CustomerName = "Asha R."
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, rec))

	disks := load[models.HardDiskRecord](t, store, storage.KeyHardDiskRecords)
	require.Len(t, disks, 1)
	assert.Equal(t, "Clicking noise", disks[0].Complaint)

	inwards := load[models.InwardRecord](t, store, storage.KeyInwardRecords)
	require.Len(t, inwards, 1)
	assert.Equal(t, 2500.0, *inwards[0].EstimatedAmount)
	assert.Equal(t, "2026-04-01", inwards[0].EstimatedDeliveryDate)
	assert.Equal(t, "2026-03-02", inwards[0].Date)
	assert.Equal(t, "Asha Rao", inwards[0].ReceivedFrom)
	assert.Contains(t, inwards[0].Notes, "Not detected")

	outwards := load[models.OutwardRecord](t, store, storage.KeyOutwardRecords)
	require.Len(t, outwards, 1)
	assert.Equal(t, 2500.0, *outwards[0].EstimatedAmount)
	assert.Equal(t, before.ID, outwards[0].ID)
	assert.Equal(t, before.DeliveredTo, outwards[0].DeliveredTo)
}

func TestSaveHardDiskRecordWithSync_RejectsUnknownStatus(t *testing.T) {
	e, store := newTestEngine(t)

	rec := sampleJob("JOB001")
	rec.Status = "shipped"
	err := e.SaveHardDiskRecordWithSync(context.Background(), rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, 0, store.Len())
}

func TestMasterCustomers_UpsertByPhoneOrName(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	first := sampleJob("A-1")
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, first))

	// same name, new phone
	second := sampleJob("A-2")
	second.CustomerName = "ASHA RAO"
	second.PhoneNumber = "1112223333"
	second.CustomerState = "Kerala"
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, second))

	third := sampleJob("B-1")
	third.CustomerName = "Vikram"
	third.PhoneNumber = "5550001111"
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, third))

	customers, err := e.GetMasterCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "ASHA RAO", customers[0].Name)
	assert.Equal(t, "1112223333", customers[0].PhoneNumber)
	assert.Equal(t, "Kerala", customers[0].State)

	byPhone, err := e.GetMasterCustomerByPhone(ctx, "5550001111")
	require.NoError(t, err)
	require.NotNil(t, byPhone)
	assert.Equal(t, "Vikram", byPhone.Name)

	byName, err := e.GetMasterCustomerByName(ctx, "vikram")
	require.NoError(t, err)
	require.NotNil(t, byName)

	missing, err := e.GetMasterCustomerByPhone(ctx, "000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateJob(t *testing.T) {
	ctx := context.Background()

	t.Run("fills next id and advances counter", func(t *testing.T) {
		e, _ := newTestEngine(t)
		rec := sampleJob("")
		rec.CreatedAt = ""
		rec.ReceivedDate = ""

		created, err := e.CreateJob(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, "JOB001", created.JobID)
		assert.Equal(t, today, created.ReceivedDate)
		assert.NotEmpty(t, created.CreatedAt)

		next, err := e.PreviewNextJobID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "JOB002", next)
	})

	t.Run("custom id leaves counter alone", func(t *testing.T) {
		e, _ := newTestEngine(t)
		_, err := e.CreateJob(ctx, sampleJob("WALKIN-7"))
		require.NoError(t, err)

		next, err := e.PreviewNextJobID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "JOB001", next)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		e, _ := newTestEngine(t)
		_, err := e.CreateJob(ctx, sampleJob("WALKIN-7"))
		require.NoError(t, err)
		_, err = e.CreateJob(ctx, sampleJob("WALKIN-7"))
		assert.ErrorIs(t, err, ErrDuplicateJobID)
	})
}

func TestUpdateJob(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("WALKIN-1")))

	_, err := e.UpdateJob(ctx, sampleJob("JOB001"))
	assert.ErrorIs(t, err, ErrImmutableJobID)

	_, err = e.UpdateJob(ctx, sampleJob("WALKIN-404"))
	assert.ErrorIs(t, err, ErrJobNotFound)

	edit := sampleJob("WALKIN-1")
	edit.CreatedAt = "2030-01-01T00:00:00Z"
	edit.Model = "Seagate Barracuda"
	updated, err := e.UpdateJob(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T09:30:00Z", updated.CreatedAt)

	disks := load[models.HardDiskRecord](t, store, storage.KeyHardDiskRecords)
	require.Len(t, disks, 2)
	assert.Equal(t, "Seagate Barracuda", disks[1].Model)
}

func TestUpdateInwardWithEstimate(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))

	require.NoError(t, e.UpdateInwardWithEstimate(ctx, "JOB001", 4200))

	in := load[models.InwardRecord](t, store, storage.KeyInwardRecords)[0]
	require.NotNil(t, in.ManualAmount)
	assert.Equal(t, 4200.0, *in.ManualAmount)
	assert.Equal(t, 4200.0, *in.EstimatedAmount)

	assert.NoError(t, e.UpdateInwardWithEstimate(ctx, "NOPE", 1))
}

func TestUpdateRecordStatus_CompletedPropagates(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))

	require.NoError(t, e.UpdateRecordStatus(ctx, "JOB001", models.StatusCompleted))

	hd := load[models.HardDiskRecord](t, store, storage.KeyHardDiskRecords)[0]
	assert.True(t, hd.IsClosed)
	assert.Equal(t, models.StatusCompleted, hd.Status)

	in := load[models.InwardRecord](t, store, storage.KeyInwardRecords)[0]
	assert.True(t, in.IsDelivered)
	assert.Equal(t, models.StatusCompleted, in.Status)

	out := load[models.OutwardRecord](t, store, storage.KeyOutwardRecords)[0]
	assert.True(t, out.IsCompleted)
	assert.Equal(t, today, out.CompletedDate)
	assert.Equal(t, models.StatusCompleted, out.Status)
}

func TestUpdateRecordStatus_DatesAreUTC(t *testing.T) {
	ctx := context.Background()
	ist := time.FixedZone("IST", 5*3600+1800)
	// 2026-03-16 02:00 IST is still 2026-03-15 in UTC
	e, store := newTestEngine(t, WithClock(func() time.Time {
		return time.Date(2026, 3, 16, 2, 0, 0, 0, ist)
	}))
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))
	require.NoError(t, e.UpdateRecordStatus(ctx, "JOB001", models.StatusCompleted))

	out := load[models.OutwardRecord](t, store, storage.KeyOutwardRecords)[0]
	assert.Equal(t, "2026-03-15", out.CompletedDate)
}

func TestUpdateRecordStatus_AutoCreatesCompletedOutward(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	rec := sampleJob("JOB001")
	rec.EstimatedAmount = models.Amount(1800)
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, rec))
	require.True(t, e.ClearAllOutwardRecords(ctx).Success)

	require.NoError(t, e.UpdateRecordStatus(ctx, "JOB001", models.StatusCompleted))

	outwards := load[models.OutwardRecord](t, store, storage.KeyOutwardRecords)
	require.Len(t, outwards, 1)
	out := outwards[0]
	assert.True(t, out.IsCompleted)
	assert.Equal(t, today, out.CompletedDate)
	assert.Equal(t, "Asha Rao", out.DeliveredTo)
	assert.Equal(t, "Auto-created when status changed to completed", out.Notes)
	require.NotNil(t, out.EstimatedAmount)
	assert.Equal(t, 1800.0, *out.EstimatedAmount)
}

func TestUpdateRecordStatus_AutoCreatedAmountFallsBackToInward(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))
	require.NoError(t, e.UpdateInwardWithEstimate(ctx, "JOB001", 900))
	require.True(t, e.ClearAllOutwardRecords(ctx).Success)

	require.NoError(t, e.UpdateRecordStatus(ctx, "JOB001", models.StatusCompleted))

	out := load[models.OutwardRecord](t, store, storage.KeyOutwardRecords)[0]
	require.NotNil(t, out.EstimatedAmount)
	assert.Equal(t, 900.0, *out.EstimatedAmount)
}

func TestUpdateRecordStatus_LeavingCompletedClearsDate(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))
	require.NoError(t, e.UpdateRecordStatus(ctx, "JOB001", models.StatusCompleted))

	require.NoError(t, e.UpdateRecordStatus(ctx, "JOB001", models.StatusInProgress))

	out := load[models.OutwardRecord](t, store, storage.KeyOutwardRecords)[0]
	assert.False(t, out.IsCompleted)
	assert.Empty(t, out.CompletedDate)
	hd := load[models.HardDiskRecord](t, store, storage.KeyHardDiskRecords)[0]
	assert.False(t, hd.IsClosed)
}

func TestUpdateRecordStatus_Errors(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	err := e.UpdateRecordStatus(ctx, "JOB001", "archived")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	err = e.UpdateRecordStatus(ctx, "JOB404", models.StatusCompleted)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestValidateDeliveryDetails(t *testing.T) {
	courier := models.DeliveryDetails{
		DeliveryDate:  today,
		DeliveryMode:  models.DeliveryCourier,
		RecipientName: "Asha Rao",
	}
	err := ValidateDeliveryDetails(courier)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"Tracking number is required for courier/postal delivery",
		"Courier/postal company is required",
	}, verr.Messages())

	hand := courier
	hand.DeliveryMode = models.DeliveryHand
	assert.NoError(t, ValidateDeliveryDetails(hand))

	err = ValidateDeliveryDetails(models.DeliveryDetails{DeliveryMode: models.DeliveryPostal, RecipientName: "  "})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"Delivery date is required",
		"Recipient name is required",
		"Tracking number is required for courier/postal delivery",
		"Courier/postal company is required",
	}, verr.Messages())

	err = ValidateDeliveryDetails(models.DeliveryDetails{DeliveryDate: today, DeliveryMode: "Drone", RecipientName: "A"})
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "deliveryMode", verr.Fields[0].Field)
}

func TestMarkItemAsDeliveredWithDetails(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))

	t.Run("invalid details write nothing", func(t *testing.T) {
		err := e.MarkItemAsDeliveredWithDetails(ctx, "JOB001", models.DeliveryDetails{
			DeliveryDate:  today,
			DeliveryMode:  models.DeliveryCourier,
			RecipientName: "Asha",
		})
		require.Error(t, err)
		hd := load[models.HardDiskRecord](t, store, storage.KeyHardDiskRecords)[0]
		assert.False(t, hd.IsClosed)
		assert.Nil(t, hd.DeliveryDetails)
	})

	t.Run("courier delivery", func(t *testing.T) {
		err := e.MarkItemAsDeliveredWithDetails(ctx, "JOB001", models.DeliveryDetails{
			DeliveryDate:   "2026-03-14",
			DeliveryMode:   models.DeliveryCourier,
			RecipientName:  " Ravi ",
			CourierNumber:  "BD123",
			CourierCompany: "BlueDart",
		})
		require.NoError(t, err)

		in := load[models.InwardRecord](t, store, storage.KeyInwardRecords)[0]
		assert.True(t, in.IsDelivered)
		assert.Equal(t, "2026-03-14", in.DeliveryDate)

		out := load[models.OutwardRecord](t, store, storage.KeyOutwardRecords)[0]
		assert.True(t, out.IsCompleted)
		assert.Equal(t, "2026-03-14", out.CompletedDate)
		assert.Equal(t, models.DeliveryCourier, out.DeliveryMode)
		assert.Equal(t, "Ravi", out.DeliveredTo)
		assert.Equal(t, "Auto-created from Hard Disk record", out.Notes)

		hd := load[models.HardDiskRecord](t, store, storage.KeyHardDiskRecords)[0]
		assert.True(t, hd.IsClosed)
		require.NotNil(t, hd.DeliveryDetails)
		assert.Equal(t, "BD123", hd.DeliveryDetails.CourierNumber)

		m, err := e.GetMasterRecordData(ctx, "JOB001")
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.True(t, m.IsDelivered)
		assert.Equal(t, models.DeliveryCourier, m.DeliveryMode)
	})

	t.Run("unknown job", func(t *testing.T) {
		err := e.MarkItemAsDeliveredWithDetails(ctx, "JOB404", models.DeliveryDetails{
			DeliveryDate:  today,
			RecipientName: "Asha",
		})
		assert.ErrorIs(t, err, ErrJobNotFound)
	})
}

func TestMarkItemAsDelivered_InwardOnly(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))

	require.NoError(t, e.MarkItemAsDelivered(ctx, "JOB001", "2026-03-10"))

	in := load[models.InwardRecord](t, store, storage.KeyInwardRecords)[0]
	assert.True(t, in.IsDelivered)
	assert.Equal(t, "2026-03-10", in.DeliveryDate)
	out := load[models.OutwardRecord](t, store, storage.KeyOutwardRecords)[0]
	assert.False(t, out.IsCompleted)
	hd := load[models.HardDiskRecord](t, store, storage.KeyHardDiskRecords)[0]
	assert.False(t, hd.IsClosed)
}

func TestGetMasterRecordData_Priority(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	hd := sampleJob("JOB001")
	hd.EstimatedAmount = models.Amount(1000)
	hd.Status = models.StatusPending
	seed(t, store, storage.KeyHardDiskRecords, []models.HardDiskRecord{hd})
	seed(t, store, storage.KeyInwardRecords, []models.InwardRecord{{
		ID: 1, JobID: "JOB001", Date: "2026-03-01", EstimatedAmount: models.Amount(1500),
	}})
	seed(t, store, storage.KeyOutwardRecords, []models.OutwardRecord{{
		ID: 2, JobID: "JOB001", Date: "2026-03-05", Status: models.StatusCompleted, IsCompleted: true,
	}})

	m, err := e.GetMasterRecordData(ctx, "JOB001")
	require.NoError(t, err)
	require.NotNil(t, m)
	require.NotNil(t, m.EstimatedAmount)
	assert.Equal(t, 1500.0, *m.EstimatedAmount)
	assert.Equal(t, models.StatusPending, m.Status)
	assert.True(t, m.IsDelivered)
	assert.Equal(t, "2026-03-05", m.OutwardDate)

	none, err := e.GetMasterRecordData(ctx, "JOB404")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMergedStatus_Fallbacks(t *testing.T) {
	hd := sampleJob("X")
	tests := []struct {
		name string
		hd   models.HardDiskRecord
		in   *models.InwardRecord
		out  *models.OutwardRecord
		want models.RecordStatus
	}{
		{"nothing", hd, nil, nil, models.StatusPending},
		{"outward status", hd, &models.InwardRecord{Status: models.StatusPending}, &models.OutwardRecord{Status: models.StatusInProgress}, models.StatusInProgress},
		{"inward status", hd, &models.InwardRecord{Status: models.StatusCompleted}, nil, models.StatusCompleted},
		{"outward without status", hd, nil, &models.OutwardRecord{}, models.StatusInProgress},
		{"completed outward", hd, nil, &models.OutwardRecord{IsCompleted: true}, models.StatusCompleted},
		{"closed hard disk", models.HardDiskRecord{IsClosed: true}, nil, nil, models.StatusCompleted},
		{"garbage status ignored", models.HardDiskRecord{Status: "lost"}, nil, &models.OutwardRecord{}, models.StatusInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergedStatus(tt.hd, tt.in, tt.out))
		})
	}
}

func TestGetDeliveryReports(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))
	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB002")))
	require.True(t, e.ClearAllOutwardRecords(ctx).Success)
	require.NoError(t, e.UpdateRecordStatus(ctx, "JOB002", models.StatusCompleted))

	reports, err := e.GetDeliveryReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "Not yet delivered", reports[0].DeliveredTo)
	assert.Equal(t, "2026-03-01", reports[0].Date)
	assert.Equal(t, "WD Blue 1TB", reports[0].DeviceInfo)
	assert.False(t, reports[0].IsCompleted)

	assert.Equal(t, "Asha Rao", reports[1].DeliveredTo)
	assert.Equal(t, today, reports[1].Date)
	assert.True(t, reports[1].IsCompleted)
	assert.NotEqual(t, reports[0].ID, reports[1].ID)

	again, err := e.GetDeliveryReports(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, reports[0].ID, again[0].ID)
}

func TestUnreadableCollectionIsTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	require.NoError(t, store.Set(ctx, storage.KeyHardDiskRecords, []byte("{not json")))
	require.NoError(t, store.Set(ctx, storage.KeyJobCounter, []byte("abc")))

	records, err := e.GetAllRecordsWithStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	next, err := e.PreviewNextJobID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "JOB001", next)
}

func TestChangeListener(t *testing.T) {
	ctx := context.Background()
	var changes []Change
	e, _ := newTestEngine(t, WithChangeListener(func(c Change) { changes = append(changes, c) }))

	require.NoError(t, e.SaveHardDiskRecordWithSync(ctx, sampleJob("JOB001")))
	require.NoError(t, e.UpdateRecordStatus(ctx, "JOB001", models.StatusInProgress))
	_ = e.UpdateRecordStatus(ctx, "JOB404", models.StatusInProgress)

	require.Len(t, changes, 2)
	assert.Equal(t, "job.saved", changes[0].Kind)
	assert.Equal(t, []string{"JOB001"}, changes[1].JobIDs)
}
