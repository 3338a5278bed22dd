package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/xelth-com/recoverydesk/internal/config"
	"github.com/xelth-com/recoverydesk/internal/logger"
	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/storage"
	"github.com/xelth-com/recoverydesk/internal/sync"
	"go.uber.org/zap"
)

var demoJobs = []models.HardDiskRecord{
	{SerialNumber: "WX11A23B4567", Model: "WD Blue", Capacity: "1TB", Year: 2019, Complaint: "Not detected in BIOS", CustomerName: "Asha Rao", PhoneNumber: "9876543210", CustomerState: "Karnataka", EstimatedAmount: models.Amount(3500)},
	{SerialNumber: "ZA2B9K01", Model: "Seagate Barracuda", Capacity: "2TB", Year: 2020, Complaint: "Clicking noise", CustomerName: "Vikram Shah", PhoneNumber: "9123456780", CustomerState: "Maharashtra"},
	{SerialNumber: "S4X7NF0M", Model: "Samsung 870 EVO", Capacity: "500GB", Year: 2022, Complaint: "Accidental format", CustomerName: "Meera Iyer", PhoneNumber: "9988776655", CustomerState: "Tamil Nadu", EstimatedAmount: models.Amount(2500)},
	{SerialNumber: "Y8K2P3Q1", Model: "Toshiba Canvio", Capacity: "1TB", Year: 2018, Complaint: "Dropped, not spinning", CustomerName: "Asha Rao", PhoneNumber: "9876543210", CustomerState: "Karnataka"},
}

func main() {
	fresh := flag.Bool("fresh", false, "clear all records before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewForEnvironment(cfg.NodeEnv)
	defer log.Sync()

	store, closer, err := storage.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer closer.Close()

	ctx := context.Background()
	engine := sync.NewEngine(store, log)

	if *fresh {
		res := engine.ClearAllRecordsForFreshStart(ctx)
		log.Info("Cleared records", zap.Strings("items", res.ClearedItems))
	}

	for _, job := range demoJobs {
		created, err := engine.CreateJob(ctx, job)
		if errors.Is(err, sync.ErrDuplicateJobID) {
			continue
		}
		if err != nil {
			log.Fatal("Failed to create demo job", zap.Error(err))
		}
		log.Info("Seeded job", zap.String("job_id", created.JobID), zap.String("customer", created.CustomerName))
	}

	// Move the first two jobs along so the dashboard has something to show
	if err := engine.UpdateRecordStatus(ctx, "JOB001", models.StatusCompleted); err != nil {
		log.Warn("Could not complete JOB001", zap.Error(err))
	}
	if err := engine.UpdateRecordStatus(ctx, "JOB002", models.StatusInProgress); err != nil {
		log.Warn("Could not start JOB002", zap.Error(err))
	}
	if _, err := engine.IssueInvoice(ctx, sync.InvoiceRequest{JobID: "JOB001"}); err != nil {
		log.Warn("Could not invoice JOB001", zap.Error(err))
	}

	res := engine.AutoSyncBackupJobData(ctx)
	log.Info("Demo data ready", zap.Int("analytics_rows", res.Count))
}
