package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/services/reports"
)

// DeleteBackupRequest selects analytics rows by id
type DeleteBackupRequest struct {
	IDs []int64 `json:"ids"`
}

func (r *Router) listBackupJobs(w http.ResponseWriter, req *http.Request) {
	rows, err := r.engine.GetBackupJobData(req.Context())
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (r *Router) addBackupJob(w http.ResponseWriter, req *http.Request) {
	var row models.BackupJobData
	if !decodeJSON(w, req, &row) {
		return
	}
	saved, err := r.engine.AddBackupJobData(req.Context(), row)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

// importBackupJobs accepts either a bare array or an export file
func (r *Router) importBackupJobs(w http.ResponseWriter, req *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	res := r.engine.ImportBackupJobData(req.Context(), raw)
	if !res.Success {
		respondJSON(w, http.StatusBadRequest, res)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (r *Router) syncBackupJobs(w http.ResponseWriter, req *http.Request) {
	respondBulk(w, r.engine.AutoSyncBackupJobData(req.Context()))
}

func (r *Router) deleteBackupJobs(w http.ResponseWriter, req *http.Request) {
	var body DeleteBackupRequest
	if !decodeJSON(w, req, &body) {
		return
	}
	respondBulk(w, r.engine.DeleteSelectedBackupJobData(req.Context(), body.IDs))
}

func (r *Router) clearBackupJobs(w http.ResponseWriter, req *http.Request) {
	respondBulk(w, r.engine.ClearBackupJobData(req.Context()))
}

func (r *Router) exportBackupJobs(w http.ResponseWriter, req *http.Request) {
	export, err := r.engine.ExportBackupJobData(req.Context())
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	attachment(w, "application/json", "backup_job_data_"+r.now().Format(fileDateLayout)+".json", body)
}

func (r *Router) backupJobsXLSX(w http.ResponseWriter, req *http.Request) {
	rows, err := r.engine.GetBackupJobData(req.Context())
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	now := r.now()
	buf, err := reports.BackupJobDataWorkbook(rows, now)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	attachment(w, reports.ContentType, "business_analytics_"+now.Format(fileDateLayout)+".xlsx", buf.Bytes())
}

func (r *Router) clearRevenue(w http.ResponseWriter, req *http.Request) {
	respondBulk(w, r.engine.ClearMonthlyRevenueData(req.Context()))
}

func (r *Router) exportSystem(w http.ResponseWriter, req *http.Request) {
	export, err := r.engine.ExportAllData(req.Context())
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	attachment(w, "application/json", "recoverydesk_backup_"+r.now().Format(fileDateLayout)+".json", body)
}

func (r *Router) importSystem(w http.ResponseWriter, req *http.Request) {
	var data models.SystemExport
	if !decodeJSON(w, req, &data) {
		return
	}
	respondBulk(w, r.engine.ImportData(req.Context(), data))
}

func (r *Router) freshStart(w http.ResponseWriter, req *http.Request) {
	respondBulk(w, r.engine.ClearAllRecordsForFreshStart(req.Context()))
}

func (r *Router) clearOutward(w http.ResponseWriter, req *http.Request) {
	respondBulk(w, r.engine.ClearAllOutwardRecords(req.Context()))
}

func (r *Router) clearAll(w http.ResponseWriter, req *http.Request) {
	respondBulk(w, r.engine.ClearAllData(req.Context()))
}
