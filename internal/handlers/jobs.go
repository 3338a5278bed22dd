package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/sync"
)

// StatusRequest moves a job to a new status
type StatusRequest struct {
	Status models.RecordStatus `json:"status"`
}

func (r *Router) listJobs(w http.ResponseWriter, req *http.Request) {
	records, err := r.engine.GetAllRecordsWithStatus(req.Context())
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	if status := models.RecordStatus(req.URL.Query().Get("status")); status != "" {
		filtered := records[:0]
		for _, rec := range records {
			if rec.Status == status {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	respondJSON(w, http.StatusOK, records)
}

// nextJobID previews the next id; ?mode=available returns the first free slot instead
func (r *Router) nextJobID(w http.ResponseWriter, req *http.Request) {
	var (
		id  string
		err error
	)
	if req.URL.Query().Get("mode") == "available" {
		id, err = r.engine.NextAvailableJobID(req.Context())
	} else {
		id, err = r.engine.PreviewNextJobID(req.Context())
	}
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"jobId": id})
}

func (r *Router) createJob(w http.ResponseWriter, req *http.Request) {
	var rec models.HardDiskRecord
	if !decodeJSON(w, req, &rec) {
		return
	}
	created, err := r.engine.CreateJob(req.Context(), rec)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (r *Router) getJob(w http.ResponseWriter, req *http.Request) {
	master, err := r.engine.GetMasterRecordData(req.Context(), mux.Vars(req)["jobId"])
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	if master == nil {
		r.respondEngineError(w, sync.ErrJobNotFound)
		return
	}
	respondJSON(w, http.StatusOK, master)
}

func (r *Router) updateJob(w http.ResponseWriter, req *http.Request) {
	var rec models.HardDiskRecord
	if !decodeJSON(w, req, &rec) {
		return
	}
	rec.JobID = mux.Vars(req)["jobId"]
	updated, err := r.engine.UpdateJob(req.Context(), rec)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (r *Router) deleteJob(w http.ResponseWriter, req *http.Request) {
	res, err := r.engine.DeleteJob(req.Context(), mux.Vars(req)["jobId"])
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondBulk(w, res)
}

func (r *Router) updateStatus(w http.ResponseWriter, req *http.Request) {
	var body StatusRequest
	if !decodeJSON(w, req, &body) {
		return
	}
	jobID := mux.Vars(req)["jobId"]
	if err := r.engine.UpdateRecordStatus(req.Context(), jobID, body.Status); err != nil {
		r.respondEngineError(w, err)
		return
	}
	r.respondMaster(w, req, jobID)
}

func (r *Router) deliverJob(w http.ResponseWriter, req *http.Request) {
	var details models.DeliveryDetails
	if !decodeJSON(w, req, &details) {
		return
	}
	jobID := mux.Vars(req)["jobId"]
	if err := r.engine.MarkItemAsDeliveredWithDetails(req.Context(), jobID, details); err != nil {
		r.respondEngineError(w, err)
		return
	}
	r.respondMaster(w, req, jobID)
}

// respondMaster returns the merged view after a mutation, or a bare ack
// when the job only exists in the Inward/Outward collections
func (r *Router) respondMaster(w http.ResponseWriter, req *http.Request, jobID string) {
	master, err := r.engine.GetMasterRecordData(req.Context(), jobID)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	if master == nil {
		respondJSON(w, http.StatusOK, map[string]any{"success": true, "jobId": jobID})
		return
	}
	respondJSON(w, http.StatusOK, master)
}

func (r *Router) issueEstimate(w http.ResponseWriter, req *http.Request) {
	var body sync.EstimateRequest
	if !decodeJSON(w, req, &body) {
		return
	}
	body.JobID = mux.Vars(req)["jobId"]
	est, err := r.engine.IssueEstimate(req.Context(), body)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, est)
}

func (r *Router) getEstimate(w http.ResponseWriter, req *http.Request) {
	est, err := r.engine.GetEstimateByJobID(req.Context(), mux.Vars(req)["jobId"])
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	if est == nil {
		respondError(w, http.StatusNotFound, "estimate not found")
		return
	}
	respondJSON(w, http.StatusOK, est)
}

func (r *Router) issueInvoice(w http.ResponseWriter, req *http.Request) {
	var body sync.InvoiceRequest
	if !decodeJSON(w, req, &body) {
		return
	}
	body.JobID = mux.Vars(req)["jobId"]
	inv, err := r.engine.IssueInvoice(req.Context(), body)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, inv)
}

func (r *Router) getInvoice(w http.ResponseWriter, req *http.Request) {
	inv, err := r.engine.GetInvoiceByJobID(req.Context(), mux.Vars(req)["jobId"])
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	if inv == nil {
		respondError(w, http.StatusNotFound, "invoice not found")
		return
	}
	respondJSON(w, http.StatusOK, inv)
}
