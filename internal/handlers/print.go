package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/xelth-com/recoverydesk/internal/services/printer"
	"go.uber.org/zap"
)

// PrintTagsRequest selects the jobs to print tags for.
// An empty JobIDs list prints every open job.
type PrintTagsRequest struct {
	JobIDs []string            `json:"jobIds"`
	Layout printer.LabelConfig `json:"layout"`
}

// printTags renders drive tags as a PDF download
func (r *Router) printTags(w http.ResponseWriter, req *http.Request) {
	var body PrintTagsRequest
	if !decodeJSON(w, req, &body) {
		return
	}

	records, err := r.engine.GetAllRecordsWithStatus(req.Context())
	if err != nil {
		r.respondEngineError(w, err)
		return
	}

	wanted := make(map[string]bool, len(body.JobIDs))
	for _, id := range body.JobIDs {
		wanted[id] = true
	}

	var tags []printer.JobTag
	for _, m := range records {
		if len(wanted) > 0 && !wanted[m.JobID] {
			continue
		}
		if len(wanted) == 0 && m.IsClosed {
			continue
		}
		tags = append(tags, printer.TagFromMaster(m))
	}

	pdfBytes, err := printer.GenerateJobTagsPDF(tags, body.Layout)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	r.log.Info("Printed job tags", zap.Int("count", len(tags)))

	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	attachment(w, "application/pdf", fmt.Sprintf("job_tags_%d.pdf", len(tags)), pdfBytes)
}
