package handlers

import (
	"net/http"

	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/services/reports"
)

const fileDateLayout = "2006-01-02"

func (r *Router) deliveryReport(w http.ResponseWriter, req *http.Request) {
	rows, err := r.engine.GetDeliveryReports(req.Context())
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (r *Router) deliveryReportXLSX(w http.ResponseWriter, req *http.Request) {
	rows, err := r.engine.GetDeliveryReports(req.Context())
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	now := r.now()
	buf, err := reports.DeliveryReportWorkbook(rows, now)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	attachment(w, reports.ContentType, "delivery_report_"+now.Format(fileDateLayout)+".xlsx", buf.Bytes())
}

func (r *Router) dashboard(w http.ResponseWriter, req *http.Request) {
	stats, err := r.engine.Dashboard(req.Context())
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// listCustomers returns all customers, or one when ?phone= or ?name= is given
func (r *Router) listCustomers(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	ctx := req.Context()

	if phone, name := q.Get("phone"), q.Get("name"); phone != "" || name != "" {
		var (
			c   *models.MasterCustomer
			err error
		)
		if phone != "" {
			c, err = r.engine.GetMasterCustomerByPhone(ctx, phone)
		}
		if err == nil && c == nil && name != "" {
			c, err = r.engine.GetMasterCustomerByName(ctx, name)
		}
		if err != nil {
			r.respondEngineError(w, err)
			return
		}
		if c == nil {
			respondError(w, http.StatusNotFound, "customer not found")
			return
		}
		respondJSON(w, http.StatusOK, c)
		return
	}

	customers, err := r.engine.GetMasterCustomers(ctx)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}
