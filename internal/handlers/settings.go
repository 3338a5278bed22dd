package handlers

import (
	"net/http"

	"github.com/xelth-com/recoverydesk/internal/models"
)

func (r *Router) getCompany(w http.ResponseWriter, req *http.Request) {
	c, err := r.engine.GetCompanyDetails(req.Context())
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (r *Router) saveCompany(w http.ResponseWriter, req *http.Request) {
	var c models.CompanyDetails
	if !decodeJSON(w, req, &c) {
		return
	}
	if err := r.engine.SaveCompanyDetails(req.Context(), c); err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (r *Router) getTerms(w http.ResponseWriter, req *http.Request) {
	templates, err := r.engine.GetTermsTemplates(req.Context())
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, templates)
}

func (r *Router) saveTerms(w http.ResponseWriter, req *http.Request) {
	var templates []models.TermsTemplate
	if !decodeJSON(w, req, &templates) {
		return
	}
	stored, err := r.engine.SaveTermsTemplates(req.Context(), templates)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stored)
}
