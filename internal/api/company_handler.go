package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"orgaudit/internal/domain"
	"orgaudit/internal/service"
)

// CompanyHandler exposes company CRUD, audit and snapshot endpoints.
type CompanyHandler struct {
	service *service.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(service *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// Register mounts the company routes on the router.
func (h *CompanyHandler) Register(r *mux.Router) {
	r.HandleFunc("/companies", h.list).Methods(http.MethodGet)
	r.HandleFunc("/companies", h.create).Methods(http.MethodPost)
	r.HandleFunc("/companies/snapshot", h.snapshotAll).Methods(http.MethodGet)
	r.HandleFunc("/companies/audit/{auditId:[0-9]+}", h.auditByID).Methods(http.MethodGet)
	r.HandleFunc("/companies/{id:[0-9]+}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/companies/{id:[0-9]+}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/companies/{id:[0-9]+}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/companies/{id:[0-9]+}/employees", h.employees).Methods(http.MethodGet)
	r.HandleFunc("/companies/{id:[0-9]+}/audit", h.auditTrail).Methods(http.MethodGet)
	r.HandleFunc("/companies/{id:[0-9]+}/snapshot", h.snapshotByID).Methods(http.MethodGet)
	r.HandleFunc("/companies/{id:[0-9]+}/restore", h.restore).Methods(http.MethodPost)
}

func (h *CompanyHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePaging(r)
	companies, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (h *CompanyHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	company, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) employees(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	employees, err := h.service.Employees(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *CompanyHandler) create(w http.ResponseWriter, r *http.Request) {
	var company domain.Company
	if err := decodeJSON(r, &company); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	created, err := h.service.Create(r.Context(), company)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CompanyHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var company domain.Company
	if err := decodeJSON(r, &company); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	company.ID = id
	updated, err := h.service.Update(r.Context(), company)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CompanyHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompanyHandler) auditTrail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	trail, err := h.service.AuditTrail(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trail)
}

func (h *CompanyHandler) auditByID(w http.ResponseWriter, r *http.Request) {
	auditID, err := pathID(r, "auditId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	record, err := h.service.AuditByID(r.Context(), auditID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *CompanyHandler) snapshotAll(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	records, err := h.service.SnapshotAll(r.Context(), asOf)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *CompanyHandler) snapshotByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	asOf, err := parseAsOf(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	record, err := h.service.SnapshotByID(r.Context(), asOf, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if record == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no state at or before asOf"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *CompanyHandler) restore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req restoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	restored, err := h.service.Restore(r.Context(), id, req.AuditID)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, restored)
}
