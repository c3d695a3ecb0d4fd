package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"orgaudit/internal/domain"
	"orgaudit/internal/service"
)

// EmployeeHandler exposes employee CRUD, audit and snapshot endpoints.
type EmployeeHandler struct {
	service *service.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(service *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// Register mounts the employee routes on the router.
func (h *EmployeeHandler) Register(r *mux.Router) {
	r.HandleFunc("/employees", h.list).Methods(http.MethodGet)
	r.HandleFunc("/employees", h.create).Methods(http.MethodPost)
	r.HandleFunc("/employees/snapshot", h.snapshotAll).Methods(http.MethodGet)
	r.HandleFunc("/employees/audit/{auditId:[0-9]+}", h.auditByID).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id:[0-9]+}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id:[0-9]+}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/employees/{id:[0-9]+}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/employees/{id:[0-9]+}/audit", h.auditTrail).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id:[0-9]+}/snapshot", h.snapshotByID).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id:[0-9]+}/restore", h.restore).Methods(http.MethodPost)
}

func (h *EmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePaging(r)
	employees, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	employee, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var employee domain.Employee
	if err := decodeJSON(r, &employee); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	created, err := h.service.Create(r.Context(), employee)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *EmployeeHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var employee domain.Employee
	if err := decodeJSON(r, &employee); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	employee.ID = id
	updated, err := h.service.Update(r.Context(), employee)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *EmployeeHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func (h *EmployeeHandler) auditTrail(w http.ResponseWriter, r *http.Request) {
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

func (h *EmployeeHandler) auditByID(w http.ResponseWriter, r *http.Request) {
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

func (h *EmployeeHandler) snapshotAll(w http.ResponseWriter, r *http.Request) {
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

func (h *EmployeeHandler) snapshotByID(w http.ResponseWriter, r *http.Request) {
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

func (h *EmployeeHandler) restore(w http.ResponseWriter, r *http.Request) {
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
