package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"orgaudit/internal/domain"
	"orgaudit/internal/service"
)

// DepartmentHandler exposes department CRUD, audit and snapshot endpoints.
type DepartmentHandler struct {
	service *service.DepartmentService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(service *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: service}
}

// Register mounts the department routes on the router.
func (h *DepartmentHandler) Register(r *mux.Router) {
	r.HandleFunc("/departments", h.list).Methods(http.MethodGet)
	r.HandleFunc("/departments", h.create).Methods(http.MethodPost)
	r.HandleFunc("/departments/snapshot", h.snapshotAll).Methods(http.MethodGet)
	r.HandleFunc("/departments/audit/{auditId:[0-9]+}", h.auditByID).Methods(http.MethodGet)
	r.HandleFunc("/departments/{id:[0-9]+}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/departments/{id:[0-9]+}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/departments/{id:[0-9]+}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/departments/{id:[0-9]+}/employees", h.employees).Methods(http.MethodGet)
	r.HandleFunc("/departments/{id:[0-9]+}/audit", h.auditTrail).Methods(http.MethodGet)
	r.HandleFunc("/departments/{id:[0-9]+}/snapshot", h.snapshotByID).Methods(http.MethodGet)
	r.HandleFunc("/departments/{id:[0-9]+}/restore", h.restore).Methods(http.MethodPost)
}

func (h *DepartmentHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePaging(r)
	departments, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

func (h *DepartmentHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	department, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, department)
}

func (h *DepartmentHandler) employees(w http.ResponseWriter, r *http.Request) {
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

func (h *DepartmentHandler) create(w http.ResponseWriter, r *http.Request) {
	var department domain.Department
	if err := decodeJSON(r, &department); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	created, err := h.service.Create(r.Context(), department)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *DepartmentHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var department domain.Department
	if err := decodeJSON(r, &department); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	department.ID = id
	updated, err := h.service.Update(r.Context(), department)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *DepartmentHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func (h *DepartmentHandler) auditTrail(w http.ResponseWriter, r *http.Request) {
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

func (h *DepartmentHandler) auditByID(w http.ResponseWriter, r *http.Request) {
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

func (h *DepartmentHandler) snapshotAll(w http.ResponseWriter, r *http.Request) {
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

func (h *DepartmentHandler) snapshotByID(w http.ResponseWriter, r *http.Request) {
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

func (h *DepartmentHandler) restore(w http.ResponseWriter, r *http.Request) {
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
