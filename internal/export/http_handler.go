package export

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"

	"orgaudit/internal/domain"
)

// Handler serves audit trail downloads.
type Handler struct {
	service *Service
	router  *mux.Router
}

// NewHandler creates a new export handler.
func NewHandler(service *Service) *Handler {
	h := &Handler{service: service, router: mux.NewRouter()}
	h.router.HandleFunc("/api/export/{collection}/{id:[0-9]+}/audit.xlsx", h.auditWorkbook).Methods(http.MethodGet)
	h.router.HandleFunc("/api/export/{collection}/snapshot.xlsx", h.snapshotWorkbook).Methods(http.MethodGet)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// collections maps URL path segments onto entity kinds.
var collections = map[string]string{
	"companies":   domain.KindCompany,
	"departments": domain.KindDepartment,
	"employees":   domain.KindEmployee,
}

func (h *Handler) auditWorkbook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, ok := collections[vars["collection"]]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown collection %q", vars["collection"]), http.StatusNotFound)
		return
	}
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	workbook, err := h.service.AuditWorkbook(r.Context(), kind, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, domain.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	defer workbook.Close()

	writeWorkbook(w, workbook, fmt.Sprintf("%s-%d-audit.xlsx", kind, id))
}

func (h *Handler) snapshotWorkbook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, ok := collections[vars["collection"]]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown collection %q", vars["collection"]), http.StatusNotFound)
		return
	}
	raw := r.URL.Query().Get("asOf")
	asOf, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		http.Error(w, "asOf query parameter must be RFC3339", http.StatusBadRequest)
		return
	}

	workbook, err := h.service.SnapshotWorkbook(r.Context(), kind, asOf)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer workbook.Close()

	writeWorkbook(w, workbook, fmt.Sprintf("%s-snapshot-%s.xlsx", kind, asOf.UTC().Format("20060102T150405Z")))
}

func writeWorkbook(w http.ResponseWriter, workbook *excelize.File, filename string) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := workbook.WriteTo(w); err != nil {
		log.Printf("export: write workbook: %v", err)
	}
}
