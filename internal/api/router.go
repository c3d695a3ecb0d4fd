package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter assembles the REST surface: entity routes under /api, the audit
// export endpoints, and a health probe.
func NewRouter(
	companies *CompanyHandler,
	departments *DepartmentHandler,
	employees *EmployeeHandler,
	exports http.Handler,
) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()
	companies.Register(apiRouter)
	departments.Register(apiRouter)
	employees.Register(apiRouter)

	if exports != nil {
		apiRouter.PathPrefix("/export/").Handler(exports)
	}

	return router
}
