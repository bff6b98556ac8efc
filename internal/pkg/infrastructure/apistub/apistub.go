package apistub

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/insurdesk/backoffice/internal/pkg/infrastructure/router"
	"github.com/insurdesk/backoffice/pkg/records"
)

// New returns an http.Handler implementing the back-office REST
// contract with in-memory storage. It exists so the console can be
// exercised locally and in integration tests without the real service;
// it follows the reference implementation's observable behavior
// (status codes, error and confirmation bodies, cascading deletes).
func New(serviceName string) http.Handler {
	r := router.New(serviceName)
	st := newStore()

	for _, schema := range records.BuiltIn() {
		s := schema

		r.Route("/"+s.Resource, func(r chi.Router) {
			r.Post("/", createHandler(st, s))
			r.Get("/", listHandler(st, s))

			r.Route("/{recordID}", func(r chi.Router) {
				r.Get("/", getHandler(st, s))
				r.Put("/", updateHandler(st, s))
				r.Delete("/", deleteHandler(st, s))
			})
		})
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Claims Management System API"))
	})

	return r
}

// foreignKeys maps a resource to the parent resource a new record must
// reference, mirroring the reference schema's constraints.
var foreignKeys = map[string]struct {
	field    string
	resource string
	keyField string
}{
	"policies": {field: "policyholder_id", resource: "policyholders", keyField: "policyholder_id"},
	"claims":   {field: "policy_id", resource: "policies", keyField: "policy_id"},
}

func createHandler(st *store, s records.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := records.Record{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "unable to decode request payload")
			return
		}

		for _, f := range s.Fields {
			if _, ok := body[f.Name]; !ok {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("missing required field %s", f.Name))
				return
			}
		}

		if fk, ok := foreignKeys[s.Resource]; ok {
			parent, _ := body[fk.field].(string)
			if !st.exists(fk.resource, fk.keyField, parent) {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown %s %q", fk.field, parent))
				return
			}
		}

		if err := st.insert(s, body); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s %q already exists", s.Key, body.Key(s)))
			return
		}

		writeJSON(w, http.StatusCreated, body)
	}
}

func listHandler(st *store, s records.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, st.list(s))
	}
}

func getHandler(st *store, s records.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := st.get(s, chi.URLParam(r, "recordID"))
		if err != nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found", s.Type))
			return
		}

		writeJSON(w, http.StatusOK, record)
	}
}

func updateHandler(st *store, s records.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fragment := records.Record{}
		if err := json.NewDecoder(r.Body).Decode(&fragment); err != nil {
			writeError(w, http.StatusBadRequest, "unable to decode request payload")
			return
		}

		updated, err := st.merge(s, chi.URLParam(r, "recordID"), fragment)
		if err != nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found", s.Type))
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteHandler(st *store, s records.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.delete(s, chi.URLParam(r, "recordID")); err != nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found", s.Type))
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("%s deleted successfully", s.Type),
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"error": detail})
}
