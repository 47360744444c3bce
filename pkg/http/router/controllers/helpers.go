package controllers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type envelope map[string]any

func (api *statsAPI) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (api *statsAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	if err := api.writeJSON(w, status, envelope{"error": message}, nil); err != nil {
		api.log.Error("write error response", zap.Error(err), zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *statsAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("server error", zap.Error(err), zap.String("method", r.Method), zap.String("path", r.URL.Path))
	api.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func (api *statsAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, err.Error())
}

func (api *statsAPI) FailedValidationResponse(w http.ResponseWriter, r *http.Request, errs []string) {
	api.errorResponse(w, r, http.StatusUnprocessableEntity, errs)
}
