package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"hirehelper-service/logging"
)

// ApiResponse je standardni omotač za uspešne odgovore
type ApiResponse struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

type errorResponse struct {
	Success    bool     `json:"success"`
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ApiResponse{
		Success:    true,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

// WriteError prevodi grešku u HTTP status i JSON telo.
// Interne greške se ne prosleđuju klijentu.
func WriteError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal Server Error"
	var fieldErrors []string

	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		statusCode = apiErr.StatusCode
		message = apiErr.Message
		fieldErrors = apiErr.Errors
	} else {
		logging.Logger.Errorf("Event ID: UNHANDLED_ERROR, Description: %v", err)
	}

	if fieldErrors == nil {
		fieldErrors = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Errors:     fieldErrors,
	})
}
