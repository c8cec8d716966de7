package response

import (
	"encoding/json"
	"net/http"
)

// Fields are the top-level members of a success body next to "success".
type Fields map[string]any

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, status int, fields Fields) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	JSON(w, status, body)
}

func Error(w http.ResponseWriter, code int, message string) {
	JSON(w, code, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}
