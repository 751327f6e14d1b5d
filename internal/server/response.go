package server

import (
	"net/http"

	"github.com/go-chi/render"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, apiResponse{Status: "success", Data: data})
}

func respondMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, apiResponse{Status: "error", Message: msg})
}
