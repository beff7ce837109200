package handlers

import (
	"net/http"

	"github.com/kyedev/authd/internal/handlers/render"
)

func handleHealth() http.Handler {
	type response struct {
		Status string `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, response{Status: "UP"})
	})
}

func handleInfo() http.Handler {
	type response struct {
		Service     string `json:"service"`
		Description string `json:"description"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, response{
			Service:     "authd",
			Description: "JWT authentication and token lifecycle service",
		})
	})
}
