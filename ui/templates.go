package ui

import (
	"bytes"
	"log"
	"net/http"

	"beerdash/internal/errors"
)

// renderTemplate executes a template into a buffer first so a failure
// never leaves a half-written response
func (a *App) renderTemplate(w http.ResponseWriter, status int, templateName string, data any) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		log.Printf("Template error for %s: %v", templateName, err)
		log.Printf("Template data type: %T", data)
		http.Error(w, "Template rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing template response: %v", err)
	}
}

// renderError writes err as plain text with the status of its code
func (a *App) renderError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[Dashboard] %v", err)
	}
	http.Error(w, err.Error(), status)
}
