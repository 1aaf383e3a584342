package handlers

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/bolao/internal/app"
	"github.com/shrimpsizemoose/bolao/internal/web"
)

func NewRouter(service *app.Service) (http.Handler, error) {
	templates, err := web.ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	static, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	ticketHandler := NewTicketHandler(service, templates)
	adminHandler := NewAdminHandler(service, templates)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", ticketHandler.HandleIndex)
	mux.HandleFunc("POST /submit", ticketHandler.HandleSubmit)
	mux.HandleFunc("GET /success", ticketHandler.HandleSuccess)

	mux.HandleFunc("GET /login", adminHandler.HandleLoginPage)
	mux.HandleFunc("POST /login", adminHandler.HandleLogin)
	mux.HandleFunc("GET /logout", adminHandler.HandleLogout)
	mux.HandleFunc("GET /admin", adminHandler.requireSession(adminHandler.HandleDashboard))
	mux.HandleFunc("GET /admin/export.json", adminHandler.requireSession(adminHandler.HandleExport))
	mux.HandleFunc("POST /admin/submitters/{id}/delete", adminHandler.requireSession(adminHandler.HandleDeleteSubmitter))

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return withRequestLogging(mux), nil
}
