package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/bolao/internal/app"
	"github.com/shrimpsizemoose/bolao/internal/metrics"
	"github.com/shrimpsizemoose/bolao/internal/store"
)

type AdminHandler struct {
	service   *app.Service
	templates *template.Template
}

func NewAdminHandler(service *app.Service, templates *template.Template) *AdminHandler {
	return &AdminHandler{
		service:   service,
		templates: templates,
	}
}

func (h *AdminHandler) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(h.service.Config.Session.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *AdminHandler) isAuthenticated(r *http.Request) bool {
	ok, err := h.service.Sessions.Valid(r.Context(), h.sessionToken(r))
	if err != nil {
		logger.Error.Printf("Session lookup failed: %v", err)
		return false
	}
	return ok
}

func (h *AdminHandler) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.isAuthenticated(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (h *AdminHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	data := map[string]interface{}{}
	if r.URL.Query().Get("error") != "" {
		data["Error"] = "Credenciais inválidas"
	}
	render(w, h.templates, "login.html", data)
}

func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	if !h.service.Admin.CheckCredentials(r.PostForm.Get("username"), r.PostForm.Get("password")) {
		metrics.AdminLoginsTotal.WithLabelValues("rejected").Inc()
		logger.Info.Printf("Rejected admin login from %s", r.RemoteAddr)
		http.Redirect(w, r, "/login?error=1", http.StatusSeeOther)
		return
	}

	token, err := h.service.Sessions.Create(r.Context())
	if err != nil {
		logger.Error.Printf("Failed to create session: %v", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	metrics.AdminLoginsTotal.WithLabelValues("accepted").Inc()

	http.SetCookie(w, &http.Cookie{
		Name:     h.service.Config.Session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.service.Config.Session.TTLMinutes * 60,
		HttpOnly: true,
		Secure:   h.service.Config.Server.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Sessions.Destroy(r.Context(), h.sessionToken(r)); err != nil {
		logger.Error.Printf("Failed to destroy session: %v", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.service.Config.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.service.Config.Server.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AdminHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	submitters, err := h.service.Store.ListSubmitters()
	if err != nil {
		logger.Error.Printf("Failed to list submitters: %v", err)
		http.Error(w, "Failed to fetch submissions", http.StatusInternalServerError)
		return
	}

	stats, err := h.service.Store.FetchStats()
	if err != nil {
		logger.Error.Printf("Failed to fetch stats: %v", err)
		http.Error(w, "Failed to fetch submissions", http.StatusInternalServerError)
		return
	}

	render(w, h.templates, "admin.html", map[string]interface{}{
		"Submitters": submitters,
		"Stats":      stats,
	})
}

func (h *AdminHandler) HandleDeleteSubmitter(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid submitter id", http.StatusBadRequest)
		return
	}

	if err := h.service.Store.DeleteSubmitter(id); err != nil {
		if errors.Is(err, store.ErrSubmitterNotFound) {
			http.Error(w, "Submitter not found", http.StatusNotFound)
			return
		}
		logger.Error.Printf("Failed to delete submitter %d: %v", id, err)
		http.Error(w, "Failed to delete submitter", http.StatusInternalServerError)
		return
	}

	logger.Info.Printf("Deleted submitter %d", id)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	submitters, err := h.service.Store.ListSubmitters()
	if err != nil {
		logger.Error.Printf("Failed to list submitters: %v", err)
		http.Error(w, "Failed to fetch submissions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="apostas.json"`)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"submitters": submitters,
	})
}
