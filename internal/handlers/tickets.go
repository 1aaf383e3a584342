package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/bolao/internal/app"
	"github.com/shrimpsizemoose/bolao/internal/models"
	"github.com/shrimpsizemoose/bolao/internal/tickets"
)

const maxSubmitBody = 64 << 10

type TicketHandler struct {
	service   *app.Service
	templates *template.Template
}

func NewTicketHandler(service *app.Service, templates *template.Template) *TicketHandler {
	return &TicketHandler{
		service:   service,
		templates: templates,
	}
}

func (h *TicketHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	rules := h.service.Tickets.Rules()

	numbers := make([]int, 0, rules.MaxNumber)
	for n := 1; n <= rules.MaxNumber; n++ {
		numbers = append(numbers, n)
	}

	render(w, h.templates, "index.html", map[string]interface{}{
		"Numbers":        numbers,
		"PicksPerBatch":  rules.PicksPerBatch,
		"NumbersPerPick": rules.NumbersPerPick,
		"MaxNumber":      rules.MaxNumber,
	})
}

func (h *TicketHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBody)

	var req models.SubmitRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		logger.Debug.Printf("Invalid submission body: %v", err)
		writeJSON(w, http.StatusBadRequest, models.SubmitResponse{Message: "Dados inválidos."})
		return
	}

	receipt, err := h.service.Tickets.Submit(r.Context(), req.FullName, req.Games)
	if err != nil {
		status, message := describeSubmitError(err)
		if status >= http.StatusInternalServerError {
			logger.Error.Printf("Failed to store submission from %q: %v", req.FullName, err)
		} else {
			logger.Debug.Printf("Rejected submission from %q: %v", req.FullName, err)
		}
		writeJSON(w, status, models.SubmitResponse{Message: message})
		return
	}

	logger.Info.Printf("Stored submission %d with %d picks", receipt.SubmitterID, receipt.AcceptedPicks)
	writeJSON(w, http.StatusOK, models.SubmitResponse{
		Success:  true,
		Redirect: "/success?val=" + strconv.Itoa(receipt.TotalNumbersWritten),
	})
}

func (h *TicketHandler) HandleSuccess(w http.ResponseWriter, r *http.Request) {
	total, err := strconv.Atoi(r.URL.Query().Get("val"))
	if err != nil || total < 0 {
		total = 0
	}
	render(w, h.templates, "success.html", map[string]interface{}{
		"Total": total,
	})
}

func describeSubmitError(err error) (int, string) {
	var (
		missingErr *tickets.MissingFieldError
		batchErr   *tickets.BatchSizeError
		numberErr  *tickets.NumberError
		persistErr *tickets.PersistenceError
	)
	switch {
	case errors.As(err, &missingErr):
		return http.StatusBadRequest, "Preencha seu nome e adicione seus jogos."
	case errors.As(err, &batchErr):
		return http.StatusBadRequest, fmt.Sprintf("Você deve enviar exatamente %d jogos.", batchErr.Want)
	case errors.As(err, &numberErr):
		return http.StatusBadRequest, fmt.Sprintf("Número inválido no jogo %d.", numberErr.Pick)
	case errors.As(err, &persistErr):
		return http.StatusInternalServerError, "Erro ao salvar jogos: " + persistErr.Cause.Error()
	default:
		return http.StatusInternalServerError, "Erro ao enviar jogos."
	}
}
