package http

import (
	"errors"
	"net/http"

	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/services"
)

// handleCreateExpense answers 201 for a new record and 200 when the id
// was already stored, echoing the stored record in both cases.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		s.logger.InfoContext(ctx, "Rejected expense body", "error", err)
		ErrorResponse(parseErrorStatus(err), parseErrorMessage(err)).Write(w)
		return
	}

	rec, outcome, err := s.ledger.Create(ctx, services.NewCreateRequest(parser.Fields()))
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpCreate)
		return
	}

	status := http.StatusOK
	if outcome == core.OutcomeCreated {
		status = http.StatusCreated
	}
	NewJSONResponse().Status(status).JSON(expenseJSON(rec)).Write(w)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	res, err := s.ledger.List(r.Context(), ParseListFilter(r.URL.Query()))
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpList)
		return
	}
	NewJSONResponse().JSON(listJSON(res)).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.ledger.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpGet)
		return
	}
	NewJSONResponse().JSON(expenseJSON(rec)).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.ledger.Summary(r.Context(), ParseListFilter(r.URL.Query()).Category)
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpSummary)
		return
	}
	NewJSONResponse().JSON(summaryJSON(sum)).Write(w)
}

// writeServiceError maps ledger errors onto status codes. Messages of
// validation errors are returned verbatim; store failures are not.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		ErrorResponse(http.StatusBadRequest, verr.Message).Write(w)
	case errors.Is(err, core.ErrNotFound):
		NotFoundError("expense not found").Write(w)
	case errors.Is(err, core.ErrConflict):
		ErrorResponse(http.StatusConflict, "expense id conflict").Write(w)
	default:
		applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(),
			"Ledger operation failed", err, op,
			applog.NewFields().WithErrorType(applog.ErrorTypeDatabase))
		InternalServerError("internal error").Write(w)
	}
}
