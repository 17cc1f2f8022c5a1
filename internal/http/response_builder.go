package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"expenses/internal/core"
	"expenses/internal/services"
)

// JSONResponseBuilder provides a fluent API for building API responses.
type JSONResponseBuilder struct {
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the body to v encoded as JSON. Encoding failures turn the
// response into a 500.
func (b *JSONResponseBuilder) JSON(v any) *JSONResponseBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		b.statusCode = http.StatusInternalServerError
		data = []byte(`{"error":"internal error"}`)
	}
	b.body = append(data, '\n')
	return b
}

func (b *JSONResponseBuilder) Body(content []byte) *JSONResponseBuilder {
	b.body = content
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a {"error": message} response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).JSON(errorBody{Error: message})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// expenseResponse is the wire form of a record. Amounts are decimal
// strings with two fractional digits.
type expenseResponse struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	CreatedAt   string `json:"created_at"`
}

type listResponse struct {
	Expenses []expenseResponse `json:"expenses"`
	Total    string            `json:"total"`
}

type categoryTotalResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Total    string `json:"total"`
}

type summaryResponse struct {
	Categories []categoryTotalResponse `json:"categories"`
	Total      string                  `json:"total"`
}

func expenseJSON(rec core.ExpenseRecord) expenseResponse {
	return expenseResponse{
		ID:          rec.ID,
		Amount:      rec.Amount(),
		Category:    rec.Category,
		Description: rec.Description,
		Date:        rec.Date,
		CreatedAt:   rec.CreatedAt,
	}
}

func listJSON(res services.ListResult) listResponse {
	out := listResponse{
		Expenses: make([]expenseResponse, 0, len(res.Expenses)),
		Total:    res.Total,
	}
	for _, rec := range res.Expenses {
		out.Expenses = append(out.Expenses, expenseJSON(rec))
	}
	return out
}

func summaryJSON(sum core.Summary) summaryResponse {
	out := summaryResponse{
		Categories: make([]categoryTotalResponse, 0, len(sum.Categories)),
		Total:      sum.Total,
	}
	for _, c := range sum.Categories {
		out.Categories = append(out.Categories, categoryTotalResponse{
			Category: c.Category,
			Count:    c.Count,
			Total:    c.Total,
		})
	}
	return out
}
