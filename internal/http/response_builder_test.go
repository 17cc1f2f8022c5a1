package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"expenses/internal/core"
	"expenses/internal/services"
)

func TestJSONResponseBuilder(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Test", "1").
		JSON(map[string]int{"n": 1}).
		Write(rec)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" || rec.Header().Get("X-Test") != "1" {
		t.Fatalf("headers = %v", rec.Header())
	}
	if rec.Body.String() != "{\"n\":1}\n" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestJSONResponseBuilderEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().JSON(map[string]any{"bad": make(chan int)}).Write(rec)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequestError("missing field: category").Write(rec)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusBadRequest || body["error"] != "missing field: category" || len(body) != 1 {
		t.Fatalf("got %d %v", rec.Code, body)
	}
}

func TestListJSONShape(t *testing.T) {
	res := services.ListResult{
		Expenses: []core.ExpenseRecord{{
			ID: "a", AmountCents: 5, Category: "Food", Date: "2024-01-01",
			CreatedAt: "2024-01-01T00:00:00.000000Z",
		}},
		Total: "0.05",
	}
	data, err := json.Marshal(listJSON(res))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"expenses":[{"id":"a","amount":"0.05","category":"Food","description":"","date":"2024-01-01","created_at":"2024-01-01T00:00:00.000000Z"}],"total":"0.05"}`
	if string(data) != want {
		t.Fatalf("got  %s\nwant %s", data, want)
	}

	empty, _ := json.Marshal(listJSON(services.ListResult{Total: "0.00"}))
	if string(empty) != `{"expenses":[],"total":"0.00"}` {
		t.Fatalf("empty list = %s", empty)
	}
}
