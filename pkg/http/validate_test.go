package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type sampleRequest struct {
	Name     string  `json:"name" validate:"required,max=10"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Limit    int     `json:"limit" default:"25"`
}

func bindContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestReadAndValidateRequestAppliesDefaults(t *testing.T) {
	var req sampleRequest
	if errs := ReadAndValidateRequest(bindContext(`{"name":"growth","quantity":2}`), &req); errs != nil {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if req.Limit != 25 {
		t.Fatalf("default not applied, limit=%d", req.Limit)
	}
}

func TestReadAndValidateRequestRequired(t *testing.T) {
	var req sampleRequest
	errs := ReadAndValidateRequest(bindContext(`{"quantity":2}`), &req)
	ve, ok := errs.([]ValidationError)
	if !ok || len(ve) != 1 {
		t.Fatalf("expected one validation error, got %v", errs)
	}
	if ve[0].Code != "ERR_REQUIRED" || ve[0].Field != "Name" {
		t.Fatalf("unexpected error %+v", ve[0])
	}
}

func TestReadAndValidateRequestNonPositive(t *testing.T) {
	var req sampleRequest
	errs := ReadAndValidateRequest(bindContext(`{"name":"growth","quantity":0}`), &req)
	ve, ok := errs.([]ValidationError)
	if !ok || len(ve) != 1 {
		t.Fatalf("expected one validation error, got %v", errs)
	}
	if ve[0].Code != "ERR_GT" {
		t.Fatalf("unexpected code %s", ve[0].Code)
	}
	if ve[0].Message != "Quantity must be greater than 0" {
		t.Fatalf("unexpected message %q", ve[0].Message)
	}
}

func TestReadAndValidateRequestBadJSON(t *testing.T) {
	var req sampleRequest
	errs := ReadAndValidateRequest(bindContext(`{`), &req)
	ve, ok := errs.([]ValidationError)
	if !ok || len(ve) != 1 {
		t.Fatalf("expected one validation error, got %v", errs)
	}
	if ve[0].Code != "ERR_UNKNOWN" {
		t.Fatalf("unexpected code %s", ve[0].Code)
	}
}
