package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-taskboard/internal/domain/apperror"
	"github.com/oksasatya/go-taskboard/internal/testutil"
	"github.com/oksasatya/go-taskboard/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func TestNullable(t *testing.T) {
	var body struct {
		A Nullable[string] `json:"a"`
		B Nullable[string] `json:"b"`
		C Nullable[string] `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"x","b":null}`), &body); err != nil {
		t.Fatal(err)
	}
	if !body.A.Set || !body.A.Valid || *body.A.Ptr() != "x" {
		t.Fatalf("a = %+v", body.A)
	}
	if !body.B.Set || body.B.Valid || body.B.Ptr() != nil {
		t.Fatalf("b = %+v", body.B)
	}
	if body.C.Set {
		t.Fatalf("c = %+v, want unset", body.C)
	}
	if err := json.Unmarshal([]byte(`{"a":5}`), &body); err == nil {
		t.Fatal("expected type error")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind apperror.Kind
		want int
	}{
		{apperror.KindValidation, http.StatusBadRequest},
		{apperror.KindConflict, http.StatusBadRequest},
		{apperror.KindAuth, http.StatusUnauthorized},
		{apperror.KindForbidden, http.StatusForbidden},
		{apperror.KindNotFound, http.StatusNotFound},
		{apperror.KindUnavailable, http.StatusServiceUnavailable},
		{apperror.Kind(0), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.kind); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, helpers.NewDiscardLogger(), errors.New("pq: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	env := testutil.Decode(t, w, nil)
	if env.Status != "error" || env.Message != "Internal server error" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestRespondErrorFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, nil, apperror.FieldValidation("memberId", "Cannot remove project owner"))

	env := testutil.Decode(t, w, nil)
	if w.Code != http.StatusBadRequest || env.Errors["memberId"] != "Cannot remove project owner" {
		t.Fatalf("status %d envelope %+v", w.Code, env)
	}
}

func TestParseDueDate(t *testing.T) {
	empty := ""
	if d, err := parseDueDate(&empty); err != nil || d != nil {
		t.Fatalf("empty: %v %v", d, err)
	}
	good := "2025-03-01T10:00:00+02:00"
	d, err := parseDueDate(&good)
	if err != nil || d.Hour() != 8 {
		t.Fatalf("rfc3339: %v %v", d, err)
	}
	bad := "tomorrow"
	if _, err := parseDueDate(&bad); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("bad date err = %v", err)
	}
}
