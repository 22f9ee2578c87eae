package responses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type, got %q", got)
	}

	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data["hello"] != "world" {
		t.Fatalf("unexpected payload: %+v", body)
	}
}

func TestWriteErrorUsesCodeMetadata(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(nil, nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))

	want := pkgerrors.MetadataFor(pkgerrors.CodeNotFound).HTTPStatus
	if w.Code != want {
		t.Fatalf("expected status %d, got %d", want, w.Code)
	}

	var body types.ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code: %q", body.Error.Code)
	}
	if body.Error.Message != "product not found" {
		t.Fatalf("expected caller message to pass through, got %q", body.Error.Message)
	}
}

func TestWriteErrorMasksInternalMessages(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(nil, nil, w, pkgerrors.New(pkgerrors.CodeInternal, "sqlite exploded"))

	var body types.ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Message == "sqlite exploded" {
		t.Fatal("internal details must not leak to clients")
	}
}
