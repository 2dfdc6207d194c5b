package httperr_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/server/httperr"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.Kindf(errs.KindUnknownGame, "unknown game %q", "keno"), http.StatusNotFound},
		{errs.Wrap(errs.Kindf(errs.KindUnknownGame, "x"), "outer"), http.StatusNotFound},
		{errs.Kindf(errs.KindDisabledGame, "disabled"), http.StatusBadRequest},
		{errs.NewWarn("bad input"), http.StatusBadRequest},
		{errs.NewFatal("broken"), http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errs.Wrap(context.Canceled, "load"), http.StatusRequestTimeout},
	}
	for _, c := range cases {
		if got := httperr.StatusCode(c.err); got != c.want {
			t.Fatalf("%v: got %d want %d", c.err, got, c.want)
		}
	}
}

func TestErrsWritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	httperr.Errs(rec, errs.Kindf(errs.KindUnknownMode, "unknown generation mode %q", "lucky"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	var b httperr.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatal(err)
	}
	if b.Kind != errs.KindUnknownMode || b.Category != "ConfigError" {
		t.Fatalf("body %+v", b)
	}

	rec = httptest.NewRecorder()
	httperr.Errs(rec, nil)
	if rec.Body.Len() != 0 {
		t.Fatalf("nil error must not write")
	}
}
