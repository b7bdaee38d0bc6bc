package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/recipegrid/internal/config"
	"github.com/JonMunkholm/recipegrid/internal/core"
	"github.com/JonMunkholm/recipegrid/internal/store"
	"github.com/google/go-cmp/cmp"
)

func patch(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func prices(rows []RowResponse) []core.Price {
	out := make([]core.Price, len(rows))
	for i, r := range rows {
		out[i] = r.Price
	}
	return out
}

func TestAPI_ListRecords(t *testing.T) {
	s, svc := newTestServer(t, sampleRecords(), store.NewMemory())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/records", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decode[RecordsResponse](t, rec)

	want := RecordsResponse{
		Revision: svc.Revision(),
		Rows: []RowResponse{
			{Position: 0, Record: sampleRecords()[0]},
			{Position: 1, Record: sampleRecords()[1]},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records (-want +got):\n%s", diff)
	}
	if rec.Header().Get("ETag") != `"`+svc.Revision()+`"` {
		t.Errorf("ETag = %q", rec.Header().Get("ETag"))
	}
}

func TestAPI_ListRecordsSorted(t *testing.T) {
	records := []core.Record{{Name: "a", Price: 30}, {Name: "b", Price: 10}, {Name: "c", Price: 20}}
	s, _ := newTestServer(t, records, store.NewMemory())

	got := decode[RecordsResponse](t, do(t, s, httptest.NewRequest(http.MethodGet, "/api/records?sort=price&dir=asc", nil)))
	if diff := cmp.Diff([]core.Price{10, 20, 30}, prices(got.Rows)); diff != "" {
		t.Errorf("prices (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 0}, []int{got.Rows[0].Position, got.Rows[1].Position, got.Rows[2].Position}); diff != "" {
		t.Errorf("positions (-want +got):\n%s", diff)
	}
	if got.Sort == nil || got.Sort.Column != core.FieldPrice || got.Sort.Dir != core.SortAsc {
		t.Errorf("sort = %+v", got.Sort)
	}
}

func TestAPI_ETag(t *testing.T) {
	s, _ := newTestServer(t, sampleRecords(), store.NewMemory())

	first := do(t, s, httptest.NewRequest(http.MethodGet, "/api/records", nil))
	tag := first.Header().Get("ETag")

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	req.Header.Set("If-None-Match", tag)
	if rec := do(t, s, req); rec.Code != http.StatusNotModified {
		t.Errorf("unchanged status = %d, want 304", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/records?sort=price&dir=desc", nil)
	req.Header.Set("If-None-Match", tag)
	if rec := do(t, s, req); rec.Code != http.StatusOK {
		t.Errorf("different sort status = %d, want 200", rec.Code)
	}

	do(t, s, patch("/api/records/0", `{"field":"price","value":1}`))

	req = httptest.NewRequest(http.MethodGet, "/api/records", nil)
	req.Header.Set("If-None-Match", tag)
	rec := do(t, s, req)
	if rec.Code != http.StatusOK {
		t.Errorf("after edit status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("ETag") == tag {
		t.Error("ETag unchanged after edit")
	}
}

func TestEtagMatches(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{`"r1"`, true},
		{`W/"r1"`, true},
		{`"r0", "r1"`, true},
		{`*`, true},
		{`"r2"`, false},
		{`r1`, false},
	}
	for _, tt := range tests {
		if got := etagMatches(tt.header, `"r1"`); got != tt.want {
			t.Errorf("etagMatches(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestAPI_NotReady(t *testing.T) {
	svc := core.NewService(staticSource(sampleRecords()), store.NewMemory(), "")
	s := NewServer(svc, config.ServerConfig{})

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/records", nil),
		patch("/api/records/0", `{"field":"price","value":"1"}`),
		httptest.NewRequest(http.MethodPost, "/api/reset", nil),
		httptest.NewRequest(http.MethodPost, "/api/submit", nil),
	}
	for _, req := range requests {
		rec := do(t, s, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s status = %d, want 503", req.Method, req.URL.Path, rec.Code)
			continue
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Errorf("%s %s missing Retry-After", req.Method, req.URL.Path)
		}
		if got := decode[ErrorResponse](t, rec); got.Code != "TBL001" {
			t.Errorf("%s %s code = %q, want TBL001", req.Method, req.URL.Path, got.Code)
		}
	}
}

func TestAPI_Status(t *testing.T) {
	svc := core.NewService(staticSource(sampleRecords()), store.NewMemory(), "")
	s := NewServer(svc, config.ServerConfig{})

	got := decode[StatusResponse](t, do(t, s, httptest.NewRequest(http.MethodGet, "/api/status", nil)))
	if got.State != core.StateLoading || got.Revision != "" {
		t.Errorf("status before load = %+v", got)
	}

	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	got = decode[StatusResponse](t, do(t, s, httptest.NewRequest(http.MethodGet, "/api/status", nil)))
	if got.State != core.StateReady || got.Revision == "" {
		t.Errorf("status after load = %+v", got)
	}
}

func TestAPI_UpdateRecord(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		body        string
		wantStatus  int
		wantUpdated bool
		wantCode    string
		wantPrice   core.Price
	}{
		{"string value", "/api/records/1", `{"field":"price","value":"99"}`, http.StatusOK, true, "", 99},
		{"number value", "/api/records/1", `{"field":"price","value":12.5}`, http.StatusOK, true, "", 12.5},
		{"out of range", "/api/records/9", `{"field":"price","value":"1"}`, http.StatusOK, false, "", 7},
		{"not a number", "/api/records/1", `{"field":"price","value":"abc"}`, http.StatusBadRequest, false, "VAL001", 7},
		{"boolean value", "/api/records/1", `{"field":"price","value":true}`, http.StatusBadRequest, false, "VAL001", 7},
		{"null value", "/api/records/1", `{"field":"price","value":null}`, http.StatusBadRequest, false, "VAL001", 7},
		{"read-only", "/api/records/1", `{"field":"label","value":"x"}`, http.StatusBadRequest, false, "TBL003", 7},
		{"bad position", "/api/records/x", `{"field":"price","value":"1"}`, http.StatusBadRequest, false, "TBL004", 7},
		{"unknown body field", "/api/records/1", `{"field":"price","value":"1","extra":1}`, http.StatusBadRequest, false, "ERR000", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, svc := newTestServer(t, sampleRecords(), store.NewMemory())
			before := svc.Revision()

			rec := do(t, s, patch(tt.path, tt.body))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantCode != "" {
				if got := decode[ErrorResponse](t, rec); got.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
				}
			} else {
				got := decode[UpdateResponse](t, rec)
				if got.Updated != tt.wantUpdated {
					t.Errorf("updated = %v, want %v", got.Updated, tt.wantUpdated)
				}
				if changed := got.Revision != before; changed != tt.wantUpdated {
					t.Errorf("revision changed = %v, want %v", changed, tt.wantUpdated)
				}
			}

			working, _ := svc.Working()
			if working[1].Price != tt.wantPrice {
				t.Errorf("price = %v, want %v", working[1].Price, tt.wantPrice)
			}
		})
	}
}

// The A/B walkthrough: edit, submit, reset.
func TestAPI_EditSubmitReset(t *testing.T) {
	st := store.NewMemory()
	s, _ := newTestServer(t, sampleRecords(), st)
	ctx := context.Background()

	list := func() RecordsResponse {
		return decode[RecordsResponse](t, do(t, s, httptest.NewRequest(http.MethodGet, "/api/records", nil)))
	}

	do(t, s, patch("/api/records/1", `{"field":"price","value":"99"}`))
	if diff := cmp.Diff([]core.Price{5, 99}, prices(list().Rows)); diff != "" {
		t.Errorf("after edit (-want +got):\n%s", diff)
	}

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/submit", nil))
	ack := decode[core.Ack](t, rec)
	if ack.Action != core.ActionSubmit || ack.Message != "Submitted the changes" || ack.Revision == "" {
		t.Errorf("submit ack = %+v", ack)
	}
	stored, found, _ := st.Get(ctx, core.DefaultStoreKey)
	if !found || !strings.Contains(stored, `"price":99`) {
		t.Errorf("stored = %q, %v", stored, found)
	}
	after := list()
	if !after.Shadowed {
		t.Error("view not shadowed after submit")
	}

	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	ack = decode[core.Ack](t, rec)
	if ack.Action != core.ActionReset || ack.Message != "Reset all the values" {
		t.Errorf("reset ack = %+v", ack)
	}
	if _, found, _ := st.Get(ctx, core.DefaultStoreKey); found {
		t.Error("reset left the persisted snapshot")
	}
	final := list()
	if final.Shadowed {
		t.Error("view still shadowed after reset")
	}
	if diff := cmp.Diff([]core.Price{5, 7}, prices(final.Rows)); diff != "" {
		t.Errorf("after reset (-want +got):\n%s", diff)
	}
}

func TestRawValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"99"`, "99"},
		{`99`, "99"},
		{`1e2`, "1e2"},
		{` "4.5" `, "4.5"},
		{`null`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		got, err := rawValue(json.RawMessage(tt.in))
		if err != nil || got != tt.want {
			t.Errorf("rawValue(%s) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	for _, in := range []string{`true`, `{}`, `[1]`} {
		if _, err := rawValue(json.RawMessage(in)); err == nil {
			t.Errorf("rawValue(%s) error = nil", in)
		}
	}
}
