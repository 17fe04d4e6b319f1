package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/finsignal/bankfeed/pkg/bankfeed"
	"github.com/finsignal/bankfeed/pkg/bankfeed/config"
	"github.com/finsignal/bankfeed/pkg/bankfeed/source"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store/memstore"
)

type stubSource struct {
	posts map[string][]source.RawPost
}

func (s *stubSource) Posts(_ context.Context, l source.Listing) ([]source.RawPost, error) {
	return s.posts[l.Subreddit], nil
}

func (s *stubSource) Comments(context.Context, source.RawPost) ([]source.Comment, error) {
	return nil, nil
}

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	comp, err := config.Loader{}.Load()
	if err != nil {
		t.Fatal(err)
	}
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	log.SetOutput(io.Discard)

	src := &stubSource{posts: map[string][]source.RawPost{
		"Banking": {{
			ID:          "p1",
			Title:       "Chase app keeps crashing",
			SelfText:    "terrible update",
			Score:       20,
			NumComments: 10,
			CreatedUTC:  1754560000,
			Permalink:   "/r/Banking/comments/p1/x/",
			Subreddit:   "Banking",
		}},
		"LowTraffic": {{
			ID:          "p2",
			Title:       "Monzo card declined abroad",
			SelfText:    "nobody upvotes here",
			Score:       0,
			NumComments: 0,
			CreatedUTC:  1754560000,
			Permalink:   "/r/LowTraffic/comments/p2/x/",
			Subreddit:   "LowTraffic",
		}},
	}}

	st := memstore.New()
	pipeline := bankfeed.New(bankfeed.Options{
		Store:      st,
		Source:     src,
		Components: comp,
		Logger:     log,
	})
	return New(pipeline, st, log), st
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestDetectEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req, _ := http.NewRequest("GET", "/debug/detect?text=Chase+login+failed", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	var res bankfeed.DetectResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatal(err)
	}
	if len(res.BanksDetected) != 1 || res.BanksDetected[0] != "chase" {
		t.Errorf("banks = %v", res.BanksDetected)
	}
	if !res.IsIssue {
		t.Error("expected is_issue")
	}
}

func TestDetectRequiresText(t *testing.T) {
	s, _ := newTestServer(t)

	req, _ := http.NewRequest("GET", "/debug/detect", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestIngestEndpoint(t *testing.T) {
	s, st := newTestServer(t)

	req, _ := http.NewRequest("POST", "/ingest?subs=Banking", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	var sum bankfeed.RunSummary
	if err := json.Unmarshal(env.Data, &sum); err != nil {
		t.Fatal(err)
	}
	if sum.TotalNewRecords != 1 {
		t.Errorf("total_new_records = %d", sum.TotalNewRecords)
	}

	status, err := st.Status(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if status.Records != 1 {
		t.Errorf("store holds %d records after ingest", status.Records)
	}
}

func TestIngestExplicitZeroThresholds(t *testing.T) {
	s, _ := newTestServer(t)

	// Default thresholds drop the zero-engagement post.
	req, _ := http.NewRequest("POST", "/ingest?subs=LowTraffic", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	env := decodeEnvelope(t, resp)
	var sum bankfeed.RunSummary
	if err := json.Unmarshal(env.Data, &sum); err != nil {
		t.Fatal(err)
	}
	if sum.TotalNewRecords != 0 {
		t.Fatalf("default thresholds admitted %d records", sum.TotalNewRecords)
	}

	// An explicit zero disables the gate instead of reading as "unset".
	req, _ = http.NewRequest("POST", "/ingest?subs=LowTraffic&min_score=0&min_comments=0", nil)
	resp, err = s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	env = decodeEnvelope(t, resp)
	if err := json.Unmarshal(env.Data, &sum); err != nil {
		t.Fatal(err)
	}
	if sum.TotalNewRecords != 1 {
		t.Errorf("min_score=0&min_comments=0 must admit the post, got %d records", sum.TotalNewRecords)
	}
}

func TestIngestRejectsBadSort(t *testing.T) {
	s, _ := newTestServer(t)

	req, _ := http.NewRequest("POST", "/ingest?subs=Banking&sort=best", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestIngestCSVFormat(t *testing.T) {
	s, _ := newTestServer(t)

	req, _ := http.NewRequest("POST", "/ingest?subs=Banking&format=csv", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "index,platform,bank_name") {
		t.Errorf("csv header missing: %s", body)
	}
	if !strings.Contains(string(body), "chase") {
		t.Errorf("record row missing: %s", body)
	}
}

func TestBanksEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req, _ := http.NewRequest("GET", "/banks?subs=Banking&issue_only=true&include_comments=false", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	var res bankfeed.GroupResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatal(err)
	}
	if len(res.FoundBanks) != 1 || res.FoundBanks[0] != "chase" {
		t.Errorf("found_banks = %v", res.FoundBanks)
	}
}

func TestDataLifecycle(t *testing.T) {
	s, _ := newTestServer(t)

	// Empty store first.
	req, _ := http.NewRequest("GET", "/data/status", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	env := decodeEnvelope(t, resp)
	var status store.Status
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatal(err)
	}
	if status.Records != 0 {
		t.Errorf("fresh store has %d records", status.Records)
	}

	// Ingest, then status again.
	req, _ = http.NewRequest("POST", "/ingest?subs=Banking", nil)
	if _, err := s.App.Test(req); err != nil {
		t.Fatal(err)
	}
	req, _ = http.NewRequest("GET", "/data/status", nil)
	resp, err = s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	env = decodeEnvelope(t, resp)
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatal(err)
	}
	if status.Records != 1 || status.Hashes != 1 {
		t.Errorf("status after ingest = %+v", status)
	}

	// Export.
	req, _ = http.NewRequest("GET", "/data/export?format=csv", nil)
	resp, err = s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "chase") {
		t.Errorf("export missing record: %s", body)
	}

	// Clear, then verify empty.
	req, _ = http.NewRequest("DELETE", "/data/clear", nil)
	resp, err = s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear status = %d", resp.StatusCode)
	}

	req, _ = http.NewRequest("GET", "/data/status", nil)
	resp, err = s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	env = decodeEnvelope(t, resp)
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatal(err)
	}
	if status.Records != 0 || status.Hashes != 0 {
		t.Errorf("status after clear = %+v", status)
	}
}
