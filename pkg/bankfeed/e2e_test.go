package bankfeed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/finsignal/bankfeed/pkg/bankfeed/config"
	"github.com/finsignal/bankfeed/pkg/bankfeed/source"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store/jsonfile"
)

// Exercises the full loop against the file-backed store: ingest, restart,
// ingest again, and confirm that history and deduplication survive the
// process boundary.
func TestPipelineSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "records.json")
	hashPath := filepath.Join(dir, "seen.json")

	comp, err := config.Loader{}.Load()
	if err != nil {
		t.Fatal(err)
	}
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	src := &stubSource{posts: map[string][]source.RawPost{
		"Banking": {
			goodPost("p1", "Chase app keeps crashing", "terrible update"),
			goodPost("p2", "Wells Fargo vs Chase", "which checking account is better"),
		},
	}}

	run := func(s *stubSource) RunSummary {
		t.Helper()
		p := New(Options{
			Store:      jsonfile.New(dataPath, hashPath, log),
			Source:     s,
			Components: comp,
			Logger:     log,
		})
		defer p.Close()

		sum, err := p.Run(context.Background(), RunParams{Subreddits: []string{"Banking"}})
		if err != nil {
			t.Fatal(err)
		}
		return sum
	}

	first := run(src)
	if first.TotalNewRecords != 3 {
		t.Fatalf("first run: %d records, want 3 (p1 chase, p2 chase, p2 wells fargo)", first.TotalNewRecords)
	}

	// Restart with one additional upstream post.
	src.posts["Banking"] = append(src.posts["Banking"],
		goodPost("p3", "Monzo transfer failed today", ""))
	second := run(src)

	if second.TotalNewRecords != 1 {
		t.Fatalf("second run: %d new records, want only p3", second.TotalNewRecords)
	}
	if second.NewData[0].Index != 3 {
		t.Errorf("index = %d, want 3 (continues after restart)", second.NewData[0].Index)
	}
	if second.DuplicatesSkipped != 3 {
		t.Errorf("duplicates_skipped = %d, want 3", second.DuplicatesSkipped)
	}
	if second.TotalAllRecords != 4 {
		t.Errorf("total_all_records = %d, want 4", second.TotalAllRecords)
	}
}
