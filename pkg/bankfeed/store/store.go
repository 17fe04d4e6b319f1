// Package store defines the incremental persistence contract for annotated
// records and their dedup hashes. The two collections share one lifecycle:
// loaded together, appended together, cleared together.
package store

import "context"

// Record is one annotated (post, institution) observation. Immutable once
// created; Index is process-wide unique and gapless across runs.
type Record struct {
	Index          int64   `json:"index"`
	Platform       string  `json:"platform"`
	BankName       string  `json:"bank_name"`
	PostText       string  `json:"post_text"`
	Category       string  `json:"category"`
	SentimentLabel string  `json:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score"`
	Date           string  `json:"date"`
	UserFollowers  int     `json:"user_followers"`
	Likes          int     `json:"likes"`
	Shares         int     `json:"shares"`
	Replies        int     `json:"replies"`
	Language       string  `json:"language"`
	SourceURL      string  `json:"source_url"`
	PostID         string  `json:"post_id"`
	Hash           string  `json:"hash"`
}

// State is the loaded store content: records in index order plus the seen
// dedup hashes.
type State struct {
	Records []Record
	Seen    map[string]struct{}
}

// Status summarizes stored volume without loading record bodies.
type Status struct {
	Records int `json:"total_records"`
	Hashes  int `json:"unique_post_bank_combinations"`
}

// Store persists the growing record set and the seen-hash set.
//
// Load returns the best-effort previous state: corrupt or missing state
// yields empty collections with a warning, never an error that aborts a run.
// AppendAndPersist makes the new records and hashes durable together;
// either both become visible or neither does. Clear removes records and
// hashes as a unit.
type Store interface {
	Close() error

	Load(ctx context.Context) (State, error)
	AppendAndPersist(ctx context.Context, records []Record, hashes []string) error
	Clear(ctx context.Context) error
	Status(ctx context.Context) (Status, error)
}

// SeenFrom builds the seen-hash set from a hash list plus the hashes already
// embedded in records, so a lagging hash file can never resurrect a
// previously emitted record.
func SeenFrom(hashes []string, records []Record) map[string]struct{} {
	seen := make(map[string]struct{}, len(hashes)+len(records))
	for _, h := range hashes {
		if h != "" {
			seen[h] = struct{}{}
		}
	}
	for _, r := range records {
		if r.Hash != "" {
			seen[r.Hash] = struct{}{}
		}
	}
	return seen
}
