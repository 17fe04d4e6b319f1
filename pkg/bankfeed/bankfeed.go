// Package bankfeed collects social posts that mention banks, annotates
// them, and persists them incrementally. The facade wires a post source, a
// store, and the compiled annotation components into one pipeline.
package bankfeed

import (
	"context"
	"crypto/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/finsignal/bankfeed/pkg/bankfeed/annotate"
	"github.com/finsignal/bankfeed/pkg/bankfeed/config"
	"github.com/finsignal/bankfeed/pkg/bankfeed/dedup"
	"github.com/finsignal/bankfeed/pkg/bankfeed/source"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store"
)

const permalinkBase = "https://www.reddit.com"

// Pipeline is the main ingestion facade.
type Pipeline struct {
	store        store.Store
	source       source.Source
	comp         *config.Components
	log          *logrus.Logger
	fetchWorkers int

	// runMu serializes whole ingestion runs. Index assignment starts from
	// the stored record count, so the load-to-persist span of one run must
	// not interleave with another run against the same store.
	runMu sync.Mutex

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures a Pipeline.
type Options struct {
	Store      store.Store
	Source     source.Source
	Components *config.Components
	Logger     *logrus.Logger
	// FetchWorkers bounds concurrent subreddit fetches. Zero means 4.
	FetchWorkers int
}

// New creates a Pipeline with the given dependencies.
func New(opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	workers := opts.FetchWorkers
	if workers <= 0 {
		workers = 4
	}
	return &Pipeline{
		store:        opts.Store,
		source:       opts.Source,
		comp:         opts.Components,
		log:          log,
		fetchWorkers: workers,
		entropy:      ulid.Monotonic(rand.Reader, 0),
	}
}

// Close shuts the pipeline down.
func (p *Pipeline) Close() error {
	return p.store.Close()
}

func (p *Pipeline) newRunID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ulid.MustNew(ulid.Now(), p.entropy).String()
}

// RunParams are the collection parameters for one ingestion run. Unset
// values fall back to the defaults from config.DefaultRun. MinScore and
// MinComments are pointers so that an explicit zero disables the
// corresponding threshold instead of reading as "unset".
type RunParams struct {
	Subreddits  []string `json:"-"`
	Sort        string   `json:"sort"`
	FetchLimit  int      `json:"fetch_limit"`
	MinScore    *int     `json:"min_score"`
	MinComments *int     `json:"min_comments"`
	TimeFilter  string   `json:"time_filter"`
}

func (rp RunParams) withDefaults() RunParams {
	def := config.DefaultRun()
	if len(rp.Subreddits) == 0 {
		rp.Subreddits = def.Subreddits
	}
	if rp.Sort == "" {
		rp.Sort = def.Sort
	}
	if rp.FetchLimit <= 0 {
		rp.FetchLimit = def.FetchLimit
	}
	if rp.MinScore == nil {
		v := def.MinScore
		rp.MinScore = &v
	}
	if rp.MinComments == nil {
		v := def.MinComments
		rp.MinComments = &v
	}
	if rp.TimeFilter == "" {
		rp.TimeFilter = def.TimeFilter
	}
	return rp
}

// RunSummary reports the outcome of one ingestion run.
type RunSummary struct {
	RunID             string         `json:"run_id"`
	NewData           []store.Record `json:"new_data"`
	TotalNewRecords   int            `json:"total_new_records"`
	TotalAllRecords   int            `json:"total_all_records"`
	Subreddits        []string       `json:"subreddits"`
	DuplicatesSkipped int            `json:"duplicates_skipped"`
	Params            RunParams      `json:"params"`
}

// annotation holds the per-post analysis shared by all emitted records.
type annotation struct {
	Banks     []string
	IsIssue   bool
	Platform  string
	Sentiment string
	Score     float64
	Topic     string
	Redacted  string
	Date      string
}

func (p *Pipeline) annotatePost(post source.RawPost) annotation {
	text := post.Title + "\n" + post.SelfText
	banks := p.comp.Lexicon.ExtractBanks(text)
	if len(banks) == 0 {
		return annotation{}
	}

	platform, _ := annotate.PlatformVersion(text)
	if platform == "" {
		platform = "unknown"
	}
	label, score := p.comp.Sentiment.Analyze(text)

	return annotation{
		Banks:     banks,
		IsIssue:   p.comp.Issues.Match(text),
		Platform:  strings.ToLower(platform),
		Sentiment: label,
		Score:     score,
		Topic:     p.comp.Topics.Classify(text),
		Redacted:  annotate.Redact(text),
		Date:      formatDate(post.CreatedUTC),
	}
}

func formatDate(createdUTC float64) string {
	return time.Unix(int64(createdUTC), 0).UTC().Format("2006-01-02 15:04:05")
}

// fetchAll retrieves listings for every subreddit with bounded concurrency.
// Results keep the subreddit order of params; a failed subreddit yields a
// nil slice and a warning rather than failing the run.
func (p *Pipeline) fetchAll(ctx context.Context, subs []string, sort string, limit int, timeFilter string) [][]source.RawPost {
	results := make([][]source.RawPost, len(subs))
	sem := make(chan struct{}, p.fetchWorkers)
	var wg sync.WaitGroup

	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			posts, err := p.source.Posts(ctx, source.Listing{
				Subreddit:  sub,
				Sort:       sort,
				Limit:      limit,
				TimeFilter: timeFilter,
			})
			if err != nil {
				p.log.WithError(err).WithField("subreddit", sub).Warn("subreddit fetch failed, skipping")
				return
			}
			results[i] = posts
		}(i, sub)
	}
	wg.Wait()
	return results
}

// Run executes one ingestion pass: fetch, filter, annotate, fan out per
// bank, deduplicate against prior runs, and persist what is new. Record
// indexes continue monotonically from the stored history.
func (p *Pipeline) Run(ctx context.Context, params RunParams) (RunSummary, error) {
	params = params.withDefaults()
	if err := source.ValidateSort(params.Sort); err != nil {
		return RunSummary{}, err
	}

	p.runMu.Lock()
	defer p.runMu.Unlock()

	state, err := p.store.Load(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	seen := state.Seen
	if seen == nil {
		seen = make(map[string]struct{})
	}
	index := int64(len(state.Records))

	listings := p.fetchAll(ctx, params.Subreddits, params.Sort, params.FetchLimit, params.TimeFilter)

	var (
		newData    []store.Record
		newHashes  []string
		duplicates int
	)
	for _, posts := range listings {
		for _, post := range posts {
			if !annotate.KeepByQuality(post.Score, post.NumComments, *params.MinScore, *params.MinComments) {
				continue
			}

			ann := p.annotatePost(post)
			if len(ann.Banks) == 0 {
				continue
			}

			text := post.Title + "\n" + post.SelfText
			for _, bank := range ann.Banks {
				hash := dedup.Hash(post.ID, bank, text)
				if dedup.IsDuplicate(hash, seen) {
					duplicates++
					continue
				}

				newData = append(newData, store.Record{
					Index:          index,
					Platform:       ann.Platform,
					BankName:       bank,
					PostText:       ann.Redacted,
					Category:       ann.Topic,
					SentimentLabel: ann.Sentiment,
					SentimentScore: ann.Score,
					Date:           ann.Date,
					UserFollowers:  0,
					Likes:          post.Score,
					Shares:         0,
					Replies:        post.NumComments,
					Language:       "en",
					SourceURL:      permalinkBase + post.Permalink,
					PostID:         post.ID,
					Hash:           hash,
				})
				newHashes = append(newHashes, hash)
				seen[hash] = struct{}{}
				index++
			}
		}
	}

	if len(newData) > 0 {
		if err := p.store.AppendAndPersist(ctx, newData, newHashes); err != nil {
			return RunSummary{}, err
		}
	}

	summary := RunSummary{
		RunID:             p.newRunID(),
		NewData:           newData,
		TotalNewRecords:   len(newData),
		TotalAllRecords:   len(state.Records) + len(newData),
		Subreddits:        params.Subreddits,
		DuplicatesSkipped: duplicates,
		Params:            params,
	}
	p.log.WithFields(logrus.Fields{
		"run_id":             summary.RunID,
		"new_records":        summary.TotalNewRecords,
		"total_records":      summary.TotalAllRecords,
		"duplicates_skipped": summary.DuplicatesSkipped,
	}).Info("ingestion run complete")
	return summary, nil
}

// DetectResult is the annotation of one ad-hoc text.
type DetectResult struct {
	Text          string   `json:"text"`
	Redacted      string   `json:"redacted"`
	BanksDetected []string `json:"banks_detected"`
	IsIssue       bool     `json:"is_issue"`
	Features      []string `json:"features"`
	PlatformHint  string   `json:"platform_hint,omitempty"`
	VersionHint   string   `json:"version_hint,omitempty"`
}

// Detect annotates a single text without touching the store.
func (p *Pipeline) Detect(text string) DetectResult {
	platform, version := annotate.PlatformVersion(text)
	return DetectResult{
		Text:          text,
		Redacted:      annotate.Redact(text),
		BanksDetected: p.comp.Lexicon.ExtractBanks(text),
		IsIssue:       p.comp.Issues.Match(text),
		Features:      p.comp.Features.Tags(text),
		PlatformHint:  platform,
		VersionHint:   version,
	}
}

// GroupParams are the parameters for a grouped, non-persisted collection.
type GroupParams struct {
	Subreddits      []string `json:"-"`
	Sort            string   `json:"sort"`
	FetchLimit      int      `json:"fetch_limit"`
	PerBankLimit    int      `json:"per_bank_limit"`
	IncludeComments bool     `json:"include_comments"`
	IssueOnly       bool     `json:"issue_only"`
	MinScore        int      `json:"min_score"`
	MinComments     int      `json:"min_comments"`
	TimeFilter      string   `json:"time_filter"`
}

// GroupedComment is a bank-relevant top-level comment on a grouped post.
type GroupedComment struct {
	ID            string   `json:"id"`
	Body          string   `json:"body"`
	BanksDetected []string `json:"banks_detected"`
	IsIssue       bool     `json:"is_issue"`
}

// GroupedPost is one post in a per-bank group.
type GroupedPost struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	CreatedUTC    float64          `json:"created_utc"`
	Score         int              `json:"score"`
	NumComments   int              `json:"num_comments"`
	Permalink     string           `json:"permalink"`
	URL           string           `json:"url"`
	BanksDetected []string         `json:"banks_detected"`
	IsIssue       bool             `json:"is_issue"`
	TextRedacted  string           `json:"text_redacted"`
	Comments      []GroupedComment `json:"comments"`
}

// GroupResult maps canonical bank names to their matching posts.
type GroupResult struct {
	Subreddits []string                 `json:"subreddits"`
	FoundBanks []string                 `json:"found_banks"`
	Banks      map[string][]GroupedPost `json:"banks"`
	Params     GroupParams              `json:"params"`
}

// GroupByBank scans listings and groups matching posts per bank, capped at
// PerBankLimit posts each. Scanning stops early once every discovered bank
// has a full group. Nothing is persisted.
func (p *Pipeline) GroupByBank(ctx context.Context, params GroupParams) (GroupResult, error) {
	def := config.DefaultRun()
	if len(params.Subreddits) == 0 {
		params.Subreddits = def.Subreddits
	}
	if params.Sort == "" {
		params.Sort = def.Sort
	}
	if params.FetchLimit <= 0 {
		params.FetchLimit = def.FetchLimit
	}
	if params.PerBankLimit <= 0 {
		params.PerBankLimit = 10
	}
	if params.TimeFilter == "" {
		params.TimeFilter = def.TimeFilter
	}
	if err := source.ValidateSort(params.Sort); err != nil {
		return GroupResult{}, err
	}

	grouped := make(map[string][]GroupedPost)

scan:
	for _, sub := range params.Subreddits {
		posts, err := p.source.Posts(ctx, source.Listing{
			Subreddit:  sub,
			Sort:       params.Sort,
			Limit:      params.FetchLimit,
			TimeFilter: params.TimeFilter,
		})
		if err != nil {
			p.log.WithError(err).WithField("subreddit", sub).Warn("subreddit fetch failed, skipping")
			continue
		}

		for _, post := range posts {
			if !annotate.KeepByQuality(post.Score, post.NumComments, params.MinScore, params.MinComments) {
				continue
			}

			text := post.Title + "\n" + post.SelfText
			banks := p.comp.Lexicon.ExtractBanks(text)
			if len(banks) == 0 {
				continue
			}
			isIssue := p.comp.Issues.Match(text)
			if params.IssueOnly && !isIssue {
				continue
			}

			info := GroupedPost{
				ID:            post.ID,
				Title:         annotate.Redact(post.Title),
				CreatedUTC:    post.CreatedUTC,
				Score:         post.Score,
				NumComments:   post.NumComments,
				Permalink:     permalinkBase + post.Permalink,
				URL:           post.URL,
				BanksDetected: banks,
				IsIssue:       isIssue,
				TextRedacted:  annotate.Redact(text),
				Comments:      []GroupedComment{},
			}
			if params.IncludeComments {
				info.Comments = p.groupedComments(ctx, post, params.IssueOnly)
			}

			for _, bank := range banks {
				if len(grouped[bank]) < params.PerBankLimit {
					grouped[bank] = append(grouped[bank], info)
				}
			}

			if len(grouped) > 0 && allFull(grouped, params.PerBankLimit) {
				break scan
			}
		}
	}

	found := make([]string, 0, len(grouped))
	for bank := range grouped {
		found = append(found, bank)
	}
	sort.Strings(found)

	return GroupResult{
		Subreddits: params.Subreddits,
		FoundBanks: found,
		Banks:      grouped,
		Params:     params,
	}, nil
}

// groupedComments fetches and filters top-level comments. A fetch failure
// degrades to an empty list.
func (p *Pipeline) groupedComments(ctx context.Context, post source.RawPost, issueOnly bool) []GroupedComment {
	comments, err := p.source.Comments(ctx, post)
	if err != nil {
		p.log.WithError(err).WithField("post_id", post.ID).Warn("comment fetch failed, continuing without comments")
		return []GroupedComment{}
	}

	out := []GroupedComment{}
	for _, c := range comments {
		banks := p.comp.Lexicon.ExtractBanks(c.Body)
		if len(banks) == 0 {
			continue
		}
		isIssue := p.comp.Issues.Match(c.Body)
		if issueOnly && !isIssue {
			continue
		}
		out = append(out, GroupedComment{
			ID:            c.ID,
			Body:          annotate.Redact(c.Body),
			BanksDetected: banks,
			IsIssue:       isIssue,
		})
	}
	return out
}

func allFull(grouped map[string][]GroupedPost, limit int) bool {
	for _, posts := range grouped {
		if len(posts) < limit {
			return false
		}
	}
	return true
}
