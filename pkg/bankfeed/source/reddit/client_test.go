package reddit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/finsignal/bankfeed/pkg/bankfeed/internalerr"
	"github.com/finsignal/bankfeed/pkg/bankfeed/source"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithRateLimit(rate.Inf, 1))
}

const listingJSON = `{
  "data": {
    "children": [
      {"kind": "t3", "data": {
        "id": "p1", "title": "Chase &amp; Citi compared", "selftext": "body text",
        "author": "u1", "score": 42, "num_comments": 9,
        "created_utc": 1754560000.0, "permalink": "/r/Banking/comments/p1/x/",
        "url": "https://reddit.com/p1", "subreddit": "Banking"
      }},
      {"kind": "t3", "data": {
        "id": "p2", "title": "second", "selftext": "",
        "author": "u2", "score": 1, "num_comments": 0,
        "created_utc": 1754560001.0, "permalink": "/r/Banking/comments/p2/x/",
        "url": "https://reddit.com/p2", "subreddit": "Banking"
      }},
      {"kind": "t5", "data": {"id": "notapost"}}
    ]
  }
}`

func TestPostsParsesListing(t *testing.T) {
	var gotPath, gotUA string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(listingJSON))
	})

	posts, err := c.Posts(context.Background(), source.Listing{
		Subreddit: "Banking", Sort: source.SortHot, Limit: 50,
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/r/Banking/hot.json" {
		t.Errorf("requested %q", gotPath)
	}
	if gotUA == "" {
		t.Error("request sent without a User-Agent")
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts (t5 child skipped), got %d", len(posts))
	}
	if posts[0].ID != "p1" || posts[0].Score != 42 || posts[0].Subreddit != "Banking" {
		t.Errorf("post fields wrong: %+v", posts[0])
	}
	if posts[0].Title != "Chase & Citi compared" {
		t.Errorf("HTML entity not decoded: %q", posts[0].Title)
	}
}

func TestPostsTopSortCarriesTimeFilter(t *testing.T) {
	var gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":{"children":[]}}`))
	})

	_, err := c.Posts(context.Background(), source.Listing{
		Subreddit: "Banking", Sort: source.SortTop, Limit: 25, TimeFilter: "day",
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "limit=25&t=day" {
		t.Errorf("query = %q, want limit=25&t=day", gotQuery)
	}
}

func TestPostsRejectsBadInput(t *testing.T) {
	c := NewClient(WithRateLimit(rate.Inf, 1))

	_, err := c.Posts(context.Background(), source.Listing{Subreddit: "x", Sort: "best", Limit: 10})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("bad sort: got %v", err)
	}

	_, err = c.Posts(context.Background(), source.Listing{Subreddit: "x", Sort: source.SortHot, Limit: 0})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("limit 0: got %v", err)
	}

	_, err = c.Posts(context.Background(), source.Listing{Subreddit: "x", Sort: source.SortHot, Limit: 501})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("limit 501: got %v", err)
	}
}

func TestPostsPaginatesPastPageCap(t *testing.T) {
	var queries []string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		if r.URL.Query().Get("after") == "" {
			// First page: full page of stubs plus a cursor.
			var b strings.Builder
			b.WriteString(`{"data":{"after":"t3_page2","children":[`)
			for i := 0; i < 100; i++ {
				if i > 0 {
					b.WriteString(",")
				}
				fmt.Fprintf(&b, `{"kind":"t3","data":{"id":"a%d"}}`, i)
			}
			b.WriteString(`]}}`)
			w.Write([]byte(b.String()))
			return
		}
		w.Write([]byte(`{"data":{"after":"","children":[
			{"kind":"t3","data":{"id":"b0"}},
			{"kind":"t3","data":{"id":"b1"}}
		]}}`))
	})

	posts, err := c.Posts(context.Background(), source.Listing{
		Subreddit: "Banking", Sort: source.SortHot, Limit: 150,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(queries) != 2 {
		t.Fatalf("expected 2 page requests, got %d: %v", len(queries), queries)
	}
	if queries[0] != "limit=100" {
		t.Errorf("first page query = %q", queries[0])
	}
	if queries[1] != "after=t3_page2&limit=50" {
		t.Errorf("second page query = %q", queries[1])
	}
	// Upstream ran dry before the limit; both pages are kept.
	if len(posts) != 102 {
		t.Errorf("got %d posts, want 102", len(posts))
	}
	if posts[100].ID != "b0" {
		t.Errorf("second page posts out of order: %+v", posts[100])
	}
}

func TestPostsWrapsUpstreamFailure(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := c.Posts(context.Background(), source.Listing{
		Subreddit: "Banking", Sort: source.SortHot, Limit: 10,
	})
	if !errors.Is(err, internalerr.ErrSourceFetch) {
		t.Errorf("expected ErrSourceFetch, got %v", err)
	}
}

const commentsJSON = `[
  {"data": {"children": [{"kind": "t3", "data": {"id": "p1"}}]}},
  {"data": {"children": [
    {"kind": "t1", "data": {"id": "c1", "body": "their app keeps crashing"}},
    {"kind": "t1", "data": {"id": "c2", "body": "[deleted]"}},
    {"kind": "more", "data": {"count": 12}},
    {"kind": "t1", "data": {"id": "c3", "body": "works for me"}}
  ]}}
]`

func TestCommentsTopLevelOnly(t *testing.T) {
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(commentsJSON))
	})

	comments, err := c.Comments(context.Background(), source.RawPost{
		ID: "p1", Permalink: "/r/Banking/comments/p1/x/",
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/r/Banking/comments/p1/x/.json" {
		t.Errorf("requested %q", gotPath)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments (deleted and more skipped), got %d", len(comments))
	}
	if comments[0].Body != "their app keeps crashing" || comments[1].ID != "c3" {
		t.Errorf("comments mangled: %+v", comments)
	}
}

func TestCommentsWithoutPermalink(t *testing.T) {
	c := NewClient(WithRateLimit(rate.Inf, 1))
	comments, err := c.Comments(context.Background(), source.RawPost{ID: "p1"})
	if err != nil || comments != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", comments, err)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"a &amp; b", "a & b"},
		{"<p>hello <b>world</b></p>", "hello world"},
		{"  padded  ", "padded"},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
