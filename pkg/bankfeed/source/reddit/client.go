// Package reddit implements source.Source against Reddit's public JSON
// listings. No OAuth is used; the client identifies itself with a custom
// User-Agent and paces requests with a client-side rate limiter.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/finsignal/bankfeed/pkg/bankfeed/internalerr"
	"github.com/finsignal/bankfeed/pkg/bankfeed/source"
)

const (
	defaultBaseURL   = "https://www.reddit.com"
	defaultUserAgent = "bankfeed/1.0 (bank mention collector)"

	// Reddit caps listing pages at 100 entries; larger limits are paged
	// through with the "after" cursor.
	maxPageSize = 100

	// Upper bound on posts fetched per listing call.
	maxListingLimit = 500

	// Top-level comments fetched per post.
	maxComments = 50
)

// Client fetches posts and comments from the public JSON API.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different host. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRateLimit sets the request pacing. Reddit throttles unauthenticated
// clients aggressively, so the default stays under one request per second.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// NewClient builds a Client with conservative defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: 15 * time.Second},
		limiter:   rate.NewLimiter(rate.Every(1200*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listing mirrors the envelope Reddit wraps every JSON response in.
type listing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Subreddit   string  `json:"subreddit"`
}

type commentData struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// Posts fetches up to l.Limit posts for a subreddit, paging with the
// "after" cursor when the limit exceeds one page.
func (c *Client) Posts(ctx context.Context, l source.Listing) ([]source.RawPost, error) {
	if err := source.ValidateSort(l.Sort); err != nil {
		return nil, err
	}
	if l.Limit < 1 || l.Limit > maxListingLimit {
		return nil, fmt.Errorf("%w: listing limit %d out of range 1..%d",
			internalerr.ErrInvalidInput, l.Limit, maxListingLimit)
	}

	var posts []source.RawPost
	after := ""
	for len(posts) < l.Limit {
		pageSize := l.Limit - len(posts)
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}

		q := url.Values{}
		q.Set("limit", strconv.Itoa(pageSize))
		if l.Sort == source.SortTop && l.TimeFilter != "" {
			q.Set("t", l.TimeFilter)
		}
		if after != "" {
			q.Set("after", after)
		}
		endpoint := fmt.Sprintf("%s/r/%s/%s.json?%s", c.baseURL, l.Subreddit, l.Sort, q.Encode())

		var lst listing
		if err := c.getJSON(ctx, endpoint, &lst); err != nil {
			return nil, fmt.Errorf("%w: r/%s: %v", internalerr.ErrSourceFetch, l.Subreddit, err)
		}

		for _, child := range lst.Data.Children {
			if child.Kind != "t3" {
				continue
			}
			var p postData
			if err := json.Unmarshal(child.Data, &p); err != nil {
				continue
			}
			posts = append(posts, source.RawPost{
				ID:          p.ID,
				Title:       cleanText(p.Title),
				SelfText:    cleanText(p.SelfText),
				Author:      p.Author,
				Score:       p.Score,
				NumComments: p.NumComments,
				CreatedUTC:  p.CreatedUTC,
				Permalink:   p.Permalink,
				URL:         p.URL,
				Subreddit:   p.Subreddit,
			})
			if len(posts) == l.Limit {
				break
			}
		}

		after = lst.Data.After
		if after == "" || len(lst.Data.Children) == 0 {
			break
		}
	}
	return posts, nil
}

// Comments fetches top-level comments for a post. Reddit returns two
// listings per comment page; the second one holds the comment tree.
// Collapsed "more" stubs are skipped.
func (c *Client) Comments(ctx context.Context, p source.RawPost) ([]source.Comment, error) {
	if p.Permalink == "" {
		return nil, nil
	}
	endpoint := fmt.Sprintf("%s%s.json?limit=%d", c.baseURL, p.Permalink, maxComments)

	var pages []listing
	if err := c.getJSON(ctx, endpoint, &pages); err != nil {
		return nil, fmt.Errorf("%w: comments for %s: %v", internalerr.ErrSourceFetch, p.ID, err)
	}
	if len(pages) < 2 {
		return nil, nil
	}

	var comments []source.Comment
	for _, child := range pages[1].Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var cd commentData
		if err := json.Unmarshal(child.Data, &cd); err != nil {
			continue
		}
		if cd.Body == "" || cd.Body == "[deleted]" || cd.Body == "[removed]" {
			continue
		}
		comments = append(comments, source.Comment{ID: cd.ID, Body: cleanText(cd.Body)})
		if len(comments) >= maxComments {
			break
		}
	}
	return comments, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// cleanText strips markup and HTML entities Reddit leaves in post bodies.
func cleanText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			extractText(ch)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
