// Package source defines where raw posts come from. A Source hides the
// upstream platform behind two operations: list posts for a subreddit and
// fetch top-level comments for one post.
package source

import (
	"context"
	"fmt"

	"github.com/finsignal/bankfeed/pkg/bankfeed/internalerr"
)

// Sort orders accepted by Reddit listings.
const (
	SortHot    = "hot"
	SortNew    = "new"
	SortTop    = "top"
	SortRising = "rising"
)

// RawPost is one upstream post before any annotation.
type RawPost struct {
	ID          string
	Title       string
	SelfText    string
	Author      string
	Score       int
	NumComments int
	CreatedUTC  float64
	Permalink   string
	URL         string
	Subreddit   string
}

// Comment is one top-level reply to a post.
type Comment struct {
	ID   string
	Body string
}

// Listing names one page of posts to fetch.
type Listing struct {
	Subreddit  string
	Sort       string
	Limit      int
	TimeFilter string
}

// Source fetches posts and comments from one platform.
type Source interface {
	Posts(ctx context.Context, l Listing) ([]RawPost, error)
	Comments(ctx context.Context, p RawPost) ([]Comment, error)
}

// ValidateSort rejects sort orders the upstream listing endpoints do not
// accept.
func ValidateSort(sort string) error {
	switch sort {
	case SortHot, SortNew, SortTop, SortRising:
		return nil
	}
	return fmt.Errorf("%w: unknown sort %q", internalerr.ErrInvalidInput, sort)
}
