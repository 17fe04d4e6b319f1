package httpapi

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/finsignal/bankfeed/pkg/bankfeed"
	"github.com/finsignal/bankfeed/pkg/bankfeed/internalerr"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store"
)

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) detect(c fiber.Ctx) error {
	text := c.Query("text")
	if text == "" {
		return jsonError(c, fiber.StatusBadRequest, "text query parameter is required")
	}
	return jsonSuccess(c, s.pipeline.Detect(text))
}

func (s *Server) ingest(c fiber.Ctx) error {
	params := bankfeed.RunParams{
		Subreddits:  splitSubs(c.Query("subs")),
		Sort:        c.Query("sort"),
		FetchLimit:  queryInt(c, "fetch_limit", 0),
		MinScore:    queryIntPtr(c, "min_score"),
		MinComments: queryIntPtr(c, "min_comments"),
		TimeFilter:  c.Query("time_filter"),
	}

	summary, err := s.pipeline.Run(c.Context(), params)
	if err != nil {
		return s.pipelineError(c, err)
	}

	if strings.EqualFold(c.Query("format"), "csv") {
		state, err := s.store.Load(c.Context())
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to load stored data")
		}
		return writeCSV(c, state.Records)
	}
	return jsonSuccess(c, summary)
}

func (s *Server) banks(c fiber.Ctx) error {
	params := bankfeed.GroupParams{
		Subreddits:      splitSubs(c.Query("subs")),
		Sort:            c.Query("sort"),
		FetchLimit:      queryInt(c, "fetch_limit", 0),
		PerBankLimit:    queryInt(c, "per_bank_limit", 10),
		IncludeComments: queryBool(c, "include_comments", true),
		IssueOnly:       queryBool(c, "issue_only", true),
		MinScore:        queryInt(c, "min_score", 5),
		MinComments:     queryInt(c, "min_comments", 5),
		TimeFilter:      c.Query("time_filter"),
	}

	result, err := s.pipeline.GroupByBank(c.Context(), params)
	if err != nil {
		return s.pipelineError(c, err)
	}
	return jsonSuccess(c, result)
}

func (s *Server) dataStatus(c fiber.Ctx) error {
	status, err := s.store.Status(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read store status")
	}
	return jsonSuccess(c, status)
}

func (s *Server) dataExport(c fiber.Ctx) error {
	state, err := s.store.Load(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load stored data")
	}

	if strings.EqualFold(c.Query("format"), "csv") {
		return writeCSV(c, state.Records)
	}
	return jsonSuccess(c, fiber.Map{
		"data":          state.Records,
		"total_records": len(state.Records),
		"exported_at":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) dataClear(c fiber.Ctx) error {
	if err := s.store.Clear(c.Context()); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to clear stored data")
	}
	return jsonSuccess(c, fiber.Map{"message": "all data cleared"})
}

func (s *Server) pipelineError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, internalerr.ErrInvalidInput):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, internalerr.ErrSourceFetch):
		return jsonError(c, fiber.StatusBadGateway, "failed to fetch posts")
	default:
		s.log.WithError(err).Error("ingestion failed")
		return jsonError(c, fiber.StatusInternalServerError, "ingestion failed")
	}
}

func writeCSV(c fiber.Ctx, records []store.Record) error {
	var buf bytes.Buffer
	if err := store.WriteCSV(&buf, records); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to render csv")
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	return c.Send(buf.Bytes())
}

// splitSubs parses the plus-separated subreddit list.
func splitSubs(subs string) []string {
	if subs == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(subs, "+") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func queryInt(c fiber.Ctx, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// queryIntPtr returns nil when the parameter is absent or malformed, so an
// explicit "0" stays distinguishable from "not given".
func queryIntPtr(c fiber.Ctx, key string) *int {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func queryBool(c fiber.Ctx, key string, def bool) bool {
	v := c.Query(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
