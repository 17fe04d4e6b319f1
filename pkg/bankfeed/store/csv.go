package store

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVFields is the export field set, in serialization order.
var CSVFields = []string{
	"index", "platform", "bank_name", "post_text", "category",
	"sentiment_label", "sentiment_score", "date", "user_followers",
	"likes", "shares", "replies", "language", "source_url", "post_id", "hash",
}

// WriteCSV writes one header row followed by one row per record.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVFields); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.Index, 10),
			r.Platform,
			r.BankName,
			r.PostText,
			r.Category,
			r.SentimentLabel,
			strconv.FormatFloat(r.SentimentScore, 'g', -1, 64),
			r.Date,
			strconv.Itoa(r.UserFollowers),
			strconv.Itoa(r.Likes),
			strconv.Itoa(r.Shares),
			strconv.Itoa(r.Replies),
			r.Language,
			r.SourceURL,
			r.PostID,
			r.Hash,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
