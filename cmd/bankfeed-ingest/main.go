package main

import (
	"context"
	"flag"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/finsignal/bankfeed/pkg/bankfeed"
	"github.com/finsignal/bankfeed/pkg/bankfeed/config"
	"github.com/finsignal/bankfeed/pkg/bankfeed/source/reddit"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store/jsonfile"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store/sqlite"
)

func main() {
	var (
		dbPath       = flag.String("db", "", "SQLite database path (overrides -data/-hashes)")
		dataPath     = flag.String("data", "scraped_data.json", "Records JSON file")
		hashPath     = flag.String("hashes", "seen_posts.json", "Seen-hash JSON file")
		subs         = flag.String("subs", "", "Subreddits separated by + (default: built-in list)")
		sortOrder    = flag.String("sort", "", "Listing sort: hot, new, top, rising")
		fetchLimit   = flag.Int("limit", 0, "Posts to fetch per subreddit")
		minScore     = flag.Int("min-score", 5, "Minimum post score (0 disables)")
		minComments  = flag.Int("min-comments", 5, "Minimum comment count (0 disables)")
		timeFilter   = flag.String("time", "", "Time filter for sort=top (hour, day, week, month, year, all)")
		lexiconPath  = flag.String("lexicon", "", "Lexicon YAML override (optional)")
		taxonomyPath = flag.String("taxonomy", "", "Taxonomy YAML override (optional)")
		verbose      = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx := context.Background()

	components, err := config.Loader{
		LexiconPath:  *lexiconPath,
		TaxonomyPath: *taxonomyPath,
	}.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	var st store.Store
	if *dbPath != "" {
		st, err = sqlite.OpenSQLite(ctx, *dbPath, log)
		if err != nil {
			log.WithError(err).Fatal("failed to open database")
		}
	} else {
		st = jsonfile.New(*dataPath, *hashPath, log)
	}

	pipeline := bankfeed.New(bankfeed.Options{
		Store:      st,
		Source:     reddit.NewClient(),
		Components: components,
		Logger:     log,
	})
	defer pipeline.Close()

	params := bankfeed.RunParams{
		Sort:        *sortOrder,
		FetchLimit:  *fetchLimit,
		MinScore:    minScore,
		MinComments: minComments,
		TimeFilter:  *timeFilter,
	}
	if *subs != "" {
		params.Subreddits = strings.Split(*subs, "+")
	}

	summary, err := pipeline.Run(ctx, params)
	if err != nil {
		log.WithError(err).Fatal("ingestion failed")
	}

	log.WithFields(logrus.Fields{
		"run_id":             summary.RunID,
		"new_records":        summary.TotalNewRecords,
		"total_records":      summary.TotalAllRecords,
		"duplicates_skipped": summary.DuplicatesSkipped,
	}).Info("done")
}
