package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/finsignal/bankfeed/internal/httpapi"
	"github.com/finsignal/bankfeed/pkg/bankfeed"
	"github.com/finsignal/bankfeed/pkg/bankfeed/config"
	"github.com/finsignal/bankfeed/pkg/bankfeed/source/reddit"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store/jsonfile"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store/sqlite"
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "Listen address")
		dbPath       = flag.String("db", "", "SQLite database path (overrides -data/-hashes)")
		dataPath     = flag.String("data", "scraped_data.json", "Records JSON file")
		hashPath     = flag.String("hashes", "seen_posts.json", "Seen-hash JSON file")
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

	server := httpapi.New(pipeline, st, log)
	if err := server.Start(*addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
