package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sukalov/versuri/internal/db"
	"github.com/sukalov/versuri/internal/fetcher"
	"github.com/sukalov/versuri/internal/logger"
	"github.com/sukalov/versuri/internal/picker"
	"github.com/sukalov/versuri/internal/resolver"
	"github.com/sukalov/versuri/internal/search"
	"github.com/sukalov/versuri/internal/sources"
	"github.com/sukalov/versuri/internal/stats"
)

func main() {
	var (
		artist      string
		song        string
		searchQuery string
		importFile  string
		maxDelay    time.Duration
		verbose     bool
	)

	flag.StringVar(&artist, "artist", "", "artist name (with -song)")
	flag.StringVar(&song, "song", "", "song name (with -artist)")
	flag.StringVar(&searchQuery, "search", "", "search stored lyrics; leading space searches by artist, empty string lists everything")
	flag.StringVar(&importFile, "import", "", "bulk import 'artist - song' lines from a file")
	flag.DurationVar(&maxDelay, "max-delay", 5*time.Second, "maximum random delay between bulk import fetches")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.Parse()

	logger.SetVerbose(verbose)

	database, err := db.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open lyrics database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	res := resolver.New(database, fetcher.New(), sources.NewDefault())
	statsManager, err := stats.NewManager()
	if err != nil {
		logger.Debug(fmt.Sprintf("lookup stats disabled: %v", err))
		statsManager = nil
	}

	switch {
	case artist != "" && song != "":
		runLookup(res, statsManager, artist, song)
	case importFile != "":
		runImport(res, importFile, maxDelay)
	case isSearchInvocation():
		runSearch(database, res, statsManager, searchQuery)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// isSearchInvocation reports whether -search was passed at all, so that
// an explicit empty query still lists every stored entry.
func isSearchInvocation() bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "search" {
			passed = true
		}
	})
	return passed
}

func runLookup(res *resolver.Resolver, statsManager *stats.Manager, artist, song string) {
	lyrics, found := res.ResolveSync(artist, song)
	if !found {
		fmt.Fprintf(os.Stderr, "no lyrics found for %s - %s\n", artist, song)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := statsManager.IncrementLookup(ctx, artist, song); err != nil {
		logger.Debug(fmt.Sprintf("failed to count lookup: %v", err))
	}

	fmt.Println(lyrics)
}

func runSearch(database *db.Manager, res *resolver.Resolver, statsManager *stats.Manager, query string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := search.Query(ctx, database, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Println("nothing found")
		return
	}

	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = row.Display
	}

	index, ok := picker.Pick(os.Stdin, os.Stdout, "pick a song:", labels)
	if !ok {
		return
	}
	runLookup(res, statsManager, rows[index].Artist, rows[index].Song)
}

func runImport(res *resolver.Resolver, path string, maxDelay time.Duration) {
	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open import file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	var pairs []resolver.Pair
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		artist, song, found := strings.Cut(line, " - ")
		if !found {
			logger.Info(fmt.Sprintf("skipping malformed line: %s", line))
			continue
		}
		pairs = append(pairs, resolver.Pair{
			Artist: strings.TrimSpace(artist),
			Song:   strings.TrimSpace(song),
		})
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read import file: %v\n", err)
		os.Exit(1)
	}

	logger.Info(fmt.Sprintf("importing %d songs", len(pairs)))
	res.SaveAll(pairs, maxDelay)
	logger.Success("bulk import finished")
}
