// Package stats keeps per-song lookup counters in redis. Counters are a
// convenience layer: callers treat a nil *Manager as "stats disabled" and
// every method tolerates that.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/versuri/internal/utils"
)

const lookupsKey = "lyrics:lookups"

// fieldSep joins artist and song into one hash field; it cannot appear
// in either name.
const fieldSep = "\x1f"

type Manager struct {
	client *redisClient.Client
}

// Count is one (artist, song) pair with its lookup tally.
type Count struct {
	Artist string
	Song   string
	Count  int
}

// NewManager connects using REDIS_URL and REDIS_PASSWORD from the
// environment or .env.
func NewManager() (*Manager, error) {
	env, err := utils.LoadEnv([]string{"REDIS_URL", "REDIS_PASSWORD"})
	if err != nil {
		return nil, fmt.Errorf("failed to load redis env: %w", err)
	}

	opt, err := redisClient.ParseURL(fmt.Sprintf("rediss://default:%s@%s", env["REDIS_PASSWORD"], env["REDIS_URL"]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &Manager{client: redisClient.NewClient(opt)}, nil
}

// IncrementLookup bumps the counter for an (artist, song) pair.
func (m *Manager) IncrementLookup(ctx context.Context, artist, song string) error {
	if m == nil {
		return nil
	}
	field := strings.ToLower(artist) + fieldSep + strings.ToLower(song)
	if err := m.client.HIncrBy(ctx, lookupsKey, field, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment lookup count for %s - %s: %w", artist, song, err)
	}
	return nil
}

// Top returns the n most-requested pairs, most requested first.
func (m *Manager) Top(ctx context.Context, n int) ([]Count, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := m.client.HGetAll(ctx, lookupsKey).Result()
	if err != nil {
		if err == redisClient.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lookup counts: %w", err)
	}
	return topOf(raw, n), nil
}

func topOf(raw map[string]string, n int) []Count {
	counts := make([]Count, 0, len(raw))
	for field, value := range raw {
		tally, err := strconv.Atoi(value)
		if err != nil {
			continue // skip invalid counts
		}
		artist, song, found := strings.Cut(field, fieldSep)
		if !found {
			continue
		}
		counts = append(counts, Count{Artist: artist, Song: song, Count: tally})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Artist < counts[j].Artist
	})

	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
