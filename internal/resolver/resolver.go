// Package resolver turns an (artist, song) pair into lyric text. It asks
// the persistent cache first and, on a miss, probes the registered
// sources in random order until one of them yields usable content, which
// is then persisted for the next lookup.
package resolver

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sukalov/versuri/internal/extract"
	"github.com/sukalov/versuri/internal/logger"
	"github.com/sukalov/versuri/internal/sources"
)

const cacheTimeout = 10 * time.Second

// Cache is the persistent lyrics store the resolver reads and writes.
type Cache interface {
	Get(ctx context.Context, artist, song string) (lyrics string, found bool, err error)
	Put(ctx context.Context, artist, song, lyrics string) error
}

// Transport fetches a URL asynchronously, invoking exactly one of the two
// callbacks.
type Transport interface {
	Fetch(url string, onSuccess func(body string), onFailure func())
}

// DoneFunc receives the outcome of a resolution: the lyric text, or
// found == false when every source has been exhausted. It is invoked
// exactly once per top-level call.
type DoneFunc func(lyrics string, found bool)

// Resolver runs resolution chains. Concurrent lookups for the same
// case-folded (artist, song) pair are coalesced: only the first one runs
// a chain, the rest wait for its result. That keeps two racing misses
// from inserting the same pair twice.
type Resolver struct {
	cache     Cache
	transport Transport
	registry  *sources.Registry

	mu       sync.Mutex
	inflight map[string][]DoneFunc
}

func New(cache Cache, transport Transport, registry *sources.Registry) *Resolver {
	return &Resolver{
		cache:     cache,
		transport: transport,
		registry:  registry,
		inflight:  make(map[string][]DoneFunc),
	}
}

// Resolve looks up lyrics for (artist, song) and calls done with the
// result. A cache hit completes synchronously; everything else completes
// from the fetch goroutine.
func (r *Resolver) Resolve(artist, song string, done DoneFunc) {
	key := strings.ToLower(artist) + "\x00" + strings.ToLower(song)

	r.mu.Lock()
	if waiters, ok := r.inflight[key]; ok {
		r.inflight[key] = append(waiters, done)
		r.mu.Unlock()
		return
	}
	r.inflight[key] = []DoneFunc{done}
	r.mu.Unlock()

	r.resolve(artist, song, func(lyrics string, found bool) {
		r.mu.Lock()
		waiters := r.inflight[key]
		delete(r.inflight, key)
		r.mu.Unlock()

		for _, waiter := range waiters {
			waiter(lyrics, found)
		}
	}, r.registry.All())
}

// ResolveFrom is Resolve with an explicit candidate list. Calls are not
// coalesced; done is still invoked exactly once.
func (r *Resolver) ResolveFrom(artist, song string, done DoneFunc, candidates []sources.Source) {
	r.resolve(artist, song, done, candidates)
}

// resolve is one step of the chain: cache check, then a random untried
// source. Every kind of miss (transport failure, sentinel body, empty
// extraction) shrinks the candidate list and retries, so the chain
// terminates within len(candidates)+1 steps.
func (r *Resolver) resolve(artist, song string, done DoneFunc, candidates []sources.Source) {
	if lyrics, found := r.lookup(artist, song); found {
		done(lyrics, true)
		return
	}
	if len(candidates) == 0 {
		done("", false)
		return
	}

	src := candidates[rand.Intn(len(candidates))]
	rest := without(candidates, src.Name)
	url := src.URL(artist, song)

	logger.Debug(fmt.Sprintf("trying source %s: %s", src.Name, url))

	r.transport.Fetch(url,
		func(body string) {
			if src.Sentinel != "" && strings.Contains(body, src.Sentinel) {
				logger.Debug(fmt.Sprintf("source %s has no lyrics for %s - %s", src.Name, artist, song))
				r.resolve(artist, song, done, rest)
				return
			}

			lyrics, ok := extract.Text(src, body)
			if !ok {
				logger.Debug(fmt.Sprintf("source %s yielded no extractable text for %s - %s", src.Name, artist, song))
				r.resolve(artist, song, done, rest)
				return
			}

			if err := r.persist(artist, song, lyrics); err != nil {
				// deliver directly: re-entering without a cache row would loop
				logger.Error(fmt.Sprintf("failed to persist lyrics for %s - %s: %v", artist, song, err))
				done(lyrics, true)
				return
			}

			// deliver through the cache-hit path; if the read side cannot
			// see the row we just wrote, deliver the fetched text directly
			// rather than probing sources again
			if cached, found := r.lookup(artist, song); found {
				done(cached, true)
				return
			}
			done(lyrics, true)
		},
		func() {
			r.resolve(artist, song, done, rest)
		})
}

func (r *Resolver) lookup(artist, song string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	lyrics, found, err := r.cache.Get(ctx, artist, song)
	if err != nil {
		logger.Error(fmt.Sprintf("cache lookup failed for %s - %s: %v", artist, song, err))
		return "", false
	}
	return lyrics, found
}

func (r *Resolver) persist(artist, song, lyrics string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	return r.cache.Put(ctx, artist, song, lyrics)
}

// without removes the source named name, matching by name rather than by
// field equality.
func without(candidates []sources.Source, name string) []sources.Source {
	rest := make([]sources.Source, 0, len(candidates)-1)
	for _, c := range candidates {
		if c.Name != name {
			rest = append(rest, c)
		}
	}
	return rest
}

// ResolveSync is Resolve wrapped into a blocking call.
func (r *Resolver) ResolveSync(artist, song string) (string, bool) {
	type outcome struct {
		lyrics string
		found  bool
	}
	ch := make(chan outcome, 1)
	r.Resolve(artist, song, func(lyrics string, found bool) {
		ch <- outcome{lyrics: lyrics, found: found}
	})
	res := <-ch
	return res.lyrics, res.found
}

// Pair names one song for bulk import.
type Pair struct {
	Artist string
	Song   string
}

// SaveAll resolves every pair in order, sleeping a random duration up to
// maxDelay between resolutions. It deliberately blocks the caller to
// throttle the outbound request rate; failures are logged and skipped.
func (r *Resolver) SaveAll(pairs []Pair, maxDelay time.Duration) {
	for i, p := range pairs {
		if _, found := r.ResolveSync(p.Artist, p.Song); !found {
			logger.Info(fmt.Sprintf("no lyrics found for %s - %s", p.Artist, p.Song))
		}
		if i < len(pairs)-1 && maxDelay > 0 {
			time.Sleep(time.Duration(rand.Int63n(int64(maxDelay))))
		}
	}
}
