// Package userdata implements the per-user frequency store: an
// exponentially-decaying tally of how often a word, and how often a
// pair of adjacent words, has been chosen by the user, read back as a
// positive cost bonus that nudges the resolver toward familiar
// candidates. The on-disk form is an append-only event log, in the
// style of original_source/akaza-core/libakaza/src/user_side_data's
// record/replay split (record_entries, then periodic compaction),
// exercised from
// original_source/akaza-core/libakaza/src/graph/graph_resolver.rs's
// UserData::default()/record_entries calls. Mutation is serialized
// behind a single sync.RWMutex, the same shared-read/exclusive-write
// shape as ericlingit-jieba-go's prefixDictionary.lock.
package userdata

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// pairSep joins the two words of a bigram key. It must never appear in
// a surface/reading word key, so it is chosen outside the printable
// ASCII range appendLocked and Flush use for the rest of the log line.
const pairSep = "\x1f"

const kindUnigram = "U"
const kindBigram = "B"

// DefaultHalfLife is the default decay half-life: roughly 30 days.
const DefaultHalfLife = 30 * 24 * time.Hour

type freqEntry struct {
	freq        float64
	lastTouched time.Time
}

// Store is a mutable, file-backed per-user frequency table.
type Store struct {
	mu      sync.RWMutex
	unigram map[string]*freqEntry
	bigram  map[string]*freqEntry
	lambda  float64
	file    *os.File
}

// lambdaForHalfLife converts a half-life into the decay rate used by
// f * exp(-lambda * age).
func lambdaForHalfLife(halfLife time.Duration) float64 {
	return math.Ln2 / halfLife.Seconds()
}

// Open loads (or creates) the user data log at path and replays its
// events into memory. Passing halfLife <= 0 uses DefaultHalfLife.
func Open(path string, halfLife time.Duration) (*Store, error) {
	if halfLife <= 0 {
		halfLife = DefaultHalfLife
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("userdata: open %s: %w", path, err)
	}
	s := &Store{
		unigram: make(map[string]*freqEntry),
		bigram:  make(map[string]*freqEntry),
		lambda:  lambdaForHalfLife(halfLife),
		file:    f,
	}
	if err := s.replay(f); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// New creates an in-memory-only store, used by tests and by callers
// that do not want persistence.
func New(halfLife time.Duration) *Store {
	if halfLife <= 0 {
		halfLife = DefaultHalfLife
	}
	return &Store{
		unigram: make(map[string]*freqEntry),
		bigram:  make(map[string]*freqEntry),
		lambda:  lambdaForHalfLife(halfLife),
	}
}

func (s *Store) replay(f *os.File) error {
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("userdata: seek %s: %w", f.Name(), err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 4)
		if len(fields) != 4 {
			log.Warn().Str("line", line).Msg("userdata: skipping malformed log line")
			continue
		}
		nanos, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			log.Warn().Str("line", line).Err(err).Msg("userdata: skipping malformed log line")
			continue
		}
		delta, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			log.Warn().Str("line", line).Err(err).Msg("userdata: skipping malformed log line")
			continue
		}
		at := time.Unix(0, nanos)
		table := s.tableFor(fields[1])
		if table == nil {
			log.Warn().Str("line", line).Msg("userdata: skipping log line with unknown kind")
			continue
		}
		s.bumpLocked(table, fields[2], delta, at)
	}
	return scanner.Err()
}

func (s *Store) tableFor(kind string) map[string]*freqEntry {
	switch kind {
	case kindUnigram:
		return s.unigram
	case kindBigram:
		return s.bigram
	default:
		return nil
	}
}

func decayed(e *freqEntry, lambda float64, now time.Time) float64 {
	age := now.Sub(e.lastTouched).Seconds()
	if age <= 0 {
		return e.freq
	}
	return e.freq * math.Exp(-lambda*age)
}

// RecordEntries folds a clause sequence of "surface/reading" word keys
// into both the unigram and bigram tallies, and appends the
// corresponding events to the on-disk log (if one is attached).
func (s *Store) RecordEntries(clauses []string) error {
	if len(clauses) == 0 {
		return nil
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range clauses {
		s.bumpLocked(s.unigram, w, 1.0, now)
		if err := s.appendLocked(kindUnigram, w, 1.0, now); err != nil {
			return err
		}
	}
	for i := 0; i+1 < len(clauses); i++ {
		key := clauses[i] + pairSep + clauses[i+1]
		s.bumpLocked(s.bigram, key, 1.0, now)
		if err := s.appendLocked(kindBigram, key, 1.0, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) bumpLocked(table map[string]*freqEntry, key string, delta float64, at time.Time) {
	e, ok := table[key]
	if !ok {
		table[key] = &freqEntry{freq: delta, lastTouched: at}
		return
	}
	if age := at.Sub(e.lastTouched).Seconds(); age > 0 {
		e.freq *= math.Exp(-s.lambda * age)
	}
	e.freq += delta
	e.lastTouched = at
}

func (s *Store) appendLocked(kind, key string, delta float64, at time.Time) error {
	if s.file == nil {
		return nil
	}
	line := fmt.Sprintf("%d\t%s\t%s\t%g\n", at.UnixNano(), kind, key, delta)
	if _, err := s.file.WriteString(line); err != nil {
		log.Error().Err(err).Str("kind", kind).Str("key", key).Msg("userdata: failed to append log entry")
		return fmt.Errorf("userdata: append: %w", err)
	}
	return nil
}

// GetUnigramCost returns the positive log-frequency bonus for word,
// or 0 if it has never been recorded.
func (s *Store) GetUnigramCost(word string) float32 {
	return s.cost(s.unigram, word)
}

// GetBigramCost returns the positive log-frequency bonus for the
// (w1, w2) pair, or 0 if it has never been recorded.
func (s *Store) GetBigramCost(w1, w2 string) float32 {
	return s.cost(s.bigram, w1+pairSep+w2)
}

func (s *Store) cost(table map[string]*freqEntry, key string) float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := table[key]
	if !ok {
		return 0
	}
	freq := decayed(e, s.lambda, time.Now())
	if freq <= 0 {
		return 0
	}
	return float32(math.Log1p(freq))
}

// Flush compacts the on-disk log: every key's current, decayed
// frequency is written back as a single fresh event timestamped now,
// replacing however many increments produced it. This keeps the log's
// size bounded by the number of distinct keys rather than the number
// of conversions ever learned from.
func (s *Store) Flush() error {
	if s.file == nil {
		return nil
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for word, e := range s.unigram {
		freq := decayed(e, s.lambda, now)
		e.freq = freq
		e.lastTouched = now
		fmt.Fprintf(&b, "%d\t%s\t%s\t%g\n", now.UnixNano(), kindUnigram, word, freq)
	}
	for pair, e := range s.bigram {
		freq := decayed(e, s.lambda, now)
		e.freq = freq
		e.lastTouched = now
		fmt.Fprintf(&b, "%d\t%s\t%s\t%g\n", now.UnixNano(), kindBigram, pair, freq)
	}

	if err := s.file.Truncate(0); err != nil {
		return fmt.Errorf("userdata: truncate log: %w", err)
	}
	if _, err := s.file.Seek(0, 0); err != nil {
		return fmt.Errorf("userdata: seek log: %w", err)
	}
	if _, err := s.file.WriteString(b.String()); err != nil {
		log.Error().Err(err).Msg("userdata: failed to write compacted log")
		return fmt.Errorf("userdata: write compacted log: %w", err)
	}
	return s.file.Sync()
}

// Close flushes and releases the underlying log file, if any.
func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	if err := s.Flush(); err != nil {
		return err
	}
	return s.file.Close()
}
