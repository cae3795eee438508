// Command akaza-make-system-lm builds a system unigram and bigram
// model from tab/space separated scored-word text files, the Go port
// of original_source/akaza-core/bin/akaza-make-system-lm/src/main.rs's
// process_unigram/process_2gram build contract: ids are assigned in
// unigram-file order, any word beyond the 2^23rd is rejected, and a bigram line
// referencing a word absent from the unigram is skipped with a warning
// rather than aborting the whole build.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mmizutani/akaza/lm"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("build failed")
	}
}

func newRootCmd() *cobra.Command {
	var unigramSrc, unigramDst, bigramSrc, bigramDst string

	cmd := &cobra.Command{
		Use:   "akaza-make-system-lm",
		Short: "Build system unigram/bigram models from scored word lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(unigramSrc, unigramDst, bigramSrc, bigramDst)
		},
	}

	cmd.Flags().StringVar(&unigramSrc, "unigram-src", "", "1-gram input file: \"word score\" per line (required)")
	cmd.Flags().StringVar(&unigramDst, "unigram-dst", "", "unigram trie output path (required)")
	cmd.Flags().StringVar(&bigramSrc, "bigram-src", "", "2-gram input file: \"word1\\tword2 score\" per line (required)")
	cmd.Flags().StringVar(&bigramDst, "bigram-dst", "", "bigram trie output path (required)")
	for _, name := range []string{"unigram-src", "unigram-dst", "bigram-src", "bigram-dst"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func run(unigramSrc, unigramDst, bigramSrc, bigramDst string) error {
	log.Info().Str("src", unigramSrc).Str("dst", unigramDst).Msg("building unigram model")
	uni, err := processUnigram(unigramSrc, unigramDst)
	if err != nil {
		return fmt.Errorf("unigram: %w", err)
	}

	log.Info().Str("src", bigramSrc).Str("dst", bigramDst).Msg("building bigram model")
	if err := processBigram(uni, bigramSrc, bigramDst); err != nil {
		return fmt.Errorf("bigram: %w", err)
	}

	log.Info().Msg("done")
	return nil
}

// processUnigram reads "word score" lines and writes the built model
// to dstPath, returning the in-memory model so processBigram can
// resolve word -> id without a round trip through disk.
func processUnigram(srcPath, dstPath string) (*lm.Unigram, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := lm.NewUnigramBuilder()
	scanner := bufio.NewScanner(f)
	var lineNo int
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		word, scoreStr, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("line %d: missing score: %q", lineNo, line)
		}
		score, err := strconv.ParseFloat(scoreStr, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad score %q: %w", lineNo, scoreStr, err)
		}
		if err := b.Add(word, float32(score)); err != nil {
			if errors.Is(err, lm.ErrTooManyWords) {
				return nil, err
			}
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	model := b.Build()

	out, err := os.Create(dstPath)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	if err := model.Save(out); err != nil {
		return nil, err
	}
	log.Info().Uint32("words", model.NumKeys()).Msg("unigram model built")
	return model, nil
}

// processBigram reads "word1\tword2 score" lines, skipping (not
// failing on) any pair referencing a word the unigram model doesn't
// know.
func processBigram(uni *lm.Unigram, srcPath, dstPath string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer f.Close()

	b := lm.NewBigramBuilder()
	scanner := bufio.NewScanner(f)
	var lineNo, skipped int
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words, scoreStr, ok := strings.Cut(line, " ")
		if !ok {
			return fmt.Errorf("line %d: missing score: %q", lineNo, line)
		}
		word1, word2, ok := strings.Cut(words, "\t")
		if !ok {
			return fmt.Errorf("line %d: missing tab between words: %q", lineNo, words)
		}
		score, err := strconv.ParseFloat(scoreStr, 32)
		if err != nil {
			return fmt.Errorf("line %d: bad score %q: %w", lineNo, scoreStr, err)
		}

		entry1, ok := uni.Find(word1)
		if !ok {
			log.Warn().Str("word", word1).Msg("not found in unigram data, skipping")
			skipped++
			continue
		}
		entry2, ok := uni.Find(word2)
		if !ok {
			log.Warn().Str("word", word2).Msg("not found in unigram data, skipping")
			skipped++
			continue
		}

		b.Add(entry1.ID, entry2.ID, float32(score))
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	model := b.Build()

	out, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := model.Save(out); err != nil {
		return err
	}
	log.Info().Int("skipped", skipped).Msg("bigram model built")
	return nil
}
