// Command akaza-convert is a small demo CLI: it loads a built system
// data directory and either converts a single yomi argument or, given
// no argument, reads yomi lines from standard input one at a time.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	akaza "github.com/mmizutani/akaza"
	"github.com/mmizutani/akaza/config"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("conversion failed")
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string
	var nbest bool

	cmd := &cobra.Command{
		Use:   "akaza-convert [yomi]",
		Short: "Convert a hiragana reading to kanji using a built system data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.DefaultConfig()
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.SystemDataDir = dataDir
			}

			e, err := akaza.Load(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := e.Close(); err != nil {
					log.Error().Err(err).Msg("closing engine")
				}
			}()

			if len(args) == 1 {
				return convertOne(e, args[0], nbest)
			}
			return convertStdin(e, nbest)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "system data directory (overrides the XDG default)")
	cmd.Flags().BoolVar(&nbest, "nbest", false, "print every clause's candidates instead of just the best path")

	return cmd
}

func convertOne(e *akaza.Engine, yomi string, nbest bool) error {
	if !nbest {
		result, err := e.Convert(yomi)
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil
	}
	return printNBest(e, yomi)
}

func convertStdin(e *akaza.Engine, nbest bool) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		yomi := scanner.Text()
		if yomi == "" {
			continue
		}
		if err := convertOne(e, yomi, nbest); err != nil {
			log.Error().Err(err).Str("yomi", yomi).Msg("conversion failed")
		}
	}
	return scanner.Err()
}

func printNBest(e *akaza.Engine, yomi string) error {
	clauses, err := e.ConvertNBest(yomi)
	if err != nil {
		return err
	}
	for i, clause := range clauses {
		fmt.Printf("clause %d:\n", i)
		for _, cand := range clause.Candidates {
			fmt.Printf("  %s\t%.3f\n", cand.Node.Surface, cand.Score)
		}
	}
	return nil
}
