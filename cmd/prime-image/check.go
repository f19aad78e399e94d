package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ironsheep/prime-image/internal/digits"
	"github.com/ironsheep/prime-image/internal/primality"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <digits>",
		Short: "Test a digit string for primality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("rounds") {
				cfg.Search.Rounds, _ = cmd.Flags().GetInt("rounds")
			}
			seq, err := digits.Parse(args[0])
			if err != nil {
				return err
			}
			return runCheck(cmd.OutOrStdout(), seq, cfg.Search.Rounds)
		},
	}
	cmd.Flags().Int("rounds", 0, "Miller-Rabin witness rounds (default 2)")
	return cmd
}

func runCheck(out io.Writer, seq digits.Sequence, rounds int) error {
	verdict := "composite"
	if primality.IsProbablyPrime(digits.ToInteger(seq), rounds) {
		verdict = "probably prime"
	}
	_, err := fmt.Fprintf(out, "%s-digit number is %s (%d rounds)\n", humanize.Comma(int64(seq.Len())), verdict, rounds)
	return err
}
