package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gregLibert/scprobe/pkg/iso7816"
)

var atrCmd = &cobra.Command{
	Use:   "atr [HEX...]",
	Short: "Decode an Answer-To-Reset",
	Long: `Decode an ATR given as hex bytes, or read it from the card in the configured
reader when no bytes are given.

Example:
  scprobe atr 3B 65 00 00 20 63 CB 6A 00`,
	RunE: runATR,
}

func init() {
	rootCmd.AddCommand(atrCmd)
}

func runATR(cmd *cobra.Command, args []string) error {
	var opts []iso7816.DecodeOption
	if cfg.VerifyChecksum {
		opts = append(opts, iso7816.WithChecksumValidation())
	}

	var (
		atr iso7816.ATR
		err error
	)
	if len(args) > 0 {
		atr, err = iso7816.ParseATR(strings.Join(args, " "), opts...)
	} else {
		atr, err = readATR(opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		fmt.Fprintln(out, atr)
		return nil
	}
	fmt.Fprintln(out, atr.Describe())
	return nil
}

func readATR(opts []iso7816.DecodeOption) (iso7816.ATR, error) {
	s, err := openSession()
	if err != nil {
		return iso7816.ATR{}, err
	}
	defer s.Close()

	raw, err := s.conn.ATR()
	if err != nil {
		return iso7816.ATR{}, err
	}
	return iso7816.DecodeATR(raw, opts...)
}
