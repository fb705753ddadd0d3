package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gregLibert/scprobe/pkg/iso7816"
)

var swCmd = &cobra.Command{
	Use:   "sw CODE",
	Short: "Describe a status word or PC/SC result code",
	Long: `Look up a card status word (4 hex digits, e.g. 6A82 or "6A 82") or a
PC/SC result code (8 hex digits, e.g. 0x80100069) in the catalog.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSW,
}

func init() {
	rootCmd.AddCommand(swCmd)
}

func runSW(cmd *cobra.Command, args []string) error {
	digits := strings.Join(args, "")
	digits = strings.TrimPrefix(strings.TrimPrefix(digits, "0x"), "0X")

	out := cmd.OutOrStdout()
	switch len(digits) {
	case 4:
		v, err := strconv.ParseUint(digits, 16, 16)
		if err != nil {
			return fmt.Errorf("invalid status word %q: %w", digits, err)
		}
		sw := iso7816.StatusWord(v)
		fmt.Fprintln(out, sw.VerboseWith(codes))
		fmt.Fprintf(out, "Category: %s\n", sw.Classify(codes))
	case 8:
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return fmt.Errorf("invalid result code %q: %w", digits, err)
		}
		desc, ok := codes.DescribeResult(uint32(v))
		if !ok {
			desc = "Unknown result code"
		}
		fmt.Fprintf(out, "[0x%08X] %s\n", v, desc)
	default:
		return fmt.Errorf("expected 4 (status word) or 8 (result code) hex digits, got %q", digits)
	}
	return nil
}
