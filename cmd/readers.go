package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gregLibert/scprobe/pkg/pcsc"
)

var readersCmd = &cobra.Command{
	Use:   "readers",
	Short: "List connected smart card readers",
	Args:  cobra.NoArgs,
	RunE:  runReaders,
}

func init() {
	rootCmd.AddCommand(readersCmd)
}

func runReaders(cmd *cobra.Command, args []string) error {
	ctx, err := pcsc.Establish(pcsc.WithCatalog(codes), pcsc.WithLogger(logger))
	if err != nil {
		return err
	}
	defer releaseContext(ctx)

	readers, err := ctx.Readers()
	if err != nil {
		return err
	}
	if len(readers) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No smart card reader found.")
		return nil
	}
	for i, r := range readers {
		fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, r)
	}
	return nil
}
