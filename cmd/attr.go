package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gregLibert/scprobe/pkg/notation"
	"github.com/gregLibert/scprobe/pkg/pcsc"
	"github.com/gregLibert/scprobe/pkg/tlv"
)

var listAttributes bool

var attrCmd = &cobra.Command{
	Use:   "attr NAME|0xID",
	Short: "Read a reader attribute",
	Long: `Read a reader attribute by name (e.g. VENDOR_NAME, ATR_STRING) or by raw
tag (e.g. 0x10100). Use --list to print the known names.`,
	RunE: runAttr,
}

func init() {
	attrCmd.Flags().BoolVarP(&listAttributes, "list", "l", false, "List known attribute names")
	rootCmd.AddCommand(attrCmd)
}

func runAttr(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if listAttributes {
		for _, name := range pcsc.AttributeNames() {
			id, _ := pcsc.AttributeByName(name)
			fmt.Fprintf(out, "%-26s 0x%X\n", name, uint32(id))
		}
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("expected one attribute name or tag, got %d arguments", len(args))
	}

	id, err := pcsc.ParseAttribute(args[0])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	value, err := s.conn.Attribute(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%q)\n", notation.FormatHex(value), tlv.MakeSafeASCII(value))
	return nil
}
