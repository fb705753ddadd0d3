package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gregLibert/scprobe/pkg/iso7816"
	"github.com/gregLibert/scprobe/pkg/notation"
	"github.com/gregLibert/scprobe/pkg/tlv"
)

var sendFlags struct {
	cla, ins, p1, p2 string
	data             string
	le               int
	tlv              bool
	trace            bool
}

var sendCmd = &cobra.Command{
	Use:   "send [APDU...]",
	Short: "Send a command APDU and print the response",
	Long: `Send one command APDU to the card and print the response body and status.
61XX answers are followed with GET RESPONSE automatically.

The command is given either as hex bytes or field by field:
  scprobe send 00 A4 04 00 07 A0 00 00 00 03 10 10 00
  scprobe send --ins A4 --p1 04 --data A0000000031010 --le 256`,
	RunE: runSend,
}

func init() {
	f := sendCmd.Flags()
	f.StringVar(&sendFlags.cla, "cla", "00", "Class byte")
	f.StringVar(&sendFlags.ins, "ins", "", "Instruction byte")
	f.StringVar(&sendFlags.p1, "p1", "00", "Parameter 1")
	f.StringVar(&sendFlags.p2, "p2", "00", "Parameter 2")
	f.StringVar(&sendFlags.data, "data", "", "Command data, spaced or compact hex")
	f.IntVar(&sendFlags.le, "le", 0, "Expected response length Ne (0 = none, 256 = Le 00)")
	f.BoolVar(&sendFlags.tlv, "tlv", false, "Dump the response body as BER-TLV")
	f.BoolVar(&sendFlags.trace, "trace", false, "Print every exchanged frame")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	command, err := buildCommand(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sendFlags.trace {
		fmt.Fprintf(out, "%s\n\n", command.Describe())
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.client().Exchange(command)
	if err != nil {
		var exErr *iso7816.ExchangeError
		if errors.As(err, &exErr) && sendFlags.trace {
			fmt.Fprintln(out, exErr.Trace.Describe())
		}
		return err
	}

	printResult(out, res, isTerminal(out))
	return nil
}

// buildCommand reads the command from positional hex bytes, or from the field flags.
func buildCommand(args []string) (*iso7816.CommandAPDU, error) {
	if len(args) > 0 {
		frame, err := notation.ParseHex(strings.Join(args, " "))
		if err != nil {
			return nil, err
		}
		return iso7816.ParseCommandAPDU(frame)
	}

	if sendFlags.ins == "" {
		return nil, errors.New("no command: give APDU bytes or at least --ins")
	}

	header := make([]int, 0, 4)
	for _, field := range []struct{ name, value string }{
		{"CLA", sendFlags.cla},
		{"INS", sendFlags.ins},
		{"P1", sendFlags.p1},
		{"P2", sendFlags.p2},
	} {
		b, err := notation.ParseByte(field.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field.name, err)
		}
		header = append(header, int(b))
	}

	data, err := iso7816.ParseCommandData(sendFlags.data)
	if err != nil {
		return nil, err
	}
	return iso7816.NewCommandAPDU(header[0], header[1], header[2], header[3], data, sendFlags.le)
}

// printResult writes the full report to a terminal and only the body hex otherwise.
func printResult(w io.Writer, res *iso7816.Result, interactive bool) {
	if !interactive {
		fmt.Fprintln(w, notation.FormatHex(res.Data))
		return
	}

	if sendFlags.trace {
		fmt.Fprintln(w, res.Trace.Describe())
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Data (%d bytes): %s\n", len(res.Data), notation.FormatHex(res.Data))
	fmt.Fprintf(w, "Status: %s\n", res.Status.VerboseWith(codes))

	if sendFlags.tlv && len(res.Data) > 0 {
		dump, err := tlv.Dump(res.Data)
		if err != nil {
			logger.Warn("response is not BER-TLV", "error", err)
			return
		}
		fmt.Fprintln(w, dump)
	}
}
