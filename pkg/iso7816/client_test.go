package iso7816

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gregLibert/scprobe/pkg/catalog"
	"github.com/gregLibert/scprobe/pkg/notation"
)

// scriptedCard replays canned responses and records every frame it receives.
type scriptedCard struct {
	responses [][]byte
	repeat    []byte // served once responses is exhausted, when set
	err       error
	sent      [][]byte
}

func (c *scriptedCard) Transmit(cmd []byte) ([]byte, error) {
	c.sent = append(c.sent, append([]byte(nil), cmd...))
	if c.err != nil {
		return nil, c.err
	}
	if len(c.responses) > 0 {
		resp := c.responses[0]
		c.responses = c.responses[1:]
		return resp, nil
	}
	if c.repeat != nil {
		return c.repeat, nil
	}
	return nil, errors.New("script exhausted")
}

func newScript(responses ...string) *scriptedCard {
	card := &scriptedCard{}
	for _, r := range responses {
		card.responses = append(card.responses, notation.Hex(r))
	}
	return card
}

var selectMF = &CommandAPDU{INS: 0xA4, Data: []byte{0x3F, 0x00}}

func TestClient_Exchange_Direct(t *testing.T) {
	card := newScript("6F 02 84 00 90 00")
	res, err := NewClient(card).Exchange(selectMF)
	if err != nil {
		t.Fatalf("Exchange() error: %v", err)
	}
	if diff := cmp.Diff(notation.Hex("6F 02 84 00"), res.Data); diff != "" {
		t.Errorf("Data mismatch (-want +got):\n%s", diff)
	}
	if res.Status != SW_NO_ERROR {
		t.Errorf("Status = %04X", uint16(res.Status))
	}
	if len(card.sent) != 1 || len(res.Trace) != 1 {
		t.Errorf("calls = %d, trace = %d; want 1, 1", len(card.sent), len(res.Trace))
	}
}

func TestClient_Exchange_EmptyBody(t *testing.T) {
	res, err := NewClient(newScript("90 00")).Exchange(selectMF)
	if err != nil {
		t.Fatal(err)
	}
	if res.Data == nil || len(res.Data) != 0 {
		t.Errorf("Data = %#v, want empty non-nil slice", res.Data)
	}
}

func TestClient_Exchange_GetResponse(t *testing.T) {
	card := newScript("61 05", "AA BB CC DD EE 90 00")
	res, err := NewClient(card).Exchange(selectMF)
	if err != nil {
		t.Fatalf("Exchange() error: %v", err)
	}

	wantSent := [][]byte{
		notation.Hex("00 A4 00 00 02 3F 00"),
		notation.Hex("00 C0 00 00 05"),
	}
	if diff := cmp.Diff(wantSent, card.sent); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(notation.Hex("AA BB CC DD EE"), res.Data); diff != "" {
		t.Errorf("Data mismatch (-want +got):\n%s", diff)
	}
	if len(res.Trace) != 2 {
		t.Fatalf("trace length = %d, want 2", len(res.Trace))
	}
	if res.Trace[0].Command != selectMF {
		t.Error("first trace entry is not the caller's command")
	}
	if res.Trace[1].Command.INS != byte(INS_GET_RESPONSE) {
		t.Errorf("second trace INS = %02X", res.Trace[1].Command.INS)
	}
}

func TestClient_Exchange_Concatenates(t *testing.T) {
	// Data returned alongside 61XX is kept, then the continuation is appended.
	card := newScript("01 02 61 02", "03 04 61 00", "05 90 00")
	res, err := NewClient(card).Exchange(selectMF)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(notation.Hex("01 02 03 04 05"), res.Data); diff != "" {
		t.Errorf("Data mismatch (-want +got):\n%s", diff)
	}
	// 61 00 asks for 256 bytes, encoded as Le = 00.
	if diff := cmp.Diff(notation.Hex("00 C0 00 00 00"), card.sent[2]); diff != "" {
		t.Errorf("third frame mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Exchange_TooManyContinuations(t *testing.T) {
	for _, limit := range []int{0, 1, 3, DefaultMaxContinuations} {
		card := &scriptedCard{repeat: notation.Hex("61 01")}
		client := NewClient(card)
		if limit != DefaultMaxContinuations {
			client = NewClient(card, WithMaxContinuations(limit))
		}

		_, err := client.Exchange(selectMF)
		if !errors.Is(err, ErrTooManyContinuations) {
			t.Fatalf("limit %d: error = %v, want ErrTooManyContinuations", limit, err)
		}
		if len(card.sent) != limit+1 {
			t.Errorf("limit %d: transport calls = %d, want %d", limit, len(card.sent), limit+1)
		}

		var exErr *ExchangeError
		if !errors.As(err, &exErr) {
			t.Fatalf("error is not *ExchangeError: %T", err)
		}
		if exErr.Rounds != limit+1 || len(exErr.Trace) != limit+1 {
			t.Errorf("limit %d: Rounds = %d, Trace = %d", limit, exErr.Rounds, len(exErr.Trace))
		}
	}
}

func TestClient_Exchange_NegativeLimit(t *testing.T) {
	client := NewClient(newScript(), WithMaxContinuations(-4))
	if client.MaxContinuations != 0 {
		t.Errorf("MaxContinuations = %d, want 0", client.MaxContinuations)
	}
}

func TestClient_Exchange_CardStatus(t *testing.T) {
	tests := []struct {
		name      string
		responses []string
		wantSW    StatusWord
		wantKnown bool
		wantCalls int
	}{
		{name: "File not found", responses: []string{"6A 82"}, wantSW: SW_ERR_FILE_NOT_FOUND, wantKnown: true, wantCalls: 1},
		{name: "Warning is final", responses: []string{"62 82"}, wantSW: SW_WARN_EOF_REACHED, wantKnown: true, wantCalls: 1},
		{name: "Wrong length is not retried", responses: []string{"6C 10"}, wantSW: NewStatusWord(0x6C, 0x10), wantKnown: false, wantCalls: 1},
		{name: "Unknown status", responses: []string{"12 34"}, wantSW: NewStatusWord(0x12, 0x34), wantKnown: false, wantCalls: 1},
		{name: "Error during continuation", responses: []string{"61 10", "69 82"}, wantSW: SW_ERR_SECURITY_STATUS_NOT_SAT, wantKnown: true, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := newScript(tt.responses...)
			_, err := NewClient(card).Exchange(selectMF)

			if !errors.Is(err, ErrCardStatus) {
				t.Fatalf("error = %v, want ErrCardStatus", err)
			}
			var exErr *ExchangeError
			if !errors.As(err, &exErr) {
				t.Fatalf("error is not *ExchangeError: %T", err)
			}
			if exErr.Status != tt.wantSW {
				t.Errorf("Status = %04X, want %04X", uint16(exErr.Status), uint16(tt.wantSW))
			}
			if exErr.Known != tt.wantKnown {
				t.Errorf("Known = %v, want %v", exErr.Known, tt.wantKnown)
			}
			if len(card.sent) != tt.wantCalls {
				t.Errorf("calls = %d, want %d", len(card.sent), tt.wantCalls)
			}
			if len(exErr.Trace) != tt.wantCalls {
				t.Errorf("trace length = %d, want %d", len(exErr.Trace), tt.wantCalls)
			}
		})
	}
}

func TestClient_Exchange_CardStatusDescription(t *testing.T) {
	_, err := NewClient(newScript("6A 82")).Exchange(selectMF)
	if err == nil || !strings.Contains(err.Error(), "File or application not found") {
		t.Errorf("error = %v", err)
	}

	cat := catalog.New(nil, map[uint16]string{0x6A82: "Custom text"})
	_, err = NewClient(newScript("6A 82"), WithCatalog(cat)).Exchange(selectMF)
	var exErr *ExchangeError
	if !errors.As(err, &exErr) || exErr.Description != "Custom text" {
		t.Errorf("custom catalog not used: %v", err)
	}
}

func TestClient_Exchange_EmptyResponse(t *testing.T) {
	for _, resp := range [][]byte{{}, {0x90}} {
		card := &scriptedCard{responses: [][]byte{resp}}
		_, err := NewClient(card).Exchange(selectMF)
		if !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("response %X: error = %v, want ErrEmptyResponse", resp, err)
		}
	}
}

func TestClient_Exchange_TransportFailure(t *testing.T) {
	cause := errors.New("reader removed")
	card := &scriptedCard{err: cause}

	_, err := NewClient(card).Exchange(selectMF)
	if !errors.Is(err, ErrTransportFailure) {
		t.Errorf("error = %v, want ErrTransportFailure", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want wrapping the transport cause", err)
	}
	if len(card.sent) != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", len(card.sent))
	}
}

func TestClient_Exchange_InvalidCommand(t *testing.T) {
	card := newScript("90 00")
	_, err := NewClient(card).Exchange(&CommandAPDU{Data: make([]byte, 300)})

	var paramErr *InvalidParameterError
	if !errors.As(err, &paramErr) {
		t.Fatalf("error = %v, want *InvalidParameterError", err)
	}
	if len(card.sent) != 0 {
		t.Errorf("calls = %d, want 0", len(card.sent))
	}
}

func TestClient_Exchange_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := NewClient(newScript("90 00"), WithLogger(logger)).Exchange(selectMF); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"tx apdu", `frame="00 A4 00 00 02 3F 00"`, "rx apdu", `frame="90 00"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
