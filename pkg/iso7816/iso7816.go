/*
Package iso7816 implements data structures and logic to interact with smart cards according to the ISO/IEC 7816 standard.

This package provides the fundamental building blocks for card communication: Answer-To-Reset (ATR) decoding, Command and Response APDU structures, Status Word (SW) analysis and an exchange engine that handles response continuation.

# Answer-To-Reset

A card announces itself with an ATR. DecodeATR splits it into the initial character TS, the format byte T0, the interface byte groups (TAi, TBi, TCi, TDi), the historical bytes and the optional check byte TCK:

	atr, err := iso7816.ParseATR("3B 65 00 00 20 63 CB 6A 00")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(atr.Describe())

Decoding only validates structure. Pass WithChecksumValidation to also reject an ATR whose TCK does not match.

# Fundamentals

The communication with a smart card is strictly synchronous:
 1. The Host sends a Command APDU (Header + Optional Body).
 2. The Card processes it and returns a Response APDU (Optional Body + Trailer SW1/SW2).

# Status Words

Every response ends with a 2-byte Status Word (SW).
  - 0x9000: Success (OK).
  - 0x61XX: Success, but response data is still available (XX bytes).
  - 0x6CXX: Error, wrong length expectation (XX is the correct length).
  - Other: warnings and errors, described by the catalog package.

# Exchange

Client.Exchange sends one command and, while the card answers 61XX, issues GET RESPONSE to collect the remaining bytes. Every round is kept in a Trace:

	client := iso7816.NewClient(conn, iso7816.WithLogger(logger))
	res, err := client.Exchange(&iso7816.CommandAPDU{INS: 0xA4, P1: 0x04, Data: aid, Ne: 256})
	var exErr *iso7816.ExchangeError
	if errors.As(err, &exErr) {
		fmt.Println(exErr.Trace.Describe())
	}
*/
package iso7816
