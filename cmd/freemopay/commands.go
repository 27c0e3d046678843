package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/revaspay/freemopay/internal/services/payment/freemopay"
	"github.com/revaspay/freemopay/internal/utils"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2

	externalIDPrefix = "freemopay"
)

const usage = `Usage: freemopay <command> [arguments]

Commands:
  token                                   print the bearer token
  pay -payer P -amount N [-external-id ID] [-description D]
                                          initiate a payment
  status REFERENCE                        print the status of a payment

Configuration is read from FREEMOPAY_USER, FREEMOPAY_PASSWORD, FREEMOPAY_URL
and the optional FREEMOPAY_TOKEN.
`

var errUsage = errors.New("usage")

func printUsage(w io.Writer) {
	fmt.Fprint(w, usage)
}

func isHelp(arg string) bool {
	switch arg {
	case "help", "-h", "-help", "--help":
		return true
	}
	return false
}

// dispatch runs one subcommand against the gateway and returns the exit code
func dispatch(ctx context.Context, args []string, gw freemopay.Gateway, stdout, stderr io.Writer) int {
	var err error
	switch args[0] {
	case "token":
		err = tokenCommand(ctx, gw, stdout)
	case "pay":
		err = payCommand(ctx, args[1:], gw, stdout, stderr)
	case "status":
		err = statusCommand(ctx, args[1:], gw, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "freemopay: unknown command %q\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return exitUsage
	default:
		fmt.Fprintf(stderr, "freemopay: %v\n", err)
		return exitFailure
	}
}

func tokenCommand(ctx context.Context, gw freemopay.Gateway, stdout io.Writer) error {
	token, err := gw.EnsureToken(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, token)
	return err
}

func payCommand(ctx context.Context, args []string, gw freemopay.Gateway, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	payer := fs.String("payer", "", "payer's mobile number")
	amount := fs.Int64("amount", 0, "amount to collect")
	externalID := fs.String("external-id", "", "correlation id (generated when empty)")
	description := fs.String("description", freemopay.DefaultDescription, "payment description")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *payer == "" || *amount <= 0 {
		fmt.Fprintln(stderr, "freemopay: pay requires -payer and a positive -amount")
		fs.Usage()
		return errUsage
	}
	if *externalID == "" {
		*externalID = utils.GenerateExternalID(externalIDPrefix)
	}

	resp, err := gw.Pay(ctx, freemopay.PaymentRequest{
		Payer:       *payer,
		ExternalID:  *externalID,
		Amount:      *amount,
		Description: *description,
	})
	if err != nil {
		return err
	}

	return writeJSON(stdout, resp)
}

func statusCommand(ctx context.Context, args []string, gw freemopay.Gateway, stdout, stderr io.Writer) error {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprintln(stderr, "freemopay: status requires exactly one REFERENCE")
		return errUsage
	}

	resp, err := gw.CheckStatus(ctx, args[0])
	if err != nil {
		return err
	}

	return writeJSON(stdout, resp)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
