// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/imprint/internal/isbn"
)

var isbnCmd = &cobra.Command{
	Use:   "isbn",
	Short: "Validate ISBN-13 codes and encode them as EAN-13 bar patterns",
}

var isbnValidateCmd = &cobra.Command{
	Use:   "validate <code>...",
	Short: "Validate identifiers, completing 12-digit codes with their check digit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runISBNValidate,
}

var isbnEncodeCmd = &cobra.Command{
	Use:   "encode <code>",
	Short: "Print the 95-module bar pattern of a valid identifier",
	Args:  cobra.ExactArgs(1),
	RunE:  runISBNEncode,
}

func runISBNValidate(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	results := make([]isbn.Result, 0, len(args))
	invalid := 0
	for _, arg := range args {
		r := isbn.Validate(arg)
		if !r.Valid {
			invalid++
		}
		results = append(results, r)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := printJSON(out, results); err != nil {
			return err
		}
	} else {
		for i, r := range results {
			switch {
			case !r.Valid:
				fmt.Fprintf(out, "invalid:     %s (%s)\n", args[i], r.Message)
			case r.Placeholder:
				fmt.Fprintf(out, "placeholder: %s\n", r.Code)
			case r.Message != "":
				fmt.Fprintf(out, "valid:       %s (%s)\n", r.Code, r.Message)
			default:
				fmt.Fprintf(out, "valid:       %s\n", r.Code)
			}
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d identifiers invalid", invalid, len(args))
	}
	return nil
}

func runISBNEncode(cmd *cobra.Command, args []string) error {
	r := isbn.Validate(args[0])
	if !r.Valid {
		return fmt.Errorf("invalid identifier %q: %s", args[0], r.Message)
	}
	if r.Placeholder {
		return fmt.Errorf("placeholder %q cannot be encoded", r.Code)
	}
	pattern, err := isbn.Encode(r.Code)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	showBars, _ := cmd.Flags().GetBool("bars")
	if showBars {
		return printJSON(out, isbn.Bars(pattern))
	}
	fmt.Fprintln(out, pattern)
	return nil
}

func init() {
	isbnValidateCmd.Flags().Bool("json", false, "output results as JSON")
	isbnEncodeCmd.Flags().Bool("bars", false, "print the ink runs as JSON instead of the module string")

	isbnCmd.AddCommand(isbnValidateCmd)
	isbnCmd.AddCommand(isbnEncodeCmd)

	rootCmd.AddCommand(isbnCmd)
}
