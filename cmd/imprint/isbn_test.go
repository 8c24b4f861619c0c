// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestISBNValidateCommand(t *testing.T) {
	out, err := execute(t, "isbn", "validate", "123456789012", "978-2-940426-XX-X")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := "valid:       1234567890128 (check digit 8 added)\nplaceholder: 978-2-940426-XX-X\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestISBNValidateCommandReportsInvalid(t *testing.T) {
	out, err := execute(t, "isbn", "validate", "1234567890121")
	if err == nil {
		t.Fatal("expected an error for an invalid identifier")
	}
	if !strings.Contains(out, "should be 8") {
		t.Errorf("output = %q, want the expected check digit", out)
	}
}

func TestISBNEncodeCommand(t *testing.T) {
	out, err := execute(t, "isbn", "encode", "0000000000000")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "101" + strings.Repeat("0001101", 6) + "01010" + strings.Repeat("1110010", 6) + "101\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestISBNEncodeCommandRejectsPlaceholder(t *testing.T) {
	if _, err := execute(t, "isbn", "encode", "978-2-940426-XX-X"); err == nil {
		t.Fatal("expected an error for a placeholder")
	}
}
