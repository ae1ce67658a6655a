package commands

import (
	"errors"
	"testing"
)

func TestParseAdd(t *testing.T) {
	cmd, err := Parse("/add Buy milk for breakfast")
	if err != nil {
		t.Fatalf("parse add: %v", err)
	}
	if cmd.Type != TypeAdd || cmd.Add == nil || cmd.Add.Title != "Buy milk for breakfast" {
		t.Fatalf("unexpected command: %#v", cmd)
	}
}

func TestParseShowWithCategory(t *testing.T) {
	cmd, err := Parse("show archive category:Home")
	if err != nil {
		t.Fatalf("parse show: %v", err)
	}
	if cmd.Show == nil || cmd.Show.Subject != "archive" || cmd.Show.Category != "Home" {
		t.Fatalf("unexpected show args: %#v", cmd.Show)
	}
}

func TestParseTargetCommands(t *testing.T) {
	cases := []struct {
		input string
		typ   Type
	}{
		{"archive task-1", TypeArchive},
		{"restore task-1", TypeRestore},
		{"delete task-1", TypeDelete},
	}
	for _, tc := range cases {
		cmd, err := Parse(tc.input)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.input, err)
		}
		if cmd.Type != tc.typ {
			t.Fatalf("unexpected type for %q: %s", tc.input, cmd.Type)
		}
	}
}

func TestParsePurgeRejectsArguments(t *testing.T) {
	if _, err := Parse("purge"); err != nil {
		t.Fatalf("parse purge: %v", err)
	}
	_, err := Parse("purge everything")
	var cerr *CommandError
	if !errors.As(err, &cerr) || cerr.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected invalid_argument, got %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		input string
		code  ErrorCode
	}{
		{"", ErrCodeEmptyInput},
		{"/", ErrCodeEmptyInput},
		{"frobnicate", ErrCodeUnknownCommand},
		{"add", ErrCodeInvalidArgument},
		{"show nothing", ErrCodeInvalidArgument},
		{"archive", ErrCodeInvalidArgument},
		{"delete a b", ErrCodeInvalidArgument},
	}
	for _, tc := range cases {
		_, err := Parse(tc.input)
		var cerr *CommandError
		if !errors.As(err, &cerr) {
			t.Fatalf("input %q: expected CommandError, got %v", tc.input, err)
		}
		if cerr.Code != tc.code {
			t.Fatalf("input %q: expected code %s, got %s", tc.input, tc.code, cerr.Code)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	handlers := Handlers{
		Add: func(args AddArgs) (Result, error) {
			return Result{Message: "added " + args.Title}, nil
		},
		Purge: func() (Result, error) {
			return Result{Message: "purged"}, nil
		},
	}

	cmd, err := Parse("add Walk the dog")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := Execute(cmd, handlers)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Message != "added Walk the dog" {
		t.Fatalf("unexpected result: %q", res.Message)
	}

	cmd, err = Parse("delete task-1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Execute(cmd, handlers)
	var cerr *CommandError
	if !errors.As(err, &cerr) || cerr.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected handler_missing, got %v", err)
	}
}
