package commands

import (
	"errors"
	"testing"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add water the plants", TypeAdd},
		{"add water the plants", TypeAdd},
		{"done 1773306000000", TypeDone},
		{"reset 1773306000000", TypeReset},
		{"/rm 1773306000000", TypeDelete},
		{"show pending", TypeShow},
		{"find plants", TypeFind},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddKeepsMultiWordTitle(t *testing.T) {
	cmd, err := Parse("/add water the balcony plants")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add == nil || cmd.Add.Title != "water the balcony plants" {
		t.Fatalf("unexpected add args: %+v", cmd.Add)
	}
}

func TestParseShowValidatesSubject(t *testing.T) {
	for _, subject := range []string{"all", "pending", "completed", "micro", "follow-up"} {
		cmd, err := Parse("show " + subject)
		if err != nil {
			t.Fatalf("parse show %s: %v", subject, err)
		}
		if cmd.Show.Subject != subject {
			t.Fatalf("subject = %q, want %q", cmd.Show.Subject, subject)
		}
	}

	_, err := Parse("show everything")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected invalid argument error, got %v", err)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []struct {
		in   string
		code ErrorCode
	}{
		{"", ErrCodeEmptyInput},
		{"   ", ErrCodeEmptyInput},
		{"/", ErrCodeEmptyInput},
		{"launch missiles", ErrCodeUnknownCommand},
		{"add", ErrCodeInvalidArgument},
		{"done", ErrCodeInvalidArgument},
		{"done a b", ErrCodeInvalidArgument},
		{"find", ErrCodeInvalidArgument},
	}

	for _, tc := range cases {
		_, err := Parse(tc.in)
		if err == nil {
			t.Fatalf("parse %q: expected error", tc.in)
		}
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != tc.code {
			t.Fatalf("parse %q: expected code %s, got %v", tc.in, tc.code, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add water the plants")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			return Result{Message: "added " + a.Title}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called {
		t.Fatal("add handler was not called")
	}
	if res.Message != "added water the plants" {
		t.Fatalf("unexpected result: %q", res.Message)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("done 42")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected handler missing error, got %v", err)
	}
}
