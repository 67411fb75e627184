package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestCLIError_Error(t *testing.T) {
	err := &CLIError{
		Summary:    "no API key",
		Detail:     "neither --api-key nor NEWS_KEY is set",
		Suggestion: "get a key at https://gnews.io/",
		ExitCode:   ExitConfigError,
	}

	if err.Error() != "no API key" {
		t.Errorf("Error() = %q, want %q", err.Error(), "no API key")
	}
}

func TestFormatError_AllFields(t *testing.T) {
	var stderr bytes.Buffer
	p := NewPrinter(false)
	p.err = &stderr

	p.FormatError(&CLIError{
		Summary:    "no API key",
		Detail:     "neither --api-key nor NEWS_KEY is set",
		Suggestion: "get a key at https://gnews.io/",
		ExitCode:   ExitConfigError,
	})

	out := stderr.String()
	if !strings.Contains(out, "no API key") {
		t.Errorf("missing summary in output: %q", out)
	}
	if !strings.Contains(out, "neither --api-key nor NEWS_KEY is set") {
		t.Errorf("missing detail in output: %q", out)
	}
	if !strings.Contains(out, "get a key at https://gnews.io/") {
		t.Errorf("missing suggestion in output: %q", out)
	}
}

func TestFormatError_NoDetail(t *testing.T) {
	var stderr bytes.Buffer
	p := NewPrinter(false)
	p.err = &stderr

	p.FormatError(&CLIError{
		Summary:  "invalid --timeout value",
		ExitCode: ExitUsageError,
	})

	out := stderr.String()
	if !strings.Contains(out, "invalid --timeout value") {
		t.Errorf("missing summary in output: %q", out)
	}
	if strings.Contains(out, "Cause:") {
		t.Errorf("should not contain Cause line when Detail is empty: %q", out)
	}
	if strings.Contains(out, "Suggestion:") {
		t.Errorf("should not contain Suggestion line when Suggestion is empty: %q", out)
	}
}

func TestExitCodes(t *testing.T) {
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsageError != 2 {
		t.Errorf("ExitUsageError = %d, want 2", ExitUsageError)
	}
	if ExitConfigError != 4 {
		t.Errorf("ExitConfigError = %d, want 4", ExitConfigError)
	}
}
