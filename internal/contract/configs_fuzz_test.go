package contract

import (
	"slices"
	"strings"
	"testing"
)

// FuzzParsePartnerIDs fuzzes the partner ID argument parser with random inputs.
func FuzzParsePartnerIDs(f *testing.F) {
	seeds := []string{
		"202",
		"202,386",
		" 77 , 55,,58 ",
		"-1",
		"abc",
		"", // edge case
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, input string) {
		_, err := ParsePartnerIDs([]string{input})
		// We don't assert on the result, just that it doesn't panic
		_ = err
	})
}

// FuzzParseRankFields fuzzes the ranked field list parser.
func FuzzParseRankFields(f *testing.F) {
	seeds := []string{
		"Impact,Targeting",
		"Impact, Impact",
		" , ,",
		"MPI",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		fields, err := ParseRankFields(input)
		if err != nil {
			return
		}
		if len(fields) == 0 {
			t.Fatalf("no fields and no error for %q", input)
		}
		for i, field := range fields {
			if field == "" || field != strings.TrimSpace(field) {
				t.Fatalf("untrimmed field %q", field)
			}
			if slices.Contains(fields[i+1:], field) {
				t.Fatalf("duplicate field %q", field)
			}
		}
	})
}
