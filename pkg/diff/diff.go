// Package diff renders readable differences for test failure messages.
package diff

import (
	"fmt"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/kylelemons/godebug/diff"

	"github.com/walteh/codehl/pkg/token"
)

// Tokens diffs two token streams one token per line, so a single
// misclassification shows up as one changed line. Returns "" when equal.
func Tokens(want, got []token.Token) string {
	return annotate(tokenLines(got), tokenLines(want))
}

// Values diffs the exported fields of any two values.
func Values[T any](want, got T) string {
	printer := pp.New()
	printer.SetExportedOnly(true)
	printer.SetColoringEnabled(false)
	return annotate(printer.Sprint(got), printer.Sprint(want))
}

func tokenLines(tokens []token.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		fmt.Fprintf(&sb, "%-16s %4d:%-4d %q", t.Type, t.Start, t.End, t.Value)
		if len(t.Metadata) > 0 {
			printer := pp.New()
			printer.SetColoringEnabled(false)
			sb.WriteString(" ")
			sb.WriteString(strings.Join(strings.Fields(printer.Sprint(t.Metadata)), " "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func annotate(actual, expected string) string {
	if actual == expected {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nto turn ACTUAL into EXPECTED:\n\n")
	sb.WriteString("add:    +\nremove: -\n\n")
	sb.WriteString(diff.Diff(actual, expected))
	return sb.String()
}
