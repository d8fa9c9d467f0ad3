package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/walteh/codehl/pkg/token"
)

// Section is a named region delimited by marker comments:
//
//	// @section setup
//	const x = 1;
//	// @endsection
//
// Start and End bound the content between the markers; the markers
// themselves are outside the region.
type Section struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

var (
	sectionStart = regexp.MustCompile(`^(?://|/\*)\s*@section\s+([\w.-]+)`)
	sectionEnd   = regexp.MustCompile(`^(?://|/\*)\s*@endsection\b`)
)

// Sections lists the marked regions in order of their start marker. An
// @endsection closes the innermost open section; sections still open at the
// end of input run to the end of code.
func Sections(tokens []token.Token, code string) []Section {
	var (
		out  []Section
		open []int
	)
	for _, t := range tokens {
		if t.Type != token.Comment {
			continue
		}
		if m := sectionStart.FindStringSubmatch(t.Value); m != nil {
			out = append(out, Section{Name: m[1], Start: t.End, End: -1})
			open = append(open, len(out)-1)
			continue
		}
		if sectionEnd.MatchString(t.Value) && len(open) > 0 {
			out[open[len(open)-1]].End = t.Start
			open = open[:len(open)-1]
		}
	}
	for _, i := range open {
		out[i].End = len(code)
	}
	return out
}

// FindSection returns the first section called name.
func FindSection(tokens []token.Token, code, name string) (Section, bool) {
	for _, s := range Sections(tokens, code) {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// renderSectioned emphasizes sec and dims everything around it.
func renderSectioned(tokens []token.Token, code string, sec Section) string {
	var sb strings.Builder
	wrap := func(open string, from, to int) {
		if from >= to {
			return
		}
		sb.WriteString(open)
		renderRange(&sb, tokens, code, from, to)
		sb.WriteString("</span>")
	}
	wrap(`<span class="dimmed">`, 0, sec.Start)
	wrap(fmt.Sprintf(`<span class="highlight-section" data-section="%s">`, Escape(sec.Name)), sec.Start, sec.End)
	wrap(`<span class="dimmed">`, sec.End, len(code))
	return sb.String()
}
