package highlight

import (
	"github.com/walteh/codehl/pkg/position"
	"github.com/walteh/codehl/pkg/token"
)

// LocatedToken is a token plus its line/column range, the shape the CLI and
// RPC server report.
type LocatedToken struct {
	token.Token
	Range position.Range `json:"range"`
}

// Locate attaches line/column ranges to tokens of code.
func Locate(code string, tokens []token.Token) []LocatedToken {
	out := make([]LocatedToken, len(tokens))
	for i, t := range tokens {
		out[i] = LocatedToken{Token: t, Range: position.NewRange(code, t.Start, t.End)}
	}
	return out
}
