package parser

import (
	"fmt"

	"github.com/walteh/codehl/pkg/token"
)

// UnexpectedTokenError reports a token that does not fit the construct being
// parsed.
type UnexpectedTokenError struct {
	Token    token.Token
	Expected string
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected %s %q at offset %d, expected %s", e.Token.Type, e.Token.Value, e.Token.Start, e.Expected)
}

// UnexpectedEndOfInputError reports input ending inside an unfinished
// construct.
type UnexpectedEndOfInputError struct {
	Expected string
}

func (e *UnexpectedEndOfInputError) Error() string {
	return fmt.Sprintf("unexpected end of input, expected %s", e.Expected)
}
