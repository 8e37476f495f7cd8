package parser

import "fmt"

// SyntaxError reports a malformed PAL pattern file, with the line number
// the lexer had reached when the grammar violation was discovered.
// Mirrors PalParseDriver's location()-driven error reporting.
type SyntaxError struct {
	Line   int
	Detail string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parser: syntax error at line %d: %s", e.Line, e.Detail)
}
