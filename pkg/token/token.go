// Package token defines the whitespace tokenization rule shared by every
// stage of the preprocessing pipeline (counting, filtering, binarizing).
//
// The rule: collapse any run of whitespace to a single separator, trim
// leading and trailing whitespace, split on the separator. Tokens are
// returned left to right in line order.
package token

import "strings"

// Tokenize splits a line into symbols. A blank line (empty after trimming)
// yields nil.
func Tokenize(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
