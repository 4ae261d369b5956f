package kb

import (
	"bufio"
	"fmt"
	"strings"
)

// Parse reads a declarative fact listing: one parenthesized prefix statement
// per line, `;` line comments, blank lines ignored. Schema declarations of
// the form `(: name type)` are skipped; they document the ontology but carry
// no queryable data.
func Parse(text string) ([]Fact, error) {
	var facts []Fact

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if !strings.HasPrefix(line, "(") || !strings.HasSuffix(line, ")") {
			return nil, fmt.Errorf("line %d: statement must be parenthesized: %q", lineNo, line)
		}

		body := strings.TrimSpace(line[1 : len(line)-1])
		if body == "" || strings.HasPrefix(body, ":") {
			// Schema declaration or empty statement
			continue
		}

		tokens, err := tokenize(body)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(tokens) < 2 {
			return nil, fmt.Errorf("line %d: relation needs at least one argument: %q", lineNo, line)
		}

		facts = append(facts, Fact{
			Relation: tokens[0],
			Args:     tokens[1:],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan fact listing: %w", err)
	}

	return facts, nil
}

// tokenize splits a statement body into tokens. A double-quoted span becomes
// a single token with the quotes stripped, so free-text values like safety
// warnings survive as one argument.
func tokenize(body string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inQuote := false

	for _, r := range body {
		switch {
		case r == '"':
			if inQuote {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			inQuote = !inQuote
		case !inQuote && (r == ' ' || r == '\t'):
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote {
		return nil, fmt.Errorf("unterminated quoted value")
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens, nil
}
