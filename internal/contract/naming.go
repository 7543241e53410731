package contract

import "strings"

// camelCase converts a snake_case method or parameter identifier into the
// GraphQL-safe camelCase exposed name.
func camelCase(s string) string {
	parts := strings.Split(s, "_")
	out := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if out == "" {
			out = strings.ToLower(part[:1]) + part[1:]
			continue
		}
		out += strings.ToUpper(part[:1]) + part[1:]
	}
	return out
}

// artifactName derives the closed dispatch type name from the contract
// identifier when the declaration does not choose one.
func artifactName(contract string) string {
	return contract + "Value"
}

// isIdent reports whether s is a single bare identifier.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
