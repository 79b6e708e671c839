package decl

import (
	"regexp"
	"strings"
)

var (
	macroRe = regexp.MustCompile(`^\s*` + Macro + `\s*\(`)
	guardRe = regexp.MustCompile(`^\s*#\s*if\s*!\s*defined\s*\(\s*(__IPP[^)]*)`)
)

// Scan examines lines starting at cur.Line and returns the next declaration.
//
// The returned cursor points past the last physical line the declaration
// occupied and carries the include-guard token once one has been seen.
// The bool is false when no declaration remains; the cursor is then at the end
// of input. Scan never panics on truncated input: a declaration whose
// parentheses never close yields a *ParseError naming its first line.
func Scan(lines []string, cur Cursor) (Decl, Cursor, bool, error) {
	cur.Line = max(cur.Line, 0)
	for i := cur.Line; i < len(lines); i++ {
		line := trimEOL(lines[i])
		if cur.Guard == "" {
			if g, found := guardToken(line); found {
				cur.Guard = g
			}
		}

		loc := macroRe.FindStringIndex(line)
		if loc == nil {
			continue
		}

		text, last, end, err := gather(lines, i, loc[1]-1)
		if err != nil {
			return Decl{}, cur, false, err
		}
		if rest := trimEOL(lines[last])[end+1:]; !onlyTrailer(rest) {
			return Decl{}, cur, false, malformedf(last+1, "unexpected text %q after %s declaration starting at line %d",
				strings.TrimSpace(rest), Macro, i+1)
		}
		d, err := parseInvocation(text, i+1)
		if err != nil {
			return Decl{}, cur, false, err
		}
		cur.Line = last + 1
		return d, cur, true, nil
	}

	cur.Line = max(cur.Line, len(lines))
	return Decl{}, cur, false, nil
}

// guardToken extracts "__IPPCP_H__" from "#if !defined( __IPPCP_H__ )".
func guardToken(line string) (string, bool) {
	m := guardRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.Join(strings.Fields(m[1]), ""), true
}

// gather collects the macro argument group that opens at lines[start][open],
// following it across physical lines until the parenthesis balances.
// Comments are dropped. It returns the group text, starting with "(" and
// ending with the matching ")", the index of the line it ended on and the
// byte offset of the closing ")" on that line.
func gather(lines []string, start, open int) (string, int, int, error) {
	var (
		b       strings.Builder
		stack   []byte
		inBlock bool
	)
	for i := start; i < len(lines); i++ {
		s, base := trimEOL(lines[i]), 0
		if i == start {
			s, base = s[open:], open
		} else {
			b.WriteByte('\n')
		}

		for j := 0; j < len(s); j++ {
			c := s[j]
			if inBlock {
				if c == '*' && j+1 < len(s) && s[j+1] == '/' {
					inBlock = false
					b.WriteByte(' ')
					j++
				}
				continue
			}
			if c == '/' && j+1 < len(s) {
				if s[j+1] == '/' {
					break
				}
				if s[j+1] == '*' {
					inBlock = true
					j++
					continue
				}
			}

			b.WriteByte(c)
			switch c {
			case '(', '[', '{':
				stack = append(stack, closerOf(c))
			case ')', ']', '}':
				if len(stack) == 0 || stack[len(stack)-1] != c {
					return "", i, 0, malformedf(i+1, "unbalanced %q in %s declaration starting at line %d", c, Macro, start+1)
				}
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					return b.String(), i, base + j, nil
				}
			}
		}
	}
	return "", len(lines) - 1, 0, malformedf(start+1, "unterminated %s declaration", Macro)
}

// onlyTrailer reports whether rest, the text after a declaration on its
// last line, holds nothing but semicolons, whitespace and comments. A block
// comment left open runs onto the following lines, which the next scan
// step examines as usual.
func onlyTrailer(rest string) bool {
	for {
		rest = strings.TrimSpace(rest)
		switch {
		case rest == "", strings.HasPrefix(rest, "//"):
			return true
		case strings.HasPrefix(rest, ";"):
			rest = rest[1:]
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return true
			}
			rest = rest[2+end+2:]
		default:
			return false
		}
	}
}

// parseInvocation splits "(type, name, (params))" into a Decl.
func parseInvocation(group string, line int) (Decl, error) {
	inner := group[1 : len(group)-1]
	fields := splitTopLevel(inner)
	if len(fields) != 3 {
		return Decl{}, malformedf(line, "%s expects 3 arguments (type, name, parameters), got %d in %q",
			Macro, len(fields), collapseSpace(group))
	}

	d := Decl{
		ReturnType: collapseSpace(fields[0]),
		Name:       collapseSpace(fields[1]),
		Line:       line,
	}
	params, err := splitParams(fields[2], line)
	if err != nil {
		return Decl{}, err
	}
	d.Params = params

	if err := d.Validate(); err != nil {
		return Decl{}, err
	}
	return d, nil
}

// splitTopLevel splits s at commas that are not nested in brackets.
func splitTopLevel(s string) []string {
	var (
		fields []string
		depth  int
		from   int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				fields = append(fields, s[from:i])
				from = i + 1
			}
		}
	}
	return append(fields, s[from:])
}

// matchClose returns the index of the bracket closing s[open].
func matchClose(s string, open int) (int, bool) {
	var stack []byte
	for i := open; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(', '[', '{':
			stack = append(stack, closerOf(c))
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return i, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
	}
	return len(s), false
}

func closerOf(c byte) byte {
	switch c {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
