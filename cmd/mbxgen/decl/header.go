package decl

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"modernc.org/token"
)

// Header is the read-only content of one input header.
type Header struct {
	Path  string
	Lines []string // line endings stripped

	file   *token.File
	starts []int // byte offset of each line
}

// LoadHeader reads the header at path.
func LoadHeader(path string) (*Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	return NewHeader(path, data), nil
}

// NewHeader wraps in-memory header content.
func NewHeader(path string, content []byte) *Header {
	h := &Header{
		Path: path,
		file: token.NewFile(path, len(content)),
	}

	offset := 0
	for _, raw := range strings.SplitAfter(string(content), "\n") {
		if raw == "" {
			break
		}
		if offset > 0 {
			h.file.AddLine(offset)
		}
		h.starts = append(h.starts, offset)
		h.Lines = append(h.Lines, trimEOL(raw))
		offset += len(raw)
	}
	return h
}

// Scan is Scan over the header's lines with error positions resolved
// against the header file.
func (h *Header) Scan(cur Cursor) (Decl, Cursor, bool, error) {
	d, next, ok, err := Scan(h.Lines, cur)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Pos = h.position(pe.Line)
		}
		return Decl{}, next, false, err
	}
	return d, next, ok, nil
}

// Decls drains every declaration in the header. It also returns the
// include-guard token, "" when the header has none. A name declared twice
// is an error since both would map to the same generated file.
func (h *Header) Decls() ([]Decl, string, error) {
	var (
		decls []Decl
		cur   Cursor
		seen  = make(map[string]int)
	)
	for {
		d, next, ok, err := h.Scan(cur)
		if err != nil {
			return nil, "", err
		}
		if !ok {
			return decls, next.Guard, nil
		}
		if first, dup := seen[d.Name]; dup {
			pe := malformedf(d.Line, "%s redeclared (first declared at line %d)", d.Name, first)
			pe.Pos = h.position(d.Line)
			return nil, "", pe
		}
		seen[d.Name] = d.Line
		decls = append(decls, d)
		cur = next
	}
}

// position resolves a 1-based line to the first non-blank column on it.
func (h *Header) position(line int) token.Position {
	if line < 1 || line > len(h.starts) {
		return token.Position{Filename: h.Path, Line: line}
	}
	text := h.Lines[line-1]
	col := len(text) - len(strings.TrimLeft(text, " \t"))
	return h.file.PositionFor(h.file.Pos(h.starts[line-1]+col), false)
}
