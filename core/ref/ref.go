// Package ref parses and formats A1-style cell references.
package ref

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/tidemill/sheetmap/core/errors"
)

// Cell is a zero-based (row, column) position in a worksheet grid.
type Cell struct {
	// Row is the zero-based row index.
	Row int `json:"row"`

	// Col is the zero-based column index.
	Col int `json:"col"`
}

// cellGrammar is the participle grammar for A1-style references.
// Examples: "A1", "BC23", "$D$5" (absolute markers are accepted and ignored).
//
//nolint:govet // participle grammar tags are not standard struct tags
type cellGrammar struct {
	ColAbs bool   `parser:"@Dollar?"`
	Col    string `parser:"@Letters"`
	RowAbs bool   `parser:"@Dollar?"`
	Row    int    `parser:"@Int"`
}

// cellLexer defines the lexer for cell references.
var cellLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Letters", Pattern: `[A-Za-z]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Dollar", Pattern: `\$`},
})

// cellParser is the participle parser for cell references.
var cellParser = participle.MustBuild[cellGrammar](
	participle.Lexer(cellLexer),
)

// ParseCell parses an A1-style cell reference into a zero-based Cell.
// Column letters are case-insensitive; "$" absolute markers are tolerated.
// Returns a FormatError when letters or digits are missing or malformed.
func ParseCell(s string) (Cell, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Cell{}, errors.NewFormat("cell reference", "empty reference string")
	}

	parsed, err := cellParser.ParseString("", s)
	if err != nil {
		return Cell{}, errors.WrapFormat("cell reference", err)
	}

	col, err := columnIndex(parsed.Col)
	if err != nil {
		return Cell{}, err
	}
	if parsed.Row < 1 {
		return Cell{}, errors.NewFormat("cell reference", "row numbers start at 1")
	}

	return Cell{Row: parsed.Row - 1, Col: col}, nil
}

// ParseRange parses a "TL:BR" range string into its two corner cells.
// The string is split once on the first ':'; each half is parsed
// independently with ParseCell.
func ParseRange(s string) (Cell, Cell, error) {
	tl, br, ok := strings.Cut(s, ":")
	if !ok {
		return Cell{}, Cell{}, errors.NewFormat("range", "missing ':' separator")
	}

	start, err := ParseCell(tl)
	if err != nil {
		return Cell{}, Cell{}, err
	}
	end, err := ParseCell(br)
	if err != nil {
		return Cell{}, Cell{}, err
	}
	return start, end, nil
}

// columnIndex converts column letters to a zero-based index ("A" -> 0,
// "Z" -> 25, "AA" -> 26).
func columnIndex(letters string) (int, error) {
	// Columns beyond "XFD" do not occur in real worksheets; the length cap
	// also keeps the accumulator well away from overflow.
	if len(letters) > 3 {
		return 0, errors.NewFormat("cell reference", "column "+letters+" out of range")
	}

	n := 0
	for _, c := range strings.ToUpper(letters) {
		if c < 'A' || c > 'Z' {
			return 0, errors.NewFormat("cell reference", "invalid column letter "+strconv.QuoteRune(c))
		}
		n = n*26 + int(c-'A') + 1
	}
	return n - 1, nil
}

// ColumnName converts a zero-based column index to its letter form
// (0 -> "A", 25 -> "Z", 26 -> "AA").
func ColumnName(col int) string {
	var sb strings.Builder
	for col >= 0 {
		sb.WriteByte(byte('A' + col%26))
		col = col/26 - 1
	}

	// The digits accumulate least-significant first.
	name := []byte(sb.String())
	for i, j := 0, len(name)-1; i < j; i, j = i+1, j-1 {
		name[i], name[j] = name[j], name[i]
	}
	return string(name)
}

// String returns the A1-style representation of the cell.
func (c Cell) String() string {
	return ColumnName(c.Col) + strconv.Itoa(c.Row+1)
}
