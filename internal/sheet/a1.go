package sheet

import (
	"fmt"
	"strings"
)

// ColLetter converts a 1-based column number to its letter form, so 1
// is A, 26 is Z and 27 is AA.
func ColLetter(col int64) string {
	s := ""
	for col > 0 {
		col--
		s = string(rune('A'+col%26)) + s
		col /= 26
	}
	return s
}

// CellA1 renders a 1-based (row, col) pair as an A1 cell reference.
func CellA1(row, col int64) string {
	return fmt.Sprintf("%s%d", ColLetter(col), row)
}

// RangeA1 renders a worksheet-qualified rectangular range in A1
// notation.
func RangeA1(worksheet string, r1, c1, r2, c2 int64) string {
	return fmt.Sprintf("%s!%s:%s", quoteWorksheet(worksheet), CellA1(r1, c1), CellA1(r2, c2))
}

// quoteWorksheet wraps a title in single quotes when A1 notation
// requires it, doubling any quote inside the title.
func quoteWorksheet(title string) string {
	plain := true
	for _, r := range title {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			plain = false
			break
		}
	}
	if plain && title != "" {
		return title
	}
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
