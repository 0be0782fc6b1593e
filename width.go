package vtterm

import "github.com/unilibs/uniwidth"

// runeWidth returns the display width of a rune (0, 1, or 2 columns).
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isWideRune returns true if the rune occupies 2 columns (CJK, etc).
func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}

// stringWidth returns the total display width of a string.
func stringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
