package site

// TabWidth is the number of spaces a leading tab counts for.
const TabWidth = 4

// IndentLevel returns the indentation depth of line in units of one tab or
// TabWidth spaces. Partial levels round down.
func IndentLevel(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case '\t':
			width += TabWidth
		case ' ':
			width++
		default:
			return width / TabWidth
		}
	}
	return width / TabWidth
}
