package pdf

import (
	"fmt"
	"sort"
	"strings"
)

// Default tolerances for character grouping, in points
const (
	DefaultXTolerance = 3.0
	DefaultYTolerance = 3.0
)

// extractTextIn filters chars to those intersecting bbox and organizes them
// into text. Shared by all Page implementations.
func extractTextIn(chars []CharObject, bbox BoundingBox, xTol, yTol float64) (string, error) {
	if !bbox.IsValid() {
		return "", fmt.Errorf("invalid extraction bbox (%.2f, %.2f, %.2f, %.2f)",
			bbox.X0, bbox.Y0, bbox.X1, bbox.Y1)
	}
	if xTol <= 0 {
		xTol = DefaultXTolerance
	}
	if yTol <= 0 {
		yTol = DefaultYTolerance
	}

	var within []CharObject
	for _, c := range chars {
		if bbox.Intersects(c.GetBBox()) {
			within = append(within, c)
		}
	}

	return organizeText(within, xTol, yTol), nil
}

// organizeText organizes character objects into structured text: characters
// are sorted top to bottom and left to right, grouped into lines by yTol,
// and joined with spaces where the horizontal gap exceeds xTol.
func organizeText(chars []CharObject, xTol, yTol float64) string {
	if len(chars) == 0 {
		return ""
	}

	lines := groupIntoLines(sortCharacters(chars, yTol), yTol)

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(extractLineText(line, xTol))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

// sortCharacters sorts characters by their position on the page
func sortCharacters(chars []CharObject, yTol float64) []CharObject {
	sorted := make([]CharObject, len(chars))
	copy(sorted, chars)

	sort.Slice(sorted, func(i, j int) bool {
		// First sort by Y position (top to bottom)
		if abs(sorted[i].Y0-sorted[j].Y0) > yTol {
			return sorted[i].Y0 < sorted[j].Y0
		}
		// Then sort by X position (left to right)
		return sorted[i].X0 < sorted[j].X0
	})

	return sorted
}

// groupIntoLines groups characters into lines based on Y position
func groupIntoLines(chars []CharObject, yTol float64) [][]CharObject {
	if len(chars) == 0 {
		return nil
	}

	var lines [][]CharObject
	var currentLine []CharObject

	currentY := chars[0].Y0

	for _, char := range chars {
		if abs(char.Y0-currentY) > yTol {
			if len(currentLine) > 0 {
				lines = append(lines, currentLine)
			}
			currentLine = []CharObject{char}
			currentY = char.Y0
		} else {
			currentLine = append(currentLine, char)
		}
	}

	if len(currentLine) > 0 {
		lines = append(lines, currentLine)
	}

	return lines
}

// extractLineText extracts text from a line of characters
func extractLineText(lineChars []CharObject, xTol float64) string {
	if len(lineChars) == 0 {
		return ""
	}

	sort.Slice(lineChars, func(i, j int) bool {
		return lineChars[i].X0 < lineChars[j].X0
	})

	var result strings.Builder
	var lastX float64

	for i, char := range lineChars {
		if i > 0 {
			// A gap wider than the tolerance separates two text runs
			if char.X0-lastX > xTol {
				result.WriteString(" ")
			}
		}
		result.WriteString(char.Text)
		lastX = char.X1
	}

	return result.String()
}

// extractWords groups characters into words. Shared by all Page
// implementations.
func extractWords(chars []CharObject, xTol, yTol float64) []Word {
	if len(chars) == 0 {
		return nil
	}
	if xTol <= 0 {
		xTol = DefaultXTolerance
	}
	if yTol <= 0 {
		yTol = DefaultYTolerance
	}

	lines := groupIntoLines(sortCharacters(chars, yTol), yTol)

	var words []Word
	for _, line := range lines {
		words = append(words, extractWordsFromLine(line, xTol)...)
	}

	return words
}

// extractWordsFromLine extracts words from a single line of characters
func extractWordsFromLine(lineChars []CharObject, xTol float64) []Word {
	if len(lineChars) == 0 {
		return nil
	}

	sort.Slice(lineChars, func(i, j int) bool {
		return lineChars[i].X0 < lineChars[j].X0
	})

	var words []Word
	var currentWord []CharObject

	for i, char := range lineChars {
		if i == 0 {
			currentWord = []CharObject{char}
			continue
		}
		gap := char.X0 - lineChars[i-1].X1
		if gap > xTol || gap > char.Width*0.3 {
			if len(currentWord) > 0 {
				words = append(words, createWord(currentWord))
			}
			currentWord = []CharObject{char}
		} else {
			currentWord = append(currentWord, char)
		}
	}

	if len(currentWord) > 0 {
		words = append(words, createWord(currentWord))
	}

	return words
}

// createWord creates a Word from a group of characters
func createWord(chars []CharObject) Word {
	var text strings.Builder
	minX, minY := chars[0].X0, chars[0].Y0
	maxX, maxY := chars[0].X1, chars[0].Y1

	for _, char := range chars {
		text.WriteString(char.Text)
		minX = min(minX, char.X0)
		minY = min(minY, char.Y0)
		maxX = max(maxX, char.X1)
		maxY = max(maxY, char.Y1)
	}

	return Word{
		Text:       text.String(),
		X0:         minX,
		Y0:         minY,
		X1:         maxX,
		Y1:         maxY,
		Characters: chars,
	}
}
