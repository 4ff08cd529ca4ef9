package wrapper

import (
	"math"
	"sort"
	"strings"

	"github.com/a3tai/roll-extractor/internal/layout"
)

const (
	// lineTolerance groups glyphs whose baselines differ by at most this many
	// points into the same line.
	lineTolerance = 2.0

	// wordGapRatio is the gap, as a fraction of the font size, above which two
	// consecutive glyphs are separated by a space.
	wordGapRatio = 0.3
)

// placedText is a text element moved into top-left page space
type placedText struct {
	TextElement
	left float64
	top  float64
}

// ExtractRegions collects the text of every region from the elements of a
// page of the given size. A glyph belongs to a region when its origin lies in
// the region's rectangle.
func ExtractRegions(elements []TextElement, size PageSize, regions []layout.Region) map[string]string {
	placed := make([]placedText, 0, len(elements))
	for _, el := range elements {
		placed = append(placed, placedText{
			TextElement: el,
			left:        el.X - size.LowerLeft.X,
			top:         size.UpperRight.Y - el.Y,
		})
	}

	result := make(map[string]string, len(regions))
	for _, region := range regions {
		var inside []placedText
		for _, p := range placed {
			if region.Contains(p.left, p.top) {
				inside = append(inside, p)
			}
		}
		result[region.Name] = assemble(inside)
	}
	return result
}

// assemble orders glyphs into lines and joins them into a single trimmed string
func assemble(glyphs []placedText) string {
	if len(glyphs) == 0 {
		return ""
	}

	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].top < glyphs[j].top
	})

	var lines [][]placedText
	for _, g := range glyphs {
		n := len(lines)
		if n > 0 && math.Abs(lines[n-1][0].top-g.top) <= lineTolerance {
			lines[n-1] = append(lines[n-1], g)
			continue
		}
		lines = append(lines, []placedText{g})
	}

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := strings.TrimSpace(joinLine(line)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func joinLine(line []placedText) string {
	sort.SliceStable(line, func(i, j int) bool {
		return line[i].left < line[j].left
	})

	var b strings.Builder
	for i, g := range line {
		if i > 0 {
			prev := line[i-1]
			gap := g.left - (prev.left + prev.Width)
			if gap > wordGapRatio*fontSize(prev, g) && !endsWithSpace(b.String()) && !strings.HasPrefix(g.Text, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.Text)
	}
	return b.String()
}

func fontSize(a, b placedText) float64 {
	size := math.Max(a.FontSize, b.FontSize)
	if size <= 0 {
		return 1
	}
	return size
}

func endsWithSpace(s string) bool {
	return strings.HasSuffix(s, " ")
}
