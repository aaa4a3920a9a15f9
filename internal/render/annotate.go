package render

import (
	"regexp"
)

// Segment is a run of annotated text; Label is empty for plain text
type Segment struct {
	Text  string
	Label string
}

// the service marks entities inline as [surface|LABEL]
var annotationPattern = regexp.MustCompile(`\[([^\[\]|]+)\|([A-Za-z_]+)\]`)

// Segments splits bracket-annotated text into plain and labeled runs so
// terminal hosts can color it. Markup without annotations is one plain segment.
func Segments(annotated string) []Segment {
	var segs []Segment
	last := 0
	for _, m := range annotationPattern.FindAllStringSubmatchIndex(annotated, -1) {
		if m[0] > last {
			segs = append(segs, Segment{Text: annotated[last:m[0]]})
		}
		segs = append(segs, Segment{
			Text:  annotated[m[2]:m[3]],
			Label: annotated[m[4]:m[5]],
		})
		last = m[1]
	}
	if last < len(annotated) {
		segs = append(segs, Segment{Text: annotated[last:]})
	}
	return segs
}
