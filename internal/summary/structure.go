package summary

import (
	"regexp"
	"strings"
)

// Section markers in the two formats the summarizer prompt produces.
const (
	summaryMarker       = "**Human-Like Summary:**"
	summaryMarkerAlt    = "### 🔷 **Human-Like Summary**"
	mainPointsMarker    = "**Main Points:**"
	mainPointsMarkerAlt = "### 🔷 **Main Points**"
	conclusionMarker    = "**Conclusion:**"
	conclusionMarkerAlt = "### 🔷 **Conclusion**"
)

var (
	summaryPattern    = regexp.MustCompile(`(?s)(?:\*\*Human-Like Summary:\*\*|### 🔷 \*\*Human-Like Summary\*\*)(.+?)(?:\*\*Main Points:|### 🔷 \*\*Main Points\*\*|$)`)
	mainPointsPattern = regexp.MustCompile(`(?s)(?:\*\*Main Points:\*\*|### 🔷 \*\*Main Points\*\*)(.+?)(?:\*\*Conclusion:|### 🔷 \*\*Conclusion\*\*|$)`)
	conclusionPattern = regexp.MustCompile(`(?s)(?:\*\*Conclusion:\*\*|### 🔷 \*\*Conclusion\*\*)(.+?)$`)
)

// Sections is a summary split into its three headed parts. Absent parts are
// empty. When Structured is false none of the markers were found and Text
// should be rendered whole.
type Sections struct {
	Summary    string `json:"summary,omitempty"`
	MainPoints string `json:"mainPoints,omitempty"`
	Conclusion string `json:"conclusion,omitempty"`
	Structured bool   `json:"structured"`
	Text       string `json:"text"`
}

// Structure detects the section markers in text and extracts each section.
func Structure(text string) Sections {
	out := Sections{Text: text}
	hasSummary := containsAny(text, summaryMarker, summaryMarkerAlt)
	hasPoints := containsAny(text, mainPointsMarker, mainPointsMarkerAlt)
	hasConclusion := containsAny(text, conclusionMarker, conclusionMarkerAlt)
	if !hasSummary && !hasPoints && !hasConclusion {
		return out
	}
	out.Structured = true
	if hasSummary {
		out.Summary = firstGroup(summaryPattern, text)
	}
	if hasPoints {
		out.MainPoints = firstGroup(mainPointsPattern, text)
	}
	if hasConclusion {
		out.Conclusion = firstGroup(conclusionPattern, text)
	}
	return out
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Segment is a run of plain text, or a math placeholder when Math is set.
type Segment struct {
	Text string `json:"text"`
	Math bool   `json:"math,omitempty"`
}

// SplitMath splits text around MathMarker so callers can highlight the
// placeholders. Empty parts between adjacent markers are dropped.
func SplitMath(text string) []Segment {
	parts := strings.Split(text, MathMarker)
	segments := make([]Segment, 0, 2*len(parts)-1)
	for i, part := range parts {
		if part != "" {
			segments = append(segments, Segment{Text: part})
		}
		if i < len(parts)-1 {
			segments = append(segments, Segment{Text: MathMarker, Math: true})
		}
	}
	return segments
}

// Result is a summarizer response ready for display.
type Result struct {
	Raw      string   `json:"raw"`
	Cleaned  string   `json:"cleaned"`
	Sections Sections `json:"sections"`
}

// Process cleans raw and splits the cleaned text into sections.
func Process(raw string) Result {
	cleaned := Clean(raw)
	return Result{Raw: raw, Cleaned: cleaned, Sections: Structure(cleaned)}
}
