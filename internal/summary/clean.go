// Package summary post-processes text returned by a summarization backend
// before it is displayed.
package summary

import (
	"regexp"
	"strings"
)

// Marker tokens substituted for the placeholders emitted by the summarizer.
const (
	MathMarker     = "[MATH]"
	CitationMarker = "[CITATION]"
)

// minSentences is the number of sentences that must survive filtering before
// the text is rebuilt from the survivors.
const minSentences = 3

// minSentenceLen is exclusive.
const minSentenceLen = 15

// maxPasses bounds the fixpoint loop in Clean.
const maxPasses = 4

var (
	mathPlaceholder = regexp.MustCompile(`@xmath\d+`)
	waveBoilerplate = regexp.MustCompile(`\s+in the wave(?:front|function)(?:\s*was\s*the\s*wave(?:front)?)*\s*[,.-]*\s*`)
	commaRun        = regexp.MustCompile(`\s*,(?:\s*,)+`)
	doubledX        = regexp.MustCompile(`\bx(?:\s+x)+\b`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	trailingPunct   = regexp.MustCompile(`[,.:;]+\s*$`)
	periodRun       = regexp.MustCompile(`\.(?:\s*\.)+`)
	letMathBe       = regexp.MustCompile(`(?i)\blet\s+\[MATH\]\s+be\b`)
	letPrefix       = regexp.MustCompile(`(?i)\blet\s+`)
	isTheFollowing  = regexp.MustCompile(`(?i)\bis\s+the\s+following\s*:`)

	degenerate = []*regexp.Regexp{
		regexp.MustCompile(`(?:\s*,\s*)+$`),
		regexp.MustCompile(`\s+the\s+wave(?:\s+was)*\s*$`),
		regexp.MustCompile(`(?i)^\s*let\s+x\s*$`),
		regexp.MustCompile(`(?i)^\s*x\s+is\s+the\s+following\s*:`),
	}
)

// Clean removes known summarizer artifacts from raw. Empty or blank input
// yields "". Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	text := raw
	for i := 0; i < maxPasses; i++ {
		next := cleanOnce(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func cleanOnce(text string) string {
	text = strings.ReplaceAll(text, "<n>", " ")

	text = mathPlaceholder.ReplaceAllString(text, MathMarker)
	text = strings.ReplaceAll(text, "@xcite", CitationMarker)

	text = waveBoilerplate.ReplaceAllString(text, " ")
	text = commaRun.ReplaceAllString(text, ",")

	text = doubledX.ReplaceAllString(text, "x")

	text = keepMeaningfulSentences(text)

	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	text = trailingPunct.ReplaceAllString(text, ".")
	text = periodRun.ReplaceAllString(text, ".")

	text = letMathBe.ReplaceAllString(text, "where "+MathMarker+" represents")
	text = letPrefix.ReplaceAllString(text, "Consider ")
	text = isTheFollowing.ReplaceAllString(text, "can be expressed as:")
	return text
}

// keepMeaningfulSentences drops short or degenerate sentences when the text
// has more than three of them and at least three good ones remain.
func keepMeaningfulSentences(text string) string {
	sentences := strings.Split(text, ".")
	if len(sentences) <= minSentences {
		return text
	}
	good := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if meaningful(s) {
			good = append(good, strings.TrimSpace(s))
		}
	}
	if len(good) < minSentences {
		return text
	}
	return strings.Join(good, ". ") + "."
}

func meaningful(sentence string) bool {
	trimmed := strings.TrimSpace(sentence)
	if len(trimmed) <= minSentenceLen {
		return false
	}
	for _, re := range degenerate {
		if re.MatchString(trimmed) {
			return false
		}
	}
	return true
}
