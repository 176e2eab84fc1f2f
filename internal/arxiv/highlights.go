package arxiv

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxHighlights is the number of sentences Highlights returns at most.
const MaxHighlights = 4

// contributionWeights scores sentences that announce a contribution.
var contributionWeights = map[string]int{
	"propose": 4, "introduce": 4, "present": 3, "demonstrate": 3, "show": 2,
	"evaluate": 2, "achieve": 3, "model": 2, "framework": 3, "method": 3,
	"state-of-the-art": 4, "outperform": 4, "improv": 2, "approach": 2,
	"architecture": 2, "pipeline": 2, "result": 1, "experiment": 1,
}

type scoredSentence struct {
	text  string
	score int
	pos   int
}

// Highlights picks the abstract sentences most likely to state the paper's
// contributions, best first. Short abstracts are padded with leading
// sentences so at least three are returned when available.
func Highlights(abstract string) []string {
	abstract = strings.TrimSpace(abstract)
	if abstract == "" {
		return nil
	}
	sentences := splitSentences(abstract)
	if len(sentences) == 0 {
		return []string{abstract}
	}

	scored := make([]scoredSentence, len(sentences))
	for i, s := range sentences {
		scored[i] = scoredSentence{text: s, score: scoreSentence(s, i), pos: i}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	picked := make([]string, 0, MaxHighlights)
	seen := make(map[string]bool, MaxHighlights)
	add := func(s string) {
		if !seen[s] && len(picked) < MaxHighlights {
			seen[s] = true
			picked = append(picked, s)
		}
	}
	for _, s := range scored {
		if s.score <= 0 && len(picked) >= 2 {
			continue
		}
		add(s.text)
	}
	if len(picked) < 3 {
		for _, s := range sentences {
			add(s)
		}
	}
	return picked
}

func scoreSentence(sentence string, pos int) int {
	lower := strings.ToLower(sentence)
	score := 0
	for keyword, weight := range contributionWeights {
		if strings.Contains(lower, keyword) {
			score += weight
		}
	}
	if strings.Contains(lower, "we ") || strings.Contains(lower, "our ") {
		score++
	}
	if pos == 0 {
		score++
	}
	if len(sentence) < 40 {
		score--
	}
	return score
}

// splitSentences breaks text after '.', '!' and '?'.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	flush := func(end int) {
		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = end
	}
	for i, r := range text {
		if i < start {
			continue
		}
		if r == '.' || r == '!' || r == '?' {
			flush(i + utf8.RuneLen(r))
			for start < len(text) {
				next, size := utf8.DecodeRuneInString(text[start:])
				if !unicode.IsSpace(next) {
					break
				}
				start += size
			}
		}
	}
	flush(len(text))
	return sentences
}
