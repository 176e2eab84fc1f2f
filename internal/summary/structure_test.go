package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructure(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Sections
	}{
		{
			name: "unstructured",
			in:   "Plain summary text.",
			want: Sections{Text: "Plain summary text."},
		},
		{
			name: "inline markers",
			in:   "**Human-Like Summary:** A short story. **Main Points:** - one - two **Conclusion:** Done.",
			want: Sections{Summary: "A short story.", MainPoints: "- one - two", Conclusion: "Done.", Structured: true},
		},
		{
			name: "heading markers",
			in:   "### 🔷 **Human-Like Summary**\nIt works.\n\n### 🔷 **Main Points**\n- a\n- b\n\n### 🔷 **Conclusion**\nGood.",
			want: Sections{Summary: "It works.", MainPoints: "- a\n- b", Conclusion: "Good.", Structured: true},
		},
		{
			name: "conclusion only",
			in:   "Intro text **Conclusion:** The end.",
			want: Sections{Conclusion: "The end.", Structured: true},
		},
		{
			name: "summary runs to end",
			in:   "**Human-Like Summary:** Only this.",
			want: Sections{Summary: "Only this.", Structured: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want.Text = tt.in
			assert.Equal(t, tt.want, Structure(tt.in))
		})
	}
}

func TestStructureEmpty(t *testing.T) {
	got := Structure("")
	assert.False(t, got.Structured)
	assert.Empty(t, got.Summary)
}

func TestSplitMath(t *testing.T) {
	assert.Equal(t, []Segment{{Text: "no math"}}, SplitMath("no math"))
	assert.Equal(t, []Segment{
		{Text: "a "},
		{Text: MathMarker, Math: true},
		{Text: " b "},
		{Text: MathMarker, Math: true},
	}, SplitMath("a [MATH] b [MATH]"))
	assert.Empty(t, SplitMath(""))
}

func TestProcess(t *testing.T) {
	raw := "**Human-Like Summary:** We study @xmath3 fields. **Main Points:** - x x grows **Conclusion:** It works<n>well"
	got := Process(raw)
	assert.Equal(t, raw, got.Raw)
	assert.Equal(t, "**Human-Like Summary:** We study [MATH] fields. **Main Points:** - x grows **Conclusion:** It works well", got.Cleaned)
	assert.True(t, got.Sections.Structured)
	assert.Equal(t, "We study [MATH] fields.", got.Sections.Summary)
	assert.Equal(t, "- x grows", got.Sections.MainPoints)
	assert.Equal(t, "It works well", got.Sections.Conclusion)
}
