package llm

import "strings"

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// buildSummaryPrompt asks for the three headed sections that the summary
// package knows how to split.
func buildSummaryPrompt(title, content string) string {
	if title == "" {
		title = "the paper"
	}
	var b strings.Builder
	b.WriteString("Please summarize the following text in a structured format with a human-like summary, main points, and a conclusion:\n\n")
	b.WriteString("### 🔷 **Human-Like Summary**\nProvide a high-level overview in one paragraph.\n\n")
	b.WriteString("### 🔷 **Main Points**\n")
	b.WriteString("- Extract key findings and concepts.\n")
	b.WriteString("- Highlight the most important arguments and results.\n")
	b.WriteString("- Keep the bullet points concise and informative.\n\n")
	b.WriteString("### 🔷 **Conclusion**\n")
	b.WriteString("- Summarize the key takeaways and implications.\n")
	b.WriteString("- Mention any recommendations or final thoughts.\n\n")
	b.WriteString("Paper title: " + title + "\n\n")
	b.WriteString("Text:\n" + content + "\n\n")
	b.WriteString("Ensure the summary is **clear, concise, and professional**.")
	return b.String()
}
