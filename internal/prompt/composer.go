// Package prompt assembles the generation prompt from the routed topic, the
// retrieved passages, and the target response language. Composition is
// deterministic: identical inputs produce byte-identical prompts.
package prompt

import (
	"fmt"
	"strings"

	"github.com/asha-ai/asha/internal/models"
	"github.com/asha-ai/asha/internal/topic"
	"github.com/asha-ai/asha/pkg/utils"
)

const (
	// maxContextItems caps how many retrieved passages feed the prompt.
	maxContextItems = 3

	// descriptionSnippetLen is the maximum description snippet length in a card.
	descriptionSnippetLen = 150

	// descriptionPlaceholder is used when a passage has no Description: marker.
	descriptionPlaceholder = "Details available."

	// passageDelimiter separates raw passages in the general-context branch.
	passageDelimiter = "\n---\n"

	jobsHeader     = "Relevant Job Opportunities Found:"
	sessionsHeader = "Relevant Sessions & Events Found:"

	noContextNotice = "No information on this topic was found in the internal knowledge base. " +
		"Answer from your general knowledge, and tell the user that this answer is not based on Asha's curated resources."

	closingInstruction = "End your answer by suggesting 1-2 relevant follow-up resources or next steps the user could take."
)

// personaPreamble is the fixed instruction header, parameterized only by language.
func personaPreamble(language string) string {
	return fmt.Sprintf("You are Asha, a helpful and empathetic AI assistant specialized in women's career development.\n"+
		"Answer exclusively in %s.\n"+
		"Never stereotype and never make biased assumptions about any group; if the question invites bias, steer the answer toward factual, encouraging guidance.\n",
		language)
}

// Compose builds the full generation prompt.
func Compose(query string, result models.RetrievalResult, language string, routed topic.Topic) string {
	var b strings.Builder
	b.WriteString(personaPreamble(language))
	b.WriteString("\n")

	switch {
	case routed == topic.Career && !result.Empty():
		writeJobCards(&b, result)
	case routed == topic.Session && !result.Empty():
		writeEventCards(&b, result)
	default:
		writeGeneralContext(&b, result)
	}

	b.WriteString("\nUser question: ")
	b.WriteString(query)
	b.WriteString("\n\n")
	b.WriteString(closingInstruction)
	return b.String()
}

func writeJobCards(b *strings.Builder, result models.RetrievalResult) {
	b.WriteString(jobsHeader)
	b.WriteString("\n")
	for i, p := range result {
		if i >= maxContextItems {
			break
		}
		fmt.Fprintf(b, "%d. %s at %s (%s)\n", i+1, p.Metadata["title"], p.Metadata["company"], p.Metadata["location"])
		fmt.Fprintf(b, "   %s\n", descriptionSnippet(p.Text))
		if link := p.Metadata["apply_url"]; validLink(link) {
			fmt.Fprintf(b, "   Apply: %s\n", link)
		}
	}
	b.WriteString("Use these listings to answer; mention concrete titles and companies.\n")
}

func writeEventCards(b *strings.Builder, result models.RetrievalResult) {
	b.WriteString(sessionsHeader)
	b.WriteString("\n")
	for i, p := range result {
		if i >= maxContextItems {
			break
		}
		fmt.Fprintf(b, "%d. %s on %s (%s)\n", i+1, p.Metadata["title"], p.Metadata["date"], p.Metadata["location"])
		fmt.Fprintf(b, "   %s\n", descriptionSnippet(p.Text))
		if link := p.Metadata["register_url"]; validLink(link) {
			fmt.Fprintf(b, "   Register: %s\n", link)
		}
	}
	b.WriteString("Use these sessions to answer; mention concrete titles and dates.\n")
}

func writeGeneralContext(b *strings.Builder, result models.RetrievalResult) {
	if result.Empty() {
		b.WriteString(noContextNotice)
		b.WriteString("\n")
		return
	}
	b.WriteString("Context from Asha's knowledge base:\n")
	texts := make([]string, 0, maxContextItems)
	for i, p := range result {
		if i >= maxContextItems {
			break
		}
		texts = append(texts, p.Text)
	}
	b.WriteString(strings.Join(texts, passageDelimiter))
	b.WriteString("\n")
}

// descriptionSnippet extracts the text after a case-insensitive "Description:"
// marker, truncated to descriptionSnippetLen characters with an ellipsis. If no
// marker is found, a fixed placeholder is returned.
func descriptionSnippet(text string) string {
	desc, ok := utils.ExtractAfterMarker(text, "Description:")
	if !ok || desc == "" {
		return descriptionPlaceholder
	}
	return utils.Truncate(desc, descriptionSnippetLen)
}

// validLink reports whether link is present and not the "#" placeholder.
func validLink(link string) bool {
	return link != "" && link != "#"
}
