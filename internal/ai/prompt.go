package ai

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"voice-of-kalki/internal/model"
)

// newsSystemPrompt constrains the response to the article schema. The service
// is an untrusted producer; the schema is requested, never assumed.
const newsSystemPrompt = `You are the "Voice Of Kalki" real-time information engine.
Respond with a raw JSON array only, no prose and no code fences.
Each element must be an object with exactly these fields:
id (string, unique), title (string), summary (string),
fullDescription (string, detailed 3-4 paragraph background of the story),
source (string, platform name such as X, Reddit, The Hindu, Deccan Herald),
sourceUrl (string), timestamp (string, relative time like "2 hours ago" or "Just now"),
category (string, one of: Trending, Politics, Current Affairs, Sports, Entertainment, Business, Technology, Health, Crime, Education),
region (string), isUrgent (boolean),
isVerified (boolean, true only for verified official sources or major news media outlets).`

//go:embed styles.yaml
var stylesYAML []byte

// languageStyles maps a language code to its writing-style guidance.
var languageStyles = mustStyles()

func mustStyles() map[string]string {
	m := map[string]string{}
	if err := yaml.Unmarshal(stylesYAML, &m); err != nil {
		panic(fmt.Sprintf("ai: invalid styles.yaml: %v", err))
	}
	return m
}

func buildNewsPrompt(lang model.Language, region model.Region, city string, genre model.Genre) string {
	regionQuery := string(region)
	if region == model.RegionCity {
		regionQuery = city
	}

	langText := "English"
	if lang == model.LanguageKannada {
		langText = "Kannada"
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "Aggregate the most recent (within 24 hours) data for %s in %s.\n\n", regionQuery, langText)
	b.WriteString("HYPER-IMPORTANT: Blend traditional news media reports with current social media pulse (trending posts on X/Twitter, Reddit discussions, and local community social signals).\n")
	fmt.Fprintf(b, "Focus: %s.\n\n", genreConstraint(genre))
	if style, ok := languageStyles[string(lang)]; ok {
		fmt.Fprintf(b, "For %s content: %s\n\n", langText, style)
	}
	b.WriteString("Return a JSON array of stories following the schema strictly. Ensure unique IDs.")
	return b.String()
}

// genreConstraint broadens Trending into topical guidance instead of passing
// it through as a category literal.
func genreConstraint(genre model.Genre) string {
	switch genre {
	case model.GenreAll, "":
		return "a broad mix of topics"
	case model.GenreTrending:
		return "high-engagement viral topics, internet trends, and breaking social media alerts"
	default:
		return fmt.Sprintf("specifically %s", genre)
	}
}
