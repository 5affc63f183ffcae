package service

import (
	"sort"
	"strings"
	"unicode"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
)

// SentimentService assigns coarse sentiment labels and topic tags to review
// text. This is a keyword heuristic, not NLP: each word list is matched
// case-insensitively on word boundaries and whichever polarity scores more
// hits wins; ties fall back to neutral.
type SentimentService struct {
	positive map[string]bool
	negative map[string]bool
	// fallbackTopics is used when the questionnaire defines no category mapping.
	fallbackTopics map[string][]string
}

var positiveKeywords = []string{
	"good", "great", "excellent", "amazing", "awesome", "love", "loved",
	"friendly", "helpful", "fast", "quick", "clean", "fresh", "tasty",
	"delicious", "perfect", "recommend", "recommended", "satisfied", "happy",
	"wonderful", "best", "nice", "pleasant", "polite", "professional",
}

var negativeKeywords = []string{
	"bad", "terrible", "awful", "horrible", "hate", "hated", "rude",
	"slow", "dirty", "stale", "cold", "wrong", "broken", "disappointed",
	"disappointing", "worst", "poor", "unhelpful", "late", "expensive",
	"overpriced", "unfriendly", "mess", "waiting", "never",
}

// defaultTopicTable covers common feedback themes for questionnaires that
// ship without a category mapping of their own.
var defaultTopicTable = map[string][]string{
	"service":     {"service", "staff", "waiter", "employee", "helpful", "rude", "friendly"},
	"quality":     {"quality", "broken", "fresh", "stale", "taste", "tasty", "delicious"},
	"speed":       {"fast", "quick", "slow", "wait", "waiting", "late", "delay"},
	"price":       {"price", "expensive", "cheap", "overpriced", "value", "cost"},
	"cleanliness": {"clean", "dirty", "hygiene", "mess", "tidy"},
}

func NewSentimentService() *SentimentService {
	return &SentimentService{
		positive:       toSet(positiveKeywords),
		negative:       toSet(negativeKeywords),
		fallbackTopics: defaultTopicTable,
	}
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Classify labels text by keyword counts. Empty text and ties are neutral.
func (s *SentimentService) Classify(text string) domain.Sentiment {
	var pos, neg int
	for _, word := range tokenize(text) {
		if s.positive[word] {
			pos++
		}
		if s.negative[word] {
			neg++
		}
	}
	switch {
	case pos > neg:
		return domain.SentimentPositive
	case neg > pos:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// ExtractTopics returns the topics whose keyword lists match the text. When
// the questionnaire's category mapping is empty the built-in table is used.
// Topics come back sorted for stable output.
func (s *SentimentService) ExtractTopics(text string, categoryMapping domain.JSONB) []string {
	table := s.topicTable(categoryMapping)

	words := make(map[string]bool)
	for _, w := range tokenize(text) {
		words[w] = true
	}

	var topics []string
	for topic, keywords := range table {
		for _, kw := range keywords {
			if words[strings.ToLower(kw)] {
				topics = append(topics, topic)
				break
			}
		}
	}
	sort.Strings(topics)
	return topics
}

// topicTable converts a stored category mapping ({"topic": ["kw", ...]}) into
// keyword lists, skipping malformed entries.
func (s *SentimentService) topicTable(categoryMapping domain.JSONB) map[string][]string {
	if len(categoryMapping) == 0 {
		return s.fallbackTopics
	}

	table := make(map[string][]string, len(categoryMapping))
	for topic, raw := range categoryMapping {
		list, ok := raw.([]interface{})
		if !ok {
			continue
		}
		var keywords []string
		for _, item := range list {
			if kw, ok := item.(string); ok && kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) > 0 {
			table[topic] = keywords
		}
	}
	if len(table) == 0 {
		return s.fallbackTopics
	}
	return table
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
