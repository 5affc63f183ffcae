package service

import (
	"testing"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify_PositiveKeywordsWin(t *testing.T) {
	s := NewSentimentService()

	sentiment := s.Classify("The staff was friendly and the food was delicious")
	assert.Equal(t, domain.SentimentPositive, sentiment)
}

func TestClassify_NegativeKeywordsWin(t *testing.T) {
	s := NewSentimentService()

	sentiment := s.Classify("Terrible experience, rude waiter and dirty tables")
	assert.Equal(t, domain.SentimentNegative, sentiment)
}

func TestClassify_TieFallsBackToNeutral(t *testing.T) {
	s := NewSentimentService()

	// One positive hit (great) and one negative hit (slow)
	sentiment := s.Classify("great food but slow delivery")
	assert.Equal(t, domain.SentimentNeutral, sentiment)
}

func TestClassify_EmptyTextIsNeutral(t *testing.T) {
	s := NewSentimentService()

	assert.Equal(t, domain.SentimentNeutral, s.Classify(""))
	assert.Equal(t, domain.SentimentNeutral, s.Classify("the weather outside"))
}

func TestClassify_MatchingIsCaseInsensitive(t *testing.T) {
	s := NewSentimentService()

	assert.Equal(t, domain.SentimentPositive, s.Classify("GREAT SERVICE!"))
	assert.Equal(t, domain.SentimentNegative, s.Classify("AWFUL."))
}

func TestClassify_KeywordsMatchWholeWordsOnly(t *testing.T) {
	s := NewSentimentService()

	// "goods" must not count as "good"
	assert.Equal(t, domain.SentimentNeutral, s.Classify("they sell goods here"))
}

func TestExtractTopics_UsesQuestionnaireMapping(t *testing.T) {
	s := NewSentimentService()

	mapping := domain.JSONB{
		"kitchen": []interface{}{"taste", "portion"},
		"parking": []interface{}{"parking", "garage"},
	}

	topics := s.ExtractTopics("The taste was great but parking was impossible", mapping)
	assert.Equal(t, []string{"kitchen", "parking"}, topics)
}

func TestExtractTopics_FallsBackToDefaultTable(t *testing.T) {
	s := NewSentimentService()

	topics := s.ExtractTopics("The waiter was slow and the place was dirty", nil)
	assert.Equal(t, []string{"cleanliness", "service", "speed"}, topics)
}

func TestExtractTopics_SkipsMalformedMappingEntries(t *testing.T) {
	s := NewSentimentService()

	mapping := domain.JSONB{
		"valid":  []interface{}{"staff"},
		"broken": "not-a-list",
		"empty":  []interface{}{},
	}

	topics := s.ExtractTopics("the staff was nice", mapping)
	assert.Equal(t, []string{"valid"}, topics)
}

func TestExtractTopics_FullyMalformedMappingUsesDefaults(t *testing.T) {
	s := NewSentimentService()

	mapping := domain.JSONB{"broken": 42}

	topics := s.ExtractTopics("very expensive", mapping)
	assert.Equal(t, []string{"price"}, topics)
}

func TestExtractTopics_NoMatchesYieldsEmpty(t *testing.T) {
	s := NewSentimentService()

	topics := s.ExtractTopics("nothing relevant here", nil)
	assert.Empty(t, topics)
}

func TestExtractTopics_EachTopicReportedOnce(t *testing.T) {
	s := NewSentimentService()

	// Multiple keywords of the same topic must not duplicate the tag
	topics := s.ExtractTopics("so slow, long wait, always waiting", nil)
	assert.Equal(t, []string{"speed"}, topics)
}

func TestTokenize_SplitsOnPunctuation(t *testing.T) {
	words := tokenize("Great, really great! 10/10")
	assert.Equal(t, []string{"great", "really", "great", "10", "10"}, words)
}
