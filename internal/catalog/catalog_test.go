package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadValidatesEveryTopic(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	topics := c.Topics()
	require.NotEmpty(t, topics)

	for _, topic := range topics {
		qs, err := c.Generate(topic)
		require.NoError(t, err, "topic %q", topic)
		assert.Len(t, qs, 5, "topic %q", topic)
		for i, q := range qs {
			assert.NotEmpty(t, q.Text, "topic %q question %d", topic, i)
			assert.GreaterOrEqual(t, len(q.Options), 2, "topic %q question %d", topic, i)
			assert.GreaterOrEqual(t, q.CorrectAnswerIndex, 0, "topic %q question %d", topic, i)
			assert.Less(t, q.CorrectAnswerIndex, len(q.Options), "topic %q question %d", topic, i)
		}
	}
}

func TestGenerateNormalizesTopic(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	for _, input := range []string{"machine learning", "Machine Learning", "  MACHINE LEARNING  "} {
		qs, err := c.Generate(input)
		require.NoError(t, err, "input %q", input)
		assert.Len(t, qs, 5)
	}
}

func TestGenerateMachineLearningFixture(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	qs, err := c.Generate("machine learning")
	require.NoError(t, err)
	require.Len(t, qs, 5)
	// The third question (K-Means) keys on option index 1.
	assert.Equal(t, 1, qs[2].CorrectAnswerIndex)
}

func TestGenerateUnknownTopic(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	qs, err := c.Generate("underwater basket weaving")
	assert.Nil(t, qs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTopicOutOfScope))
}

func TestGenerateReturnsCopies(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	first, err := c.Generate("nlp")
	require.NoError(t, err)
	first[0].Text = "mutated"
	first[0].CorrectAnswerIndex = 99
	first[0].Options[0] = "mutated option"
	first[0].Options = append(first[0].Options, "extra")

	second, err := c.Generate("nlp")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second[0].Text)
	assert.NotEqual(t, 99, second[0].CorrectAnswerIndex)
	assert.NotEqual(t, "mutated option", second[0].Options[0])
	assert.NotContains(t, second[0].Options, "extra")
}
