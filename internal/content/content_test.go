package content

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(t *testing.T) *StaticPool {
	t.Helper()
	pool, err := ParsePool(defaultPool, rand.New(rand.NewPCG(42, 1)))
	require.NoError(t, err)
	return pool
}

func TestDefaultPoolShape(t *testing.T) {
	pool, err := DefaultPool()
	require.NoError(t, err)
	assert.Equal(t, 5, pool.QuizSize())
	assert.Len(t, pool.jokes, 7)
}

func TestGenerateQuizCounts(t *testing.T) {
	pool := testPool(t)
	gen := NewGenerator(nil, pool, pool)

	for _, tc := range []struct{ n, want int }{
		{0, DefaultQuizCount},
		{-1, DefaultQuizCount},
		{1, 1},
		{2, 2},
		{5, 5},
		{100, 5},
	} {
		items := gen.GenerateQuiz(tc.n)
		assert.Len(t, items, tc.want, "n=%d", tc.n)
	}
}

func TestGenerateQuizItemsAreDistinctAndValid(t *testing.T) {
	pool := testPool(t)
	gen := NewGenerator(nil, pool, pool)

	for run := 0; run < 50; run++ {
		items := gen.GenerateQuiz(4)
		seen := map[string]bool{}
		for _, item := range items {
			assert.False(t, seen[item.Question], "duplicate question %q", item.Question)
			seen[item.Question] = true

			require.Len(t, item.Options, 4)
			matches := 0
			for _, opt := range item.Options {
				if opt == item.Correct {
					matches++
				}
			}
			assert.Equal(t, 1, matches)
		}
	}
}

func TestQuizReturnsCopies(t *testing.T) {
	pool := testPool(t)
	items := pool.Quiz(5)
	items[0].Options[0] = "tampered"

	for _, again := range pool.Quiz(5) {
		assert.NotContains(t, again.Options, "tampered")
	}
}

func TestJokeComesFromPool(t *testing.T) {
	pool := testPool(t)
	gen := NewGenerator(nil, pool, pool)

	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		joke := gen.Joke()
		assert.Contains(t, pool.jokes, joke)
		seen[joke] = true
	}
	assert.Len(t, seen, 7)
}

func TestParsePoolRejectsBadItems(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	_, err := ParsePool([]byte(`
quiz:
  - question: Q?
    options: [a, b, c]
    correct: a
jokes: [ha]
`), rng)
	assert.Error(t, err)

	_, err = ParsePool([]byte(`
quiz:
  - question: Q?
    options: [a, b, c, d]
    correct: e
jokes: [ha]
`), rng)
	assert.Error(t, err)

	_, err = ParsePool([]byte(`quiz: []`), rng)
	assert.Error(t, err)
}

type stubImages struct {
	url string
	err error
}

func (s stubImages) GenerateImage(ctx context.Context) (string, error) { return s.url, s.err }

func TestGenerateImage(t *testing.T) {
	pool := testPool(t)

	ok := NewGenerator(stubImages{url: "https://img/x.png"}, pool, pool)
	assert.Equal(t, "https://img/x.png", ok.GenerateImage(context.Background()))

	failing := NewGenerator(stubImages{err: errors.New("quota exceeded")}, pool, pool)
	assert.Equal(t, "", failing.GenerateImage(context.Background()))

	none := NewGenerator(nil, pool, pool)
	assert.Equal(t, "", none.GenerateImage(context.Background()))
}
