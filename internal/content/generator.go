// Package content produces the non-news parts of a deck: the illustration,
// the quiz and the closing joke.
package content

import (
	"context"

	"github.com/bilgisen/technews/internal/logger"
	"github.com/bilgisen/technews/internal/models"
)

// DefaultQuizCount is used when GenerateQuiz is asked for zero items.
const DefaultQuizCount = 3

// ImageSource produces the URL of an illustration.
type ImageSource interface {
	GenerateImage(ctx context.Context) (string, error)
}

// QuizSource hands out up to n distinct quiz items.
type QuizSource interface {
	Quiz(n int) []models.QuizItem
}

// JokeSource hands out a joke.
type JokeSource interface {
	Joke() string
}

// Generator combines the three content sources behind one API.
type Generator struct {
	images ImageSource
	quiz   QuizSource
	jokes  JokeSource
}

// NewGenerator wires the sources. images may be nil, in which case
// GenerateImage always returns "".
func NewGenerator(images ImageSource, quiz QuizSource, jokes JokeSource) *Generator {
	return &Generator{images: images, quiz: quiz, jokes: jokes}
}

// GenerateImage returns an illustration URL, or "" when generation fails.
func (g *Generator) GenerateImage(ctx context.Context) string {
	if g.images == nil {
		return ""
	}
	url, err := g.images.GenerateImage(ctx)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("Image generation failed")
		return ""
	}
	return url
}

// GenerateQuiz returns count quiz items (DefaultQuizCount when count <= 0),
// capped at what the source holds.
func (g *Generator) GenerateQuiz(count int) []models.QuizItem {
	if count <= 0 {
		count = DefaultQuizCount
	}
	return g.quiz.Quiz(count)
}

// Joke returns a joke for the closing slide.
func (g *Generator) Joke() string {
	return g.jokes.Joke()
}
