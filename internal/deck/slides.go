package deck

import (
	"github.com/bilgisen/technews/internal/models"
)

// SlideKind identifies the role of a slide in the deck.
type SlideKind string

const (
	SlideTitle   SlideKind = "title"
	SlideOutline SlideKind = "outline"
	SlideImage   SlideKind = "image"
	SlideQuiz    SlideKind = "quiz"
	SlideArticle SlideKind = "article"
	SlideJoke    SlideKind = "joke"
)

const (
	// MaxArticleSlides caps the number of article slides per deck.
	MaxArticleSlides = 15
	// QuizSlides is the number of quiz questions shown.
	QuizSlides = 2
)

// Slide is one planned page. Article is set for article slides, Number for
// quiz slides (1-based).
type Slide struct {
	Kind    SlideKind
	Article *models.Article
	Number  int
}

// Plan lays out the deck: title, outline, image, quiz slides, at most
// MaxArticleSlides article slides, joke.
func Plan(articles []models.Article) []Slide {
	if len(articles) > MaxArticleSlides {
		articles = articles[:MaxArticleSlides]
	}

	slides := []Slide{
		{Kind: SlideTitle},
		{Kind: SlideOutline},
		{Kind: SlideImage},
	}
	for i := 1; i <= QuizSlides; i++ {
		slides = append(slides, Slide{Kind: SlideQuiz, Number: i})
	}
	for i := range articles {
		slides = append(slides, Slide{Kind: SlideArticle, Article: &articles[i]})
	}
	return append(slides, Slide{Kind: SlideJoke})
}

// Count returns how many slides of kind the plan holds.
func Count(slides []Slide, kind SlideKind) int {
	n := 0
	for _, s := range slides {
		if s.Kind == kind {
			n++
		}
	}
	return n
}
