// Package deck renders the newsletter as a 16:9 PDF slide deck.
package deck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bilgisen/technews/internal/logger"
	"github.com/bilgisen/technews/internal/models"
	"github.com/bilgisen/technews/internal/utils"
)

// PlaceholderImageURL stands in for articles that carry no image.
const PlaceholderImageURL = "https://images.unsplash.com/photo-1518770660439-4636190af475?w=800"

const (
	innovationFallback = "Today's innovation focuses on emerging technologies in AI, machine learning, and sustainable tech solutions that are shaping our digital future."
	noDescription      = "No description available"
	titleCells         = 70
	descriptionCells   = 520
)

// ContentProvider supplies the generated parts of the deck.
type ContentProvider interface {
	GenerateImage(ctx context.Context) string
	GenerateQuiz(count int) []models.QuizItem
	Joke() string
}

// Renderer builds decks into an output directory.
type Renderer struct {
	content   ContentProvider
	images    ImageFetcher
	outputDir string
	now       func() time.Time
}

func NewRenderer(content ContentProvider, images ImageFetcher, outputDir string) *Renderer {
	return &Renderer{
		content:   content,
		images:    images,
		outputDir: outputDir,
		now:       time.Now,
	}
}

// FileName is the deck name for the given day. Same-day runs overwrite.
func FileName(day time.Time) string {
	return fmt.Sprintf("tech_news_%s.pdf", day.Format("20060102"))
}

// Render builds the deck for articles and returns the path of the written
// file.
func (r *Renderer) Render(ctx context.Context, articles []models.Article) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	doc, err := r.build(ctx, articles)
	if err != nil {
		return "", err
	}

	path := filepath.Join(r.outputDir, FileName(r.now()))
	if err := doc.save(path); err != nil {
		return "", err
	}

	logger.WithComponent("deck").Info().
		Str("path", path).
		Int("slides", doc.pageCount()).
		Int("article_slides", countKinds(doc.kinds, SlideArticle)).
		Msg("Deck rendered")
	return path, nil
}

func (r *Renderer) build(ctx context.Context, articles []models.Article) (*document, error) {
	now := r.now()
	doc := newDocument("Daily Tech News Update - " + now.Format("January 02, 2006"))
	quiz := r.content.GenerateQuiz(QuizSlides)

	for _, slide := range Plan(articles) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render deck: %w", err)
		}

		switch slide.Kind {
		case SlideTitle:
			r.titleSlide(doc, now)
		case SlideOutline:
			r.outlineSlide(doc)
		case SlideImage:
			r.imageSlide(ctx, doc)
		case SlideQuiz:
			if slide.Number <= len(quiz) {
				r.quizSlide(doc, slide.Number, quiz[slide.Number-1])
			}
		case SlideArticle:
			r.articleSlide(ctx, doc, *slide.Article)
		case SlideJoke:
			r.jokeSlide(doc)
		}

		if err := doc.pdf.Error(); err != nil {
			return nil, fmt.Errorf("render %s slide: %w", slide.Kind, err)
		}
	}

	return doc, nil
}

func (r *Renderer) titleSlide(doc *document, now time.Time) {
	doc.addSlide(SlideTitle)
	doc.text(2, 3, 12, 2, "Daily Tech News Update", textStyle{size: 56, bold: true, color: palette.dark, align: "C"})
	doc.rect(4, 5, 8, 0.05, palette.primary)
	doc.text(2, 5.4, 12, 0.6, "Generated on "+now.Format("January 02, 2006"), textStyle{size: 32, color: palette.dark, align: "C"})
	doc.text(2, 6.0, 12, 0.6, "Your Daily Dose of Tech Innovation", textStyle{size: 32, color: palette.dark, align: "C"})
}

var outlineItems = []struct{ title, desc string }{
	{"Latest Tech News Updates", "Stay updated with the most recent tech developments"},
	{"Tech Innovation of the Day", "Explore cutting-edge technological breakthroughs"},
	{"Interactive Tech Quiz", "Test your knowledge with our tech challenge"},
	{"Tech Humor Break", "End with a light-hearted tech joke"},
}

func (r *Renderer) outlineSlide(doc *document) {
	doc.addSlide(SlideOutline)
	doc.text(1, 0.5, 14, 1.2, "Today's Tech News Agenda", textStyle{size: 36, bold: true, color: palette.dark})
	doc.rect(1, 1.8, 14, 0.03, palette.primary)

	for i, item := range outlineItems {
		y := 2.5 + float64(i)*1.5
		doc.frame(1, y, 14, 1.2, palette.light, palette.primary, 1)
		doc.text(1.5, y+0.15, 13, 0.45, item.title, textStyle{size: 24, bold: true, color: palette.dark})
		doc.text(2, y+0.6, 12, 0.4, item.desc, textStyle{size: 16, color: palette.primary})
	}
}

func (r *Renderer) imageSlide(ctx context.Context, doc *document) {
	doc.addSlide(SlideImage)
	doc.rect(6, 0.8, 4, 0.05, palette.primary)
	doc.text(2, 1, 12, 1, "TECH INNOVATION", textStyle{size: 50, bold: true, color: palette.dark, align: "C"})
	doc.text(2, 1.8, 12, 0.6, "OF THE DAY", textStyle{size: 30, color: palette.primary, align: "C"})
	doc.rect(6, 2.5, 4, 0.05, palette.primary)

	for i, c := range []rgb{palette.primary, palette.accent, palette.secondary} {
		offset := float64(i) * 0.3
		doc.circle(1.25+offset, 1.25+offset, 0.25, c, palette.light)
	}

	log := logger.WithComponent("deck")
	url := r.content.GenerateImage(ctx)
	if url == "" {
		doc.paragraph(3, 4.5, 10, innovationFallback, textStyle{size: 28, color: palette.dark, align: "C"})
		return
	}

	var name string
	data, err := r.images.Fetch(ctx, url)
	if err == nil {
		name, err = doc.registerImage(data)
	}
	if err == nil {
		doc.placeImage(name, 3, 3, 10, 5)
	}
	if err != nil {
		log.Warn().Err(err).Msg("Could not add generated image, using descriptive text")
		doc.paragraph(3, 4.5, 10, innovationFallback, textStyle{size: 28, color: palette.dark, align: "C"})
	}
}

func (r *Renderer) quizSlide(doc *document, number int, quiz models.QuizItem) {
	doc.addSlide(SlideQuiz)
	doc.text(1, 0.5, 14, 1.2, fmt.Sprintf("Tech Quiz Challenge #%d", number), textStyle{size: 36, bold: true, color: palette.dark})

	doc.frame(1, 2, 2, 0.4, palette.primary, palette.primary, 1)
	doc.text(1, 2, 2, 0.4, "Question", textStyle{size: 12, color: palette.light, align: "C"})

	doc.frame(1, 3, 14, 1.5, palette.light, palette.primary, 2)
	doc.paragraph(1.5, 3.3, 13, quiz.Question, textStyle{size: 24, bold: true, color: palette.dark})

	for j, option := range quiz.Options {
		row, col := float64(j/2), float64(j%2)
		x, y := 1+col*7.5, 5+row*1.2

		style := textStyle{size: 20, color: palette.dark}
		border, width := palette.primary, 1.0
		if quiz.IsCorrect(option) {
			style = textStyle{size: 20, bold: true, color: palette.secondary}
			border, width = palette.secondary, 2.0
		}

		doc.frame(x, y, 6.5, 1, palette.light, border, width)
		doc.text(x+0.5, y+0.2, 5.5, 0.6, fmt.Sprintf("%c. %s", 'A'+j, option), style)
	}

	doc.rect(1, 7.5, 14, 0.03, palette.primary)
}

// articleSlide draws the header then tries the two-column image layout,
// falling back to full-width text for this slide only.
func (r *Renderer) articleSlide(ctx context.Context, doc *document, a models.Article) {
	doc.addSlide(SlideArticle)

	title := a.Title
	if title == "" {
		title = "No Title Available"
	}
	source := a.Source
	if source == "" {
		source = "Unknown"
	}

	doc.text(1, 0.5, 14, 1.2, utils.Truncate(title, titleCells), textStyle{size: 36, bold: true, color: palette.dark})

	doc.frame(1, 2, 2.5, 0.4, palette.primary, palette.primary, 1)
	doc.text(1.1, 2, 2.3, 0.4, utils.Truncate(source, 24), textStyle{size: 12, color: palette.light, align: "C"})

	doc.frame(12, 2, 3, 0.4, palette.secondary, palette.secondary, 1)
	doc.text(12, 2, 3, 0.4, "Read Full Article ->", textStyle{size: 12, color: palette.light, align: "C"})
	doc.link(12, 2, 3, 0.4, a.URL)

	if err := r.tryImageLayout(ctx, doc, a); err != nil {
		logger.WithComponent("deck").Warn().
			Err(err).
			Str("title", a.Title).
			Msg("Article image unavailable, using text layout")
		r.textLayout(doc, a)
	}

	doc.rect(1, 7.5, 14, 0.03, palette.primary)
}

// tryImageLayout fetches and registers the article image before drawing
// anything, so a failure leaves the slide untouched.
func (r *Renderer) tryImageLayout(ctx context.Context, doc *document, a models.Article) error {
	url := a.ImageURL
	if url == "" {
		url = PlaceholderImageURL
	}

	data, err := r.images.Fetch(ctx, url)
	if err != nil {
		return err
	}
	name, err := doc.registerImage(data)
	if err != nil {
		return err
	}

	doc.paragraph(1, 3, 7, description(a), textStyle{size: 24, color: palette.dark})
	doc.frame(9, 3, 6, 4, palette.light, palette.primary, 2)
	doc.placeImage(name, 9.1, 3.1, 5.8, 3.8)
	return nil
}

func (r *Renderer) textLayout(doc *document, a models.Article) {
	doc.paragraph(1, 3, 14, description(a), textStyle{size: 24, color: palette.dark})
}

func (r *Renderer) jokeSlide(doc *document) {
	doc.addSlide(SlideJoke)
	doc.text(1, 0.5, 14, 1, "Tech Humor Break", textStyle{size: 32, bold: true, color: palette.primary})
	doc.paragraph(1, 3.5, 14, r.content.Joke(), textStyle{size: 24, color: palette.dark, align: "C"})
}

func description(a models.Article) string {
	if a.Description == "" {
		return noDescription
	}
	return utils.Truncate(a.Description, descriptionCells)
}

func countKinds(kinds []SlideKind, kind SlideKind) int {
	n := 0
	for _, k := range kinds {
		if k == kind {
			n++
		}
	}
	return n
}
