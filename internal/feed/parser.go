package feed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bilgisen/technews/internal/models"
	"github.com/bilgisen/technews/internal/utils"
)

// removedMarker is what NewsAPI puts in every field of a retracted article.
const removedMarker = "[Removed]"

var errRemoved = errors.New("article was removed upstream")

// Parser cleans and normalizes articles coming from any source.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// CleanHTML strips markup, decodes entities and normalizes whitespace.
func (p *Parser) CleanHTML(input string) string {
	if !strings.ContainsAny(input, "<&") {
		return utils.NormalizeWhitespace(input)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return utils.NormalizeWhitespace(input)
	}
	return utils.NormalizeWhitespace(doc.Text())
}

// NormalizeArticle returns a cleaned copy of a.
func (p *Parser) NormalizeArticle(a models.Article) models.Article {
	return models.Article{
		Title:       p.CleanHTML(a.Title),
		Description: p.CleanHTML(a.Description),
		URL:         strings.TrimSpace(a.URL),
		Source:      strings.TrimSpace(a.Source),
		PublishedAt: strings.TrimSpace(a.PublishedAt),
		ImageURL:    strings.TrimSpace(a.ImageURL),
		SourceType:  a.SourceType,
	}
}

// ValidateArticle checks the fields a slide cannot do without. PublishedAt is
// left to Merge, which fails the run on a missing or malformed value.
func (p *Parser) ValidateArticle(a models.Article) error {
	if a.Title == removedMarker {
		return errRemoved
	}
	if a.Title == "" {
		return fmt.Errorf("missing required field: title")
	}
	if a.URL == "" {
		return fmt.Errorf("missing required field: url")
	}
	return nil
}
