package deck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/technews/internal/models"
	"github.com/bilgisen/technews/internal/utils"
)

type stubContent struct {
	imageURL string
	quiz     []models.QuizItem
}

func (s stubContent) GenerateImage(ctx context.Context) string { return s.imageURL }
func (s stubContent) GenerateQuiz(n int) []models.QuizItem {
	if n > len(s.quiz) {
		n = len(s.quiz)
	}
	return s.quiz[:n]
}
func (s stubContent) Joke() string { return "What did the computer do at lunchtime? Had a byte!" }

// stubFetcher serves a tiny JPEG for every URL except those listed in fail,
// and bytes that are not an image for those listed in corrupt.
type stubFetcher struct {
	fail    map[string]bool
	corrupt map[string]bool
	calls   []string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if f.fail[url] {
		return nil, errors.New("host unreachable")
	}
	if f.corrupt[url] {
		return []byte("<html>captcha</html>"), nil
	}
	return NormalizeJPEG(testPNG())
}

func testPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		for y := 0; y < 6; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: 128, B: uint8(y * 40), A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func testQuiz() []models.QuizItem {
	return []models.QuizItem{
		{Question: "Which company created ChatGPT?", Options: []string{"Google", "OpenAI", "Microsoft", "Meta"}, Correct: "OpenAI"},
		{Question: "What does AI stand for?", Options: []string{"Artificial Intelligence", "Automated Integration", "Advanced Interface", "Algorithmic Implementation"}, Correct: "Artificial Intelligence"},
		{Question: "What does CPU stand for?", Options: []string{"Central Processing Unit", "Computer Personal Unit", "Central Program Utility", "Computer Processing Unit"}, Correct: "Central Processing Unit"},
	}
}

func makeArticles(n int) []models.Article {
	out := make([]models.Article, n)
	for i := range out {
		out[i] = models.Article{
			Title:       fmt.Sprintf("Headline %d with “curly quotes” and a long tail that keeps going past the slide width", i),
			Description: "Short description.",
			URL:         fmt.Sprintf("https://news.example/%d", i),
			Source:      "Example Times",
			PublishedAt: "2024-05-01T10:00:00Z",
			ImageURL:    fmt.Sprintf("https://img.example/%d.jpg", i),
			SourceType:  models.SourceNews,
		}
	}
	return out
}

func TestPlanCapsArticleSlides(t *testing.T) {
	plan := Plan(makeArticles(20))

	assert.Equal(t, MaxArticleSlides, Count(plan, SlideArticle))
	assert.Equal(t, QuizSlides, Count(plan, SlideQuiz))
	assert.Equal(t, SlideTitle, plan[0].Kind)
	assert.Equal(t, SlideOutline, plan[1].Kind)
	assert.Equal(t, SlideImage, plan[2].Kind)
	assert.Equal(t, SlideQuiz, plan[3].Kind)
	assert.Equal(t, SlideArticle, plan[5].Kind)
	assert.Equal(t, SlideJoke, plan[len(plan)-1].Kind)
	assert.Equal(t, "https://news.example/0", plan[5].Article.URL)
}

func TestPlanFewArticles(t *testing.T) {
	plan := Plan(makeArticles(3))
	assert.Equal(t, 3, Count(plan, SlideArticle))
	assert.Len(t, plan, 3+QuizSlides+3+1)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "tech_news_20240501.pdf", FileName(time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)))
}

func TestBuildRendersOneArticleSlidePerArticleUpToCap(t *testing.T) {
	fetcher := &stubFetcher{}
	r := NewRenderer(stubContent{imageURL: "https://gen.example/ai.png", quiz: testQuiz()}, fetcher, t.TempDir())

	doc, err := r.build(context.Background(), makeArticles(20))
	require.NoError(t, err)

	assert.Equal(t, 15, countKinds(doc.kinds, SlideArticle))
	assert.Equal(t, 2, countKinds(doc.kinds, SlideQuiz))
	assert.Equal(t, 1+1+1+2+15+1, doc.pageCount())
	assert.Len(t, fetcher.calls, 1+15, "one generated image plus one per article slide")
	assert.Equal(t, 15, countKinds(doc.placed, SlideArticle))
	assert.Equal(t, 1, countKinds(doc.placed, SlideImage))
}

func TestBuildFallsBackToTextLayout(t *testing.T) {
	articles := makeArticles(3)
	articles[1].ImageURL = ""

	fetcher := &stubFetcher{fail: map[string]bool{
		articles[0].ImageURL:         true,
		PlaceholderImageURL:          true,
		"https://gen.example/ai.png": true,
	}}
	r := NewRenderer(stubContent{imageURL: "https://gen.example/ai.png", quiz: testQuiz()}, fetcher, t.TempDir())

	doc, err := r.build(context.Background(), articles)
	require.NoError(t, err)
	assert.Equal(t, 3, countKinds(doc.kinds, SlideArticle))
	assert.Contains(t, fetcher.calls, PlaceholderImageURL, "articles without an image use the placeholder")

	assert.Equal(t, 1, countKinds(doc.placed, SlideArticle), "only the third article keeps the image layout")
	assert.Zero(t, countKinds(doc.placed, SlideImage), "generated image failed, descriptive text instead")
}

func TestBuildFallsBackWhenImageCannotBeEmbedded(t *testing.T) {
	articles := makeArticles(2)

	fetcher := &stubFetcher{corrupt: map[string]bool{
		articles[0].ImageURL:         true,
		"https://gen.example/ai.png": true,
	}}
	r := NewRenderer(stubContent{imageURL: "https://gen.example/ai.png", quiz: testQuiz()}, fetcher, t.TempDir())

	doc, err := r.build(context.Background(), articles)
	require.NoError(t, err, "a bad image must not abort the deck")
	assert.Equal(t, 2, countKinds(doc.kinds, SlideArticle))
	assert.Equal(t, 1, countKinds(doc.placed, SlideArticle))
	assert.Zero(t, countKinds(doc.placed, SlideImage))

	var buf bytes.Buffer
	require.NoError(t, doc.pdf.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestBuildWithoutGeneratedImageOrQuiz(t *testing.T) {
	fetcher := &stubFetcher{}
	r := NewRenderer(stubContent{quiz: testQuiz()[:1]}, fetcher, t.TempDir())

	doc, err := r.build(context.Background(), makeArticles(1))
	require.NoError(t, err)
	assert.Equal(t, 1, countKinds(doc.kinds, SlideQuiz), "only as many quiz slides as items")
	assert.Equal(t, 1, countKinds(doc.kinds, SlideImage))
	assert.Len(t, fetcher.calls, 1)
}

func TestRenderWritesDatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := NewRenderer(stubContent{quiz: testQuiz()}, &stubFetcher{}, dir)
	r.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }

	path, err := r.Render(context.Background(), makeArticles(2))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tech_news_20240501.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	again, err := r.Render(context.Background(), makeArticles(1))
	require.NoError(t, err)
	assert.Equal(t, path, again, "same-day runs overwrite")
}

func TestRenderHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRenderer(stubContent{quiz: testQuiz()}, &stubFetcher{}, t.TempDir())
	_, err := r.Render(ctx, makeArticles(2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeJPEG(t *testing.T) {
	out, err := NormalizeJPEG(testPNG())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte{0xFF, 0xD8}), "JPEG SOI marker")

	_, err = NormalizeJPEG([]byte("<html>not an image</html>"))
	assert.Error(t, err)
}

func TestHTTPImageFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(testPNG())
		case "/html":
			_, _ = w.Write([]byte("<html></html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewHTTPImageFetcher(utils.NewHTTPClient(2*time.Second, 0))

	data, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xFF, 0xD8}))

	_, err = f.Fetch(context.Background(), srv.URL+"/html")
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestBuildEmbedsUnicodeFont(t *testing.T) {
	articles := makeArticles(1)
	articles[0].Title = "Новый процессор и «ελληνικά» γράμματα"
	articles[0].Source = "Habr"

	r := NewRenderer(stubContent{quiz: testQuiz()}, &stubFetcher{}, t.TempDir())
	doc, err := r.build(context.Background(), articles)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.pdf.Output(&buf))
	out := buf.String()
	assert.Contains(t, out, "/FontFile2", "TrueType font program is embedded")
	assert.Contains(t, out, "/Encoding /Identity-H", "text is written as Unicode glyph IDs")
}
