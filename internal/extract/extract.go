package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/amishk599/coverletter/internal/model"
)

// Ensure ReadabilityExtractor implements model.ArticleExtractor.
var _ model.ArticleExtractor = (*ReadabilityExtractor)(nil)

// ReadabilityExtractor strips boilerplate from a page with go-readability.
type ReadabilityExtractor struct{}

// NewReadabilityExtractor creates a stateless extractor.
func NewReadabilityExtractor() *ReadabilityExtractor { return &ReadabilityExtractor{} }

// Extract returns the article title and its content HTML. pageURL resolves
// relative links. A page with no readable content is an *model.ExtractionError.
func (e *ReadabilityExtractor) Extract(html, pageURL string) (model.ArticleContent, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return model.ArticleContent{}, &model.ExtractionError{URL: pageURL, Err: fmt.Errorf("invalid URL")}
	}

	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return model.ArticleContent{}, &model.ExtractionError{URL: pageURL, Err: err}
	}

	content := strings.TrimSpace(article.Content)
	if content == "" || strings.TrimSpace(article.TextContent) == "" {
		return model.ArticleContent{}, &model.ExtractionError{URL: pageURL}
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = documentTitle(html)
	}

	return model.ArticleContent{
		URL:     pageURL,
		Title:   title,
		Content: content,
	}, nil
}

// documentTitle reads <title>, falling back to og:title.
func documentTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
}
