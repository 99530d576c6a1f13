package sitedex

import (
	"net/url"
	"regexp"
	"strings"
)

// Category classifies a page by its role on the site.
type Category string

// Page categories.
const (
	CategoryContent      Category = "content"      // articles, products, media
	CategoryHub          Category = "hub"          // home pages, archives, listings
	CategoryRecruitment  Category = "recruitment"  // careers, jobs, culture
	CategoryInteractable Category = "interactable" // forms, tools, checkout
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryContent, CategoryHub, CategoryRecruitment, CategoryInteractable:
		return true
	}
	return false
}

// categoryPatterns maps each category to URL path patterns that signal it.
var categoryPatterns = map[Category][]*regexp.Regexp{
	CategoryContent: compilePatterns(
		`/blog/`, `/article/`, `/post/`, `/news/`, `/video/`, `/podcast/`,
		`/case-study/`, `/product/`, `/service/`, `/solution/`, `/about/`,
		`/guide/`, `/tutorial/`, `/resources/`, `/insight/`,
	),
	CategoryHub: compilePatterns(
		`^/$`, `/home`, `/index`, `/archive`, `/category/`, `/tag/`,
		`/sitemap`, `/directory`, `/search`, `/landing`,
	),
	CategoryRecruitment: compilePatterns(
		`/career`, `/job`, `/position`, `/vacancy`, `/apply`, `/hiring`,
		`/recruit`, `/culture`, `/benefits`,
	),
	CategoryInteractable: compilePatterns(
		`/contact`, `/support`, `/faq`, `/checkout`, `/cart`, `/signup`,
		`/register`, `/login`, `/calculator`, `/form`, `/demo`, `/subscribe`,
	),
}

// categoryKeywords maps each category to text keywords that reinforce it.
var categoryKeywords = map[Category][]string{
	CategoryContent:      {"blog", "article", "case study", "product", "tutorial", "guide"},
	CategoryHub:          {"browse", "all posts", "archive", "categories"},
	CategoryRecruitment:  {"career", "join our team", "open positions", "we're hiring", "benefits"},
	CategoryInteractable: {"contact us", "sign up", "get a quote", "book a demo", "subscribe"},
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

// Categorize classifies a page from its URL path and text content.
// URL pattern hits weigh double keyword hits. Returns an empty category
// with zero confidence when nothing matches.
func Categorize(rawURL, text string) (Category, float64) {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
		if path == "" {
			path = "/"
		}
	}
	path = strings.ToLower(path)
	lower := strings.ToLower(text)

	var best Category
	bestScore := 0
	totalScore := 0

	for cat, patterns := range categoryPatterns {
		score := 0
		for _, re := range patterns {
			if re.MatchString(path) {
				score += 2
			}
		}
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		totalScore += score
		if score > bestScore || (score == bestScore && score > 0 && cat < best) {
			best = cat
			bestScore = score
		}
	}

	if bestScore == 0 {
		return "", 0
	}
	return best, float64(bestScore) / float64(totalScore)
}
