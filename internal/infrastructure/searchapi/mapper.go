package searchapi

import (
	"strconv"
	"strings"

	"github.com/bilmo/backend/internal/domain"
)

// placeholderImage is served when a result carries no image at all.
const placeholderImage = "https://via.placeholder.com/200"

// MapOrganicResults normalizes the organic branch into product
// records: each destination link appears at most once, the list is
// capped at max entries, and price/rating fall back to rich-snippet
// extensions when the top-level fields are absent.
func MapOrganicResults(results []organicResult, max int) []domain.ProductRecord {
	records := make([]domain.ProductRecord, 0, len(results))
	seen := make(map[string]bool, len(results))

	for _, r := range results {
		if seen[r.Link] {
			continue
		}
		seen[r.Link] = true

		records = append(records, domain.ProductRecord{
			Title:            r.Title,
			Link:             r.Link,
			Image:            pickImage(r),
			Price:            extractPrice(r),
			Rating:           extractRating(r),
			Source:           r.Source,
			Snippet:          r.Snippet,
			IsOrganicResult:  true,
			Position:         r.Position,
			DisplayedLink:    r.DisplayedLink,
			Favicon:          r.Favicon,
			Thumbnail:        r.Thumbnail,
			HighlightedWords: r.HighlightedWords,
		})

		if max > 0 && len(records) >= max {
			break
		}
	}

	return records
}

// extractPrice prefers the top-level price, then scans rich-snippet
// extensions (top before bottom) for a currency-bearing entry.
func extractPrice(r organicResult) string {
	if r.Price != "" {
		return r.Price
	}

	if r.RichSnippet != nil {
		if p := findCurrencyExtension(r.RichSnippet.Top); p != "" {
			return p
		}
		if p := findCurrencyExtension(r.RichSnippet.Bottom); p != "" {
			return p
		}
	}

	return "Price N/A"
}

func findCurrencyExtension(ext *snippetExtension) string {
	if ext == nil {
		return ""
	}
	for _, e := range ext.Extensions {
		if strings.Contains(e, "₹") || strings.Contains(e, "$") {
			return e
		}
	}
	return ""
}

// extractRating prefers the top-level rating, then the detected
// extensions block.
func extractRating(r organicResult) string {
	if r.Rating != "" {
		return r.Rating
	}
	if r.DetectedExtensions != nil && r.DetectedExtensions.Rating > 0 {
		return strconv.FormatFloat(r.DetectedExtensions.Rating, 'f', -1, 64)
	}
	return "N/A"
}

func pickImage(r organicResult) string {
	if r.Thumbnail != "" {
		return r.Thumbnail
	}
	if r.Image != "" {
		return r.Image
	}
	return placeholderImage
}
