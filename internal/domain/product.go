package domain

import (
	"sort"
	"strconv"
	"strings"
)

// ProductRecord is the normalized shape every provider result is
// mapped into before aggregation. Records are built fresh per query
// and live only as long as the result cache entry.
type ProductRecord struct {
	Title            string   `json:"title"`
	Link             string   `json:"link"`
	Image            string   `json:"image"`
	Price            string   `json:"price"`
	Rating           string   `json:"rating"`
	Source           string   `json:"source,omitempty"`
	Snippet          string   `json:"snippet,omitempty"`
	IsOrganicResult  bool     `json:"isOrganicResult,omitempty"`
	Position         int      `json:"position,omitempty"`
	DisplayedLink    string   `json:"displayedLink,omitempty"`
	Favicon          string   `json:"favicon,omitempty"`
	Thumbnail        string   `json:"thumbnail,omitempty"`
	HighlightedWords []string `json:"highlightedWords,omitempty"`
}

// priceSentinels are provider strings that mean "no usable price".
var priceSentinels = map[string]bool{
	"":                    true,
	"N/A":                 true,
	"Price N/A":           true,
	"Not available":       true,
	"Price not available": true,
}

// HasRealPrice reports whether a price string carries a usable value,
// i.e. it is non-empty and not one of the known "unknown" sentinels.
func HasRealPrice(price string) bool {
	return !priceSentinels[strings.TrimSpace(price)]
}

// PriceValue extracts a comparable numeric value from a price string
// by keeping digits only. Strings with no digits compare as 0.
func PriceValue(price string) int {
	var b strings.Builder
	for _, r := range price {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// SplitResults partitions records into the deals/info bucket (organic
// results plus anything without a firm price) and the priced bucket.
// Both buckets preserve the input order. This is the single
// classification predicate shared by the aggregation pipeline and the
// HTTP layer.
func SplitResults(records []ProductRecord) (dealsOrInfo, priced []ProductRecord) {
	for _, r := range records {
		if r.IsOrganicResult || !HasRealPrice(r.Price) {
			dealsOrInfo = append(dealsOrInfo, r)
		} else {
			priced = append(priced, r)
		}
	}
	return dealsOrInfo, priced
}

// SortByPriceDesc orders records by descending numeric price. The
// sort is stable so equal-priced records keep arrival order.
func SortByPriceDesc(records []ProductRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return PriceValue(records[i].Price) > PriceValue(records[j].Price)
	})
}
