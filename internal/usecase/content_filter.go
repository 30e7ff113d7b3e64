package usecase

import "strings"

// platform limits for responsive search ads
const (
	maxHeadlineLen    = 30
	minHeadlineLen    = 5
	maxHeadlines      = 8
	maxDescriptionLen = 90
	minDescriptionLen = 20
	maxDescriptions   = 2
	maxKeywords       = 10
	minKeywords       = 5
)

// promotional terms the platform routinely disapproves
var forbiddenHeadlineTerms = []string{"best", "cheap", "free", "#1", "guaranteed"}

// FilterKeywords partitions candidates into kept and removed using
// bidirectional substring containment against the deny-list: a keyword is
// removed when it contains a denied term or a denied term contains it.
// Denied terms are family bans, not exact matches.
func FilterKeywords(keywords, banned []string) (filtered, removed []string) {
	bannedLower := make([]string, len(banned))
	for i, b := range banned {
		bannedLower[i] = strings.ToLower(b)
	}

	for _, kw := range keywords {
		kwLower := strings.ToLower(strings.TrimSpace(kw))
		isBanned := false
		for _, b := range bannedLower {
			if strings.Contains(kwLower, b) || strings.Contains(b, kwLower) {
				isBanned = true
				break
			}
		}
		if isBanned {
			removed = append(removed, kw)
		} else {
			filtered = append(filtered, kw)
		}
	}

	return filtered, removed
}

// IsDomainBanned reports whether the URL's domain matches the denied-domain
// list. The scheme and a leading "www." are stripped, the text up to the first
// path separator is the domain, and the same bidirectional substring test
// applies.
func IsDomainBanned(url string, bannedDomains []string) bool {
	clean := strings.ToLower(url)
	clean = strings.TrimPrefix(clean, "https://")
	clean = strings.TrimPrefix(clean, "http://")
	clean = strings.TrimPrefix(clean, "www.")
	domain, _, _ := strings.Cut(clean, "/")

	for _, bd := range bannedDomains {
		bdLower := strings.ToLower(bd)
		if strings.Contains(domain, bdLower) || strings.Contains(bdLower, domain) {
			return true
		}
	}
	return false
}

// truncateAtWord cuts s to at most limit runes, dropping a trailing partial
// word when a space exists inside the cut.
func truncateAtWord(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		return cut[:idx]
	}
	return cut
}

// ValidateHeadlines normalizes drafted headlines into platform-legal values:
// word-boundary truncation to 30 characters, case-insensitive dedupe, drop of
// too-short entries and forbidden promotional terms, cap at 8.
func ValidateHeadlines(headlines []string) []string {
	validated := make([]string, 0, maxHeadlines)
	seen := make(map[string]bool, len(headlines))

	for _, h := range headlines {
		h = truncateAtWord(strings.TrimSpace(h), maxHeadlineLen)
		hLower := strings.ToLower(h)
		if seen[hLower] {
			continue
		}
		seen[hLower] = true

		if containsAny(hLower, forbiddenHeadlineTerms) {
			continue
		}
		if len([]rune(h)) < minHeadlineLen {
			continue
		}
		validated = append(validated, h)
	}

	if len(validated) > maxHeadlines {
		validated = validated[:maxHeadlines]
	}
	return validated
}

// ValidateDescriptions normalizes drafted descriptions: word-boundary
// truncation to 90 characters, drop below 20, cap at 2.
func ValidateDescriptions(descriptions []string) []string {
	validated := make([]string, 0, maxDescriptions)

	for _, d := range descriptions {
		d = truncateAtWord(strings.TrimSpace(d), maxDescriptionLen)
		if len([]rune(d)) < minDescriptionLen {
			continue
		}
		validated = append(validated, d)
	}

	if len(validated) > maxDescriptions {
		validated = validated[:maxDescriptions]
	}
	return validated
}

// shortBusinessName fits a business name into a headline slot.
func shortBusinessName(name string) string {
	runes := []rune(name)
	if len(runes) > maxHeadlineLen {
		return string(runes[:27]) + "..."
	}
	return name
}

// BackfillKeywords extends a depleted keyword list with deterministic
// defaults, dedupes preserving order, and caps at 10.
func BackfillKeywords(keywords []string, businessName string) []string {
	if len(keywords) >= minKeywords {
		return keywords
	}

	defaults := []string{
		businessName + " membership",
		"fitness classes DC",
		"gym membership DC",
		"personal training near me",
		"workout classes DC",
	}

	seen := make(map[string]bool, maxKeywords)
	out := make([]string, 0, maxKeywords)
	for _, kw := range append(keywords, defaults...) {
		kwLower := strings.ToLower(kw)
		if seen[kwLower] {
			continue
		}
		seen[kwLower] = true
		out = append(out, kw)
	}

	if len(out) > maxKeywords {
		out = out[:maxKeywords]
	}
	return out
}

// BackfillHeadlines replaces a depleted headline list with defaults so the
// output file is always well-formed.
func BackfillHeadlines(headlines []string, businessName string) []string {
	if len(headlines) >= 3 {
		return headlines
	}
	return []string{
		"Join " + shortBusinessName(businessName) + " Today",
		"Start Your Fitness Journey",
		"Transform Your Body Now",
	}
}

// BackfillDescriptions replaces a depleted description list with defaults.
func BackfillDescriptions(descriptions []string, businessName string) []string {
	if len(descriptions) >= maxDescriptions {
		return descriptions
	}
	return []string{
		"Join " + businessName + ". Expert trainers & flexible memberships. Start today!",
		"Transform your fitness with our community. Personal & group training available.",
	}
}
