package ingestion

import (
	"strings"
	"unicode"
)

// RejectReason names why a candidate was turned away. Diagnostics only, not
// control flow.
type RejectReason string

const (
	ReasonNonLatinTitle     RejectReason = "non_latin_title"
	ReasonNoParentPlatforms RejectReason = "no_parent_platforms"
	ReasonNoImage           RejectReason = "no_image"
	ReasonPlatformExcluded  RejectReason = "platform_excluded"
)

// consolePlatforms is the allow-list of console family slugs. A candidate
// whose platforms all fall outside this set is desktop/browser-only and is
// not ingested.
var consolePlatforms = map[string]struct{}{
	"playstation":     {},
	"xbox":            {},
	"nintendo":        {},
	"sega":            {},
	"commodore-amiga": {},
	"atari":           {},
	"3do":             {},
	"neo-geo":         {},
}

// PlatformRef is a fine-grained platform descriptor on a candidate record.
type PlatformRef struct {
	RawgID int64  `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
}

// Candidate is an externally sourced catalog record before any write.
type Candidate struct {
	Title             string        `json:"title"`
	ImageURL          *string       `json:"imageUrl"`
	ParentPlatforms   []string      `json:"parentPlatforms"`
	PlatformsDetailed []PlatformRef `json:"platformsDetailed"`
}

// Detail is the optional richer payload fetched per candidate.
type Detail struct {
	DescriptionRaw string              `json:"description_raw"`
	Tags           []map[string]string `json:"tags"`
}

// Decision is the gate's verdict. Reason is set only when Allowed is false.
type Decision struct {
	Allowed bool         `json:"allowed"`
	Reason  RejectReason `json:"reason,omitempty"`
}

// ShouldIngest decides whether a candidate may enter the catalog. It cannot
// fail; it only classifies. Checks run in a fixed order and the first failing
// check names the reason.
func ShouldIngest(c Candidate, detail *Detail) Decision {
	if isMostlyNonLatin(c.Title) {
		return Decision{Reason: ReasonNonLatinTitle}
	}

	if len(c.ParentPlatforms) == 0 && len(c.PlatformsDetailed) == 0 {
		return Decision{Reason: ReasonNoParentPlatforms}
	}

	// Card UI depends on an image.
	if c.ImageURL == nil || *c.ImageURL == "" {
		return Decision{Reason: ReasonNoImage}
	}

	if !hasConsolePlatform(c) {
		return Decision{Reason: ReasonPlatformExcluded}
	}

	return Decision{Allowed: true}
}

// commonPunct covers the punctuation that shows up in ordinary Latin titles.
const commonPunct = `:'".-–—!?,()`

func isExotic(r rune) bool {
	if unicode.Is(unicode.Latin, r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		return false
	}
	return !strings.ContainsRune(commonPunct, r)
}

// isMostlyNonLatin reports whether exotic characters exceed 60% of the title.
func isMostlyNonLatin(title string) bool {
	if title == "" {
		return false
	}
	total, exotic := 0, 0
	for _, r := range title {
		total++
		if isExotic(r) {
			exotic++
		}
	}
	return float64(exotic)/float64(total) > 0.6
}

func hasConsolePlatform(c Candidate) bool {
	for _, slug := range c.ParentPlatforms {
		if _, ok := consolePlatforms[strings.ToLower(slug)]; ok {
			return true
		}
	}
	for _, p := range c.PlatformsDetailed {
		if _, ok := consolePlatforms[strings.ToLower(p.Slug)]; ok {
			return true
		}
	}
	return false
}
