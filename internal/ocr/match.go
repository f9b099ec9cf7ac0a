package ocr

import (
	"strings"
)

// Vendor match type constants
const (
	MatchExact   = "exact"
	MatchFuzzy   = "fuzzy"
	MatchPartial = "partial"
	MatchNone    = "no_match"
)

// DefaultMatchThreshold is the minimum similarity score (0-100) for a
// vendor-name match to be accepted.
const DefaultMatchThreshold = 80

var vendorKeywords = []string{"VENDOR", "SUPPLIER", "FROM", "TO", "COMPANY", "STORE", "SHOP"}

// VendorMatch is the best known-vendor candidate found in OCR text
type VendorMatch struct {
	Name  string
	Score int
	Type  string
}

// MatchVendor scans OCR text for a name from the known-vendor list. It tries
// lines flagged by vendor keywords first, then the document header, scoring
// candidates exact > fuzzy > partial. Returns MatchNone below the threshold.
func MatchVendor(text string, vendorNames []string, threshold int) VendorMatch {
	if text == "" || len(vendorNames) == 0 {
		return VendorMatch{Type: MatchNone}
	}

	candidates := candidateLines(text)
	if len(candidates) == 0 {
		return VendorMatch{Type: MatchNone}
	}

	best := VendorMatch{Type: MatchNone}
	for _, candidate := range candidates {
		for _, name := range vendorNames {
			if strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(name)) {
				return VendorMatch{Name: name, Score: 100, Type: MatchExact}
			}
			if score := tokenSimilarity(candidate, name); score > best.Score {
				best = VendorMatch{Name: name, Score: score, Type: MatchFuzzy}
			}
		}
	}

	if best.Score >= threshold {
		return best
	}

	// Substring containment as a last resort
	for _, candidate := range candidates {
		lc := strings.ToLower(candidate)
		for _, name := range vendorNames {
			ln := strings.ToLower(name)
			if strings.Contains(lc, ln) || strings.Contains(ln, lc) {
				return VendorMatch{Name: name, Score: threshold, Type: MatchPartial}
			}
		}
	}

	best.Name = ""
	best.Type = MatchNone
	return best
}

// candidateLines collects text fragments likely to hold a vendor name:
// anything after a vendor keyword, plus the first few header lines.
func candidateLines(text string) []string {
	var candidates []string
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || len(trimmed) > 100 {
			continue
		}
		upper := strings.ToUpper(trimmed)
		for _, keyword := range vendorKeywords {
			if idx := strings.Index(upper, keyword); idx >= 0 {
				after := strings.Trim(trimmed[idx+len(keyword):], " :\t")
				if len(after) > 2 {
					candidates = append(candidates, after)
				}
			}
		}
		if len(trimmed) > 2 && hasLetter(trimmed) {
			candidates = append(candidates, trimmed)
		}
	}

	if len(candidates) == 0 {
		for i, line := range lines {
			if i >= 5 {
				break
			}
			trimmed := strings.TrimSpace(line)
			if len(trimmed) > 2 && len(trimmed) < 100 && hasLetter(trimmed) {
				candidates = append(candidates, trimmed)
			}
		}
	}

	return candidates
}

// tokenSimilarity scores two names 0-100 by word overlap, tolerant of word
// order and partial tokens.
func tokenSimilarity(a, b string) int {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	if len(wordsA) > len(wordsB) {
		wordsA, wordsB = wordsB, wordsA
	}

	matched := 0
	for _, wa := range wordsA {
		for _, wb := range wordsB {
			if wa == wb || strings.Contains(wb, wa) || strings.Contains(wa, wb) {
				matched++
				break
			}
		}
	}

	return matched * 100 / len(wordsA)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
