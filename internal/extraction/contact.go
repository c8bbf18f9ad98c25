package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/types"
)

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	linkedinRe = regexp.MustCompile(`(?i)(?:linkedin\.com/in/|linkedin:\s*)([a-zA-Z0-9\-_]+)`)
	urlRe      = regexp.MustCompile(`(?i)https?://[^\s,;]+|www\.[^\s,;]+`)
	locationRe = regexp.MustCompile(`(?im)^\s*(?:location|address|based in)\s*:\s*(.+)$`)
)

// extractContact pulls contact details out of the full text. Contact
// info often sits in the header rather than under a "Contact" heading,
// so the whole document is scanned, preferring the contact section body
// when one was located.
func extractContact(fullText string, contactBody string) types.ContactInfo {
	scan := fullText
	if contactBody != "" {
		scan = contactBody + "\n" + fullText
	}

	info := types.ContactInfo{}

	if m := emailRe.FindString(scan); m != "" {
		info.Email = m
	}
	if m := linkedinRe.FindStringSubmatch(scan); m != nil {
		info.LinkedIn = m[1]
	}
	if m := locationRe.FindStringSubmatch(scan); m != nil {
		info.Location = strings.TrimSpace(m[1])
	}

	// Phone: loose international format, but avoid matching year ranges
	// like "2018 - 2022" by requiring at least 9 digits.
	for _, candidate := range phoneRe.FindAllString(scan, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 9 {
			info.Phone = strings.TrimSpace(candidate)
			break
		}
	}

	// Website: first generic URL that is not a LinkedIn link.
	for _, candidate := range urlRe.FindAllString(scan, -1) {
		if strings.Contains(strings.ToLower(candidate), "linkedin.com") {
			continue
		}
		info.Website = strings.TrimRight(candidate, ".,)")
		break
	}

	return info
}

var (
	// nameRe matches a capitalized multi-word token sequence, e.g. "Jane Q. Doe".
	nameRe = regexp.MustCompile(`(?m)^[ \t]*([A-Z][a-zA-Z'\-]+(?:\s+(?:[A-Z]\.?\s+)?[A-Z][a-zA-Z'\-]+)+)[ \t]*$`)

	// fallbackName is used when no candidate sequence is found anywhere.
	fallbackName = "Unknown Candidate"
)

// extractName looks for a capitalized multi-word sequence at the start
// of the document, then anywhere in the text, then gives up with a
// literal placeholder.
func extractName(text string) string {
	lines := nonEmptyLines(text)
	limit := min(len(lines), 3)
	for i := 0; i < limit; i++ {
		if m := nameRe.FindStringSubmatch(lines[i]); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	if m := nameRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	return fallbackName
}
