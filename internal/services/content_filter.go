package services

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
)

const (
	ReasonInappropriate = "inappropriate_language"
	ReasonURL           = "url_not_allowed"
	ReasonContactInfo   = "contact_info_not_allowed"
	ReasonSpam          = "spam_detected"
	ReasonCaps          = "excessive_caps"
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

var reasonMessages = map[string]string{
	ReasonInappropriate: "The review contains inappropriate language.",
	ReasonURL:           "Links are not allowed in reviews.",
	ReasonContactInfo:   "Contact information is not allowed in reviews.",
	ReasonSpam:          "The review appears to be spam.",
	ReasonCaps:          "Please avoid excessive capital letters.",
}

// ContentFilter flags review text that should get a moderator's attention.
// It is immutable after construction and safe for concurrent use.
type ContentFilter struct {
	banned *regexp.Regexp
	url    *regexp.Regexp
	email  *regexp.Regexp
	phone  *regexp.Regexp
	caps   *regexp.Regexp
}

func NewContentFilter() *ContentFilter {
	quoted := make([]string, len(BannedWords))
	for i, w := range BannedWords {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return &ContentFilter{
		banned: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
		url:    regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`),
		email:  regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`),
		phone:  regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`),
		caps:   regexp.MustCompile(`\b[A-Z]{5,}\b`),
	}
}

// Check returns the first reason text fails the filter, or "" if it passes.
func (f *ContentFilter) Check(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	switch {
	case f.banned.MatchString(text):
		return ReasonInappropriate
	case f.url.MatchString(text):
		return ReasonURL
	case f.email.MatchString(text), f.phone.MatchString(text):
		return ReasonContactInfo
	case hasRepeatedRun(text, 4):
		return ReasonSpam
	case len(f.caps.FindAllString(text, -1)) > 2:
		return ReasonCaps
	}
	return ""
}

// Review checks every free-text field of r.
func (f *ContentFilter) Review(r *models.Review) string {
	for _, text := range []string{r.Title, r.Content, r.Pros, r.Cons} {
		if reason := f.Check(text); reason != "" {
			return reason
		}
	}
	return ""
}

// Message returns a user-facing explanation for a filter reason.
func Message(reason string) string {
	if msg, ok := reasonMessages[reason]; ok {
		return msg
	}
	return "The review does not meet our content guidelines."
}

// hasRepeatedRun reports whether text repeats one letter or one of !?. at
// least n times in a row, ignoring case.
func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range strings.ToLower(text) {
		if !unicode.IsLetter(r) && r != '!' && r != '?' && r != '.' {
			prev, run = 0, 0
			continue
		}
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= n {
			return true
		}
	}
	return false
}
