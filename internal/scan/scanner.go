package scan

import (
	"math"
	"regexp"
	"strings"
)

// Kind distinguishes what a pattern match means for risk scoring.
type Kind string

const (
	KindPII        Kind = "pii"
	KindCredential Kind = "credential"
)

// Pattern defines a named regex for detecting sensitive content.
type Pattern struct {
	Name  string
	Kind  Kind
	Regex *regexp.Regexp
}

// DefaultPatterns returns the built-in detection patterns.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Name: "email_address", Kind: KindPII, Regex: regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)},
		{Name: "phone_number", Kind: KindPII, Regex: regexp.MustCompile(`\+[0-9][0-9()\-\s]{7,}[0-9]`)},
		{Name: "us_ssn", Kind: KindPII, Regex: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
		{Name: "iban", Kind: KindPII, Regex: regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`)},
		{Name: "aws_access_key", Kind: KindCredential, Regex: regexp.MustCompile(`(?i)AKIA[0-9A-Z]{16}`)},
		{Name: "github_token", Kind: KindCredential, Regex: regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,255}`)},
		{Name: "generic_api_key", Kind: KindCredential, Regex: regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|api_secret)['":\s]*[=:]\s*['"]?([A-Za-z0-9\-_]{20,60})['"]?`)},
		{Name: "generic_secret", Kind: KindCredential, Regex: regexp.MustCompile(`(?i)(?:secret|password|passwd|pwd|token|auth_token|access_token|bearer)['":\s]*[=:]\s*['"]?([A-Za-z0-9\-_!@#$%^&*]{8,100})['"]?`)},
		{Name: "private_key", Kind: KindCredential, Regex: regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`)},
		{Name: "slack_token", Kind: KindCredential, Regex: regexp.MustCompile(`xox[baprs]-[0-9]{10,13}-[0-9]{10,13}[a-zA-Z0-9-]*`)},
		{Name: "stripe_key", Kind: KindCredential, Regex: regexp.MustCompile(`(?:sk|pk)_(?:live|test)_[A-Za-z0-9]{20,100}`)},
		{Name: "jwt_token", Kind: KindCredential, Regex: regexp.MustCompile(`eyJ[A-Za-z0-9-_]+\.eyJ[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+`)},
	}
}

// Scanner inspects action payload values for PII and credentials using
// regex patterns and entropy analysis. The result feeds risk attributes;
// the scanner itself never blocks anything.
type Scanner struct {
	patterns         []Pattern
	entropyThreshold float64
	minTokenLength   int
}

// Option configures the Scanner.
type Option func(*Scanner)

// WithPatterns sets custom patterns (replaces defaults).
func WithPatterns(patterns []Pattern) Option {
	return func(s *Scanner) {
		s.patterns = patterns
	}
}

// WithEntropyThreshold sets the Shannon entropy threshold for high-entropy
// token detection. Default is 4.5 (a random 32-char hex string has ~4.0).
func WithEntropyThreshold(threshold float64) Option {
	return func(s *Scanner) {
		s.entropyThreshold = threshold
	}
}

// NewScanner creates a scanner with the default patterns.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		patterns:         DefaultPatterns(),
		entropyThreshold: 4.5,
		minTokenLength:   20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result summarizes what was found in a payload.
type Result struct {
	PII         bool
	Credentials bool
	Matched     []string
}

// Scan inspects each value and reports whether any look like PII or
// credentials.
func (s *Scanner) Scan(values ...string) Result {
	var res Result
	for _, v := range values {
		for _, p := range s.patterns {
			if !p.Regex.MatchString(v) {
				continue
			}
			switch p.Kind {
			case KindPII:
				res.PII = true
			case KindCredential:
				res.Credentials = true
			}
			res.Matched = append(res.Matched, p.Name)
		}
		if tok, found := s.findHighEntropyToken(v); found {
			res.Credentials = true
			res.Matched = append(res.Matched, "high_entropy:"+truncate(tok, 8))
		}
	}
	return res
}

// findHighEntropyToken splits a value into whitespace-separated tokens and
// checks each for high entropy.
func (s *Scanner) findHighEntropyToken(text string) (string, bool) {
	for _, token := range strings.Fields(text) {
		if len(token) >= s.minTokenLength && shannonEntropy(token) >= s.entropyThreshold {
			return token, true
		}
	}
	return "", false
}

// shannonEntropy calculates Shannon entropy of a string in bits per character.
func shannonEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}

	freq := make(map[rune]float64)
	for _, c := range s {
		freq[c]++
	}

	length := float64(len([]rune(s)))
	entropy := 0.0
	for _, count := range freq {
		p := count / length
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
