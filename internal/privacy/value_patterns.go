package privacy

import (
	"regexp"
	"strings"
)

// ValuePatternResult is the verdict from checking a single cell's raw text
// against the ordered value-pattern recognisers.
type ValuePatternResult struct {
	IsPHI       bool
	Pattern     string
	Description string
}

func safeValuePatternResult() ValuePatternResult { return ValuePatternResult{} }

func phiValuePatternResult(pattern, description string) ValuePatternResult {
	return ValuePatternResult{IsPHI: true, Pattern: pattern, Description: description}
}

var (
	emailPattern         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usPhonePattern       = regexp.MustCompile(`^\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}$`)
	usZipPattern         = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	canadaPostalPattern  = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z]\s?\d[A-Za-z]\d$`)
	ssnPattern           = regexp.MustCompile(`^\d{3}-?\d{2}-?\d{4}$`)
	longIDPattern        = regexp.MustCompile(`^[A-Za-z0-9]{10,}$`)
	urlPattern           = regexp.MustCompile(`^https?://\S+$`)
	ipv4Pattern          = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
	ipv6Pattern          = regexp.MustCompile(`^([0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}$|^([0-9a-fA-F]{1,4}:){1,7}:$|^::[0-9a-fA-F]{1,4}(:[0-9a-fA-F]{1,4}){0,6}$`)
	macAddressPattern    = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}$`)
)

// CheckValuePattern checks trimmed against the ordered PHI recognisers:
// email, phone, SSN, ZIP, Canadian postal code, long mixed-alphanumeric ID,
// URL, IPv4, IPv6, MAC address, then person name.
func CheckValuePattern(value string) ValuePatternResult {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return safeValuePatternResult()
	}

	switch {
	case emailPattern.MatchString(trimmed):
		return phiValuePatternResult("email", "Value appears to be an email address")
	case usPhonePattern.MatchString(trimmed):
		return phiValuePatternResult("phone", "Value appears to be a phone number")
	case ssnPattern.MatchString(trimmed):
		return phiValuePatternResult("ssn", "Value appears to be a Social Security Number")
	case usZipPattern.MatchString(trimmed):
		return phiValuePatternResult("zip", "Value appears to be a US ZIP code")
	case canadaPostalPattern.MatchString(trimmed):
		return phiValuePatternResult("postal", "Value appears to be a Canadian postal code")
	case isSuspiciousLongID(trimmed):
		return phiValuePatternResult("long_id", "Value appears to be a long alphanumeric identifier")
	case urlPattern.MatchString(trimmed):
		return phiValuePatternResult("url", "Value appears to be a URL")
	case ipv4Pattern.MatchString(trimmed):
		return phiValuePatternResult("ipv4", "Value appears to be an IPv4 address")
	case ipv6Pattern.MatchString(trimmed):
		return phiValuePatternResult("ipv6", "Value appears to be an IPv6 address")
	case macAddressPattern.MatchString(trimmed):
		return phiValuePatternResult("mac_address", "Value appears to be a MAC address")
	case isLikelyName(trimmed):
		return phiValuePatternResult("name", "Value appears to be a person's name")
	default:
		return safeValuePatternResult()
	}
}

// isSuspiciousLongID reports a 10+ character alphanumeric token that mixes
// letters and digits -- all-letters or all-digits tokens of the same length
// are far more likely to be legitimate codes or sequence numbers.
func isSuspiciousLongID(value string) bool {
	if !longIDPattern.MatchString(value) {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
