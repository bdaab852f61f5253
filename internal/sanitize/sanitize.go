package sanitize

import (
	"regexp"
	"strconv"
	"strings"

	"satshop-api/internal/apperr"
)

var (
	htmlTagPattern   = regexp.MustCompile(`<[^>]*>`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern     = regexp.MustCompile(`^[0-9 +()-]+$`)
	tokenPattern     = regexp.MustCompile(`^[A-Z0-9]{8}$`)
	nonNumericAmount = regexp.MustCompile(`[^0-9.,-]`)
)

// stripHTML removes anything that looks like a tag before validation
func stripHTML(input string) string {
	return htmlTagPattern.ReplaceAllString(input, "")
}

// Email normalizes an email address: strips HTML, trims, lowercases and
// requires a local@domain.tld shape. Idempotent on its own output.
func Email(input string) (string, error) {
	cleaned := strings.ToLower(strings.TrimSpace(stripHTML(input)))
	if !emailPattern.MatchString(cleaned) {
		return "", apperr.New(apperr.Validation, "invalid email address")
	}
	return cleaned, nil
}

// Phone strips HTML and accepts only digits, spaces, +, - and parentheses
func Phone(input string) (string, error) {
	cleaned := strings.TrimSpace(stripHTML(input))
	if cleaned == "" || !phonePattern.MatchString(cleaned) {
		return "", apperr.New(apperr.Validation, "invalid phone number")
	}
	return cleaned, nil
}

// OrderToken requires exactly 8 uppercase alphanumeric characters
func OrderToken(input string) (string, error) {
	cleaned := strings.TrimSpace(stripHTML(input))
	if !tokenPattern.MatchString(cleaned) {
		return "", apperr.New(apperr.Validation, "invalid order token")
	}
	return cleaned, nil
}

// Amount parses a display amount like "1800 DA" or "$12.50" into a
// non-negative float after stripping currency symbols
func Amount(input string) (float64, error) {
	cleaned := nonNumericAmount.ReplaceAllString(stripHTML(input), "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, apperr.New(apperr.Validation, "invalid amount")
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return 0, apperr.New(apperr.Validation, "invalid amount")
	}
	return value, nil
}

// MessageText strips the characters that could break downstream formatted
// messages (Telegram markup, header injection): < > ' " &
func MessageText(input string) string {
	replacer := strings.NewReplacer("<", "", ">", "", "'", "", `"`, "", "&", "")
	return strings.TrimSpace(replacer.Replace(input))
}
