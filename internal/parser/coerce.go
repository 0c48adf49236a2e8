package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field coercion helpers. Nessus exports are irregular: attributes go
// missing, numbers arrive malformed, and text fields carry stray
// whitespace. Every helper absorbs those anomalies locally so a single
// bad field degrades that field only, never the whole parse.

// toInt parses a textual integer, returning def on absence or garbage.
func toInt(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return n
}

// toFloat parses a textual float. Absence and garbage yield nil, not zero:
// a missing CVSS score must stay distinguishable from a score of 0.0.
func toFloat(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &f
}

// cleanCVEs trims each CVE entry and drops empty ones, preserving order.
func cleanCVEs(values []string) []string {
	var cleaned []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		cleaned = append(cleaned, v)
	}
	return cleaned
}

// normalizeRiskFactor maps the scanner's free-text risk label to a
// presentable form: underscores become spaces and only the first letter
// stays capitalized, so "HIGH" becomes "High" and "data_loss" becomes
// "Data loss". An absent value reads as "None".
func normalizeRiskFactor(value string) string {
	v := strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if v == "" {
		return "None"
	}
	return capitalize(v)
}

// normalizeText trims a free-text field, mapping absence to "".
func normalizeText(value string) string {
	return strings.TrimSpace(value)
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
