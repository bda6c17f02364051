package services

import "github.com/microcosm-cc/bluemonday"

// strictPolicy strips every tag; upstream labels are plain text and anything
// else in them is hostile
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeLabel cleans an upstream-sourced label before it is interpolated
// into an HTML fragment
func SanitizeLabel(s string) string {
	return strictPolicy.Sanitize(s)
}
