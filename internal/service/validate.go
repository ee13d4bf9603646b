package service

import "regexp"

// MaxTargetLength is the longest target accepted, in bytes. Longer URLs are
// legal but many CDNs refuse them.
const MaxTargetLength = 3072

var protocolPattern = regexp.MustCompile(`(?i)^https?://`)

// Validate checks a target URL before any allocation work is done.
func Validate(target string) error {
	if target == "" {
		return ErrEmptyTarget
	}

	if len(target) > MaxTargetLength {
		return ErrTargetTooLong
	}

	if !protocolPattern.MatchString(target) {
		return ErrBadProtocol
	}

	return nil
}
