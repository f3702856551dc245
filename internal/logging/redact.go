// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package logging

import (
	"net/url"
	"strings"
)

const redacted = "[REDACTED]"

// RedactURI hides the password in a connection string such as a MongoDB or Redis URI.
// Strings that do not parse as URLs are replaced entirely.
func RedactURI(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return redacted
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
		}
	}
	return u.String()
}

// SecretPresence reports whether a secret is configured without logging its value.
func SecretPresence(secret string) string {
	if strings.TrimSpace(secret) == "" {
		return "unset"
	}
	return "set"
}
