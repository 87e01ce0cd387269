// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"strings"
)

// Paths vulnerability scanners ask for. Entries ending in '/' match the whole
// subtree; the rest match exactly.
var probePaths = []string{
	"/.git/",
	"/.ssh/",
	"/.env",
	"/js/",
	"/chunks/",
	"/wp-admin/",
	"/wp-login.php",
	"/wp-includes/",
	"/wordpress/",
	"/backup.sql",
	"/config/",
	"/config.json",
	"/docker-compose.yml",
	"/etc/",
}

func isProbe(path string) bool {
	for _, p := range probePaths {
		if strings.HasSuffix(p, "/") {
			if path == strings.TrimSuffix(p, "/") || strings.HasPrefix(path, p) {
				return true
			}
		} else if path == p {
			return true
		}
	}
	return false
}

// BlockProbes answers scanner requests with 204 No Content before they reach
// the router or the request log.
func BlockProbes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isProbe(r.URL.Path) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
