// Package device derives a compact browser/OS summary from the User-Agent
// header. Override audit records capture the summary so a reviewer can see
// what kind of client requested a manual status change without storing the
// raw header.
package device

import (
	"fmt"
	"net/http"

	"github.com/mssola/useragent"

	"onboard/pkg/requestcontext"
)

// Summarize parses a raw User-Agent string into a short "Browser version on OS"
// summary. Bots are labelled as such; an empty header yields an empty summary.
func Summarize(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	if ua.Bot() {
		return fmt.Sprintf("bot (%s)", rawUA)
	}
	name, version := ua.Browser()
	if name == "" {
		return rawUA
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s %s on %s", name, version, os)
	}
	return fmt.Sprintf("%s %s", name, version)
}

// Middleware stores the parsed device summary in the request context.
// Must run after metadata.ClientMetadata, which captures the raw header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if rawUA := requestcontext.UserAgent(ctx); rawUA != "" {
			ctx = requestcontext.WithDeviceSummary(ctx, Summarize(rawUA))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
