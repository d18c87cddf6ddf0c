package audit

import (
	"strings"

	"github.com/mssola/useragent"
)

// DeviceSummary condenses a User-Agent header into "browser version / os".
// Bots are reported as "bot: <name>". An empty header yields "".
func DeviceSummary(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	ua := useragent.New(header)
	browser, version := ua.Browser()
	if ua.Bot() {
		return "bot: " + browser
	}

	var b strings.Builder
	b.WriteString(browser)
	if version != "" {
		b.WriteString(" " + version)
	}
	if os := ua.OS(); os != "" {
		b.WriteString(" / " + os)
	}
	if ua.Mobile() {
		b.WriteString(" (mobile)")
	}
	return b.String()
}
