// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SocialLinks maps a platform name to a handle or URL. The platform set is
// open: unknown platforms are kept as-is and rendered generically.
type SocialLinks map[string]string

// SocialLink is one resolved entry of a SocialLinks map.
type SocialLink struct {
	Platform string `json:"platform"`
	Label    string `json:"label"`
	Handle   string `json:"handle"`
	// URL is empty when an unknown platform carries a bare handle.
	URL   string `json:"url,omitempty"`
	Known bool   `json:"known"`
}

type platform struct {
	label   string
	profile func(handle string) string
}

// platforms lists the networks with a dedicated label and profile URL.
var platforms = map[string]platform{
	"twitter":   {"Twitter", prefixed("https://twitter.com/")},
	"x":         {"X", prefixed("https://x.com/")},
	"github":    {"GitHub", prefixed("https://github.com/")},
	"linkedin":  {"LinkedIn", prefixed("https://www.linkedin.com/in/")},
	"facebook":  {"Facebook", prefixed("https://www.facebook.com/")},
	"instagram": {"Instagram", prefixed("https://www.instagram.com/")},
	"youtube":   {"YouTube", prefixed("https://www.youtube.com/@")},
	"mastodon":  {"Mastodon", mastodonProfile},
	"website":   {"Website", func(h string) string { return "https://" + h }},
}

// platformOrder is the display order of known platforms.
var platformOrder = []string{"website", "github", "x", "twitter", "linkedin", "mastodon", "facebook", "instagram", "youtube"}

// Links returns the entries in display order: known platforms first in a
// fixed order, then unknown platforms alphabetically. Empty values are skipped.
func (s SocialLinks) Links() []SocialLink {
	rank := make(map[string]int, len(platformOrder))
	for i, p := range platformOrder {
		rank[p] = i
	}

	links := make([]SocialLink, 0, len(s))
	for name, value := range s {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		links = append(links, resolveLink(name, value))
	}

	sort.Slice(links, func(i, j int) bool {
		a, b := links[i], links[j]
		if a.Known != b.Known {
			return a.Known
		}
		if a.Known {
			return rank[strings.ToLower(a.Platform)] < rank[strings.ToLower(b.Platform)]
		}
		return a.Platform < b.Platform
	})
	return links
}

func resolveLink(name, value string) SocialLink {
	link := SocialLink{Platform: name, Handle: value}
	p, known := platforms[strings.ToLower(name)]
	switch {
	case known:
		link.Known = true
		link.Label = p.label
		if isURL(value) {
			link.URL = value
		} else {
			link.URL = p.profile(value)
		}
	default:
		// Casers are stateful, so each call gets its own.
		link.Label = cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
		if isURL(value) {
			link.URL = value
		}
	}
	return link
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

func prefixed(base string) func(string) string {
	return func(handle string) string {
		return base + strings.TrimPrefix(handle, "@")
	}
}

// mastodonProfile turns "@user@instance.social" into its profile URL.
func mastodonProfile(handle string) string {
	parts := strings.Split(strings.TrimPrefix(handle, "@"), "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return "https://" + parts[1] + "/@" + parts[0]
}

// Clean returns a copy with lowercased platform names and trimmed values,
// dropping empty entries. It returns nil when nothing is left.
func (s SocialLinks) Clean() SocialLinks {
	var out SocialLinks
	for name, value := range s {
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		if out == nil {
			out = SocialLinks{}
		}
		out[name] = value
	}
	return out
}
