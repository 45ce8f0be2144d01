package ladder

import (
	"net/url"
	"strings"
)

const ShareSubject = "Pickleball Match Results"

type ShareLinks struct {
	Twitter  string `json:"twitter"`
	Facebook string `json:"facebook,omitempty"`
	Email    string `json:"email"`
}

// encodeComponent escapes s for any URL query or mailto field, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Links builds share intents for text. The Facebook sharer needs a page to
// point at, so it is omitted when pageURL is empty.
func Links(text, pageURL string) ShareLinks {
	encoded := encodeComponent(text)
	links := ShareLinks{
		Twitter: "https://twitter.com/intent/tweet?text=" + encoded,
		Email:   "mailto:?subject=" + encodeComponent(ShareSubject) + "&body=" + encoded,
	}
	if pageURL != "" {
		links.Facebook = "https://www.facebook.com/sharer/sharer.php?u=" + encodeComponent(pageURL) + "&quote=" + encoded
	}
	return links
}
