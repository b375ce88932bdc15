package parse

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	confluencePageRegex = regexp.MustCompile(`/wiki/(?:spaces/[^/]+/)?pages/(?:viewpage\.action\?pageId=)?(\d+)`)
	fragmentPageIDRegex = regexp.MustCompile(`(?:^|[&#])pageId=(\d+)`)
)

// ConfluencePageID accepts either a numeric page ID or a Confluence page URL
// and returns the numeric ID.
func ConfluencePageID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if IsValidConfluencePageID(input) {
		return input, nil
	}
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return "", fmt.Errorf("not a page ID or page URL: %q", input)
	}
	return pageIDFromURL(input)
}

func pageIDFromURL(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	if matches := confluencePageRegex.FindStringSubmatch(parsedURL.Path); len(matches) >= 2 {
		return matches[1], nil
	}
	if pid := parsedURL.Query().Get("pageId"); IsValidConfluencePageID(pid) {
		// viewpage.action and renderpagecontent.action URLs
		return pid, nil
	}
	if matches := fragmentPageIDRegex.FindStringSubmatch(parsedURL.Fragment); len(matches) >= 2 {
		return matches[1], nil
	}
	return "", fmt.Errorf("could not extract page ID from URL: %s", rawURL)
}

func IsValidConfluencePageID(pageID string) bool {
	if pageID == "" {
		return false
	}
	_, err := strconv.ParseUint(pageID, 10, 64)
	return err == nil
}
