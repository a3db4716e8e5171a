package archive

import (
	"html"
	"regexp"
	"strings"
)

// minBlockLength filters out navigation fragments and numbering
// artifacts; shorter blocks are noise in filing renditions.
const minBlockLength = 10

// Pre-compiled regular expressions for HTML extraction.
var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTag      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	// EDINET renditions wrap the readable document in div#pageDIV.
	mainContent = regexp.MustCompile(`(?is)<div[^>]*id="pageDIV"[^>]*>(.*)</div>`)
	// Paragraph and table-cell elements carry the filing text.
	textBlocks = regexp.MustCompile(`(?is)<(?:p|td|th)[^>]*>(.*?)</(?:p|td|th)>`)
	allTags    = regexp.MustCompile(`<[^>]+>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// extractHTMLText pulls readable text out of a filing's HTML
// rendition. The designated main-content region is preferred when
// present; text is gathered from paragraph and table-cell blocks, and
// when none qualify the whole document is stripped as a fallback.
func extractHTMLText(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	region := content
	if m := mainContent.FindStringSubmatch(content); m != nil {
		region = m[1]
	}

	var blocks []string
	for _, m := range textBlocks.FindAllStringSubmatch(region, -1) {
		if b := cleanBlock(m[1]); len(b) > minBlockLength {
			blocks = append(blocks, b)
		}
	}

	// Fallback: strip the whole region when no block qualified.
	if len(blocks) == 0 {
		if b := cleanBlock(region); len(b) > minBlockLength {
			blocks = append(blocks, b)
		}
	}

	return strings.Join(blocks, "\n")
}

// cleanBlock strips residual tags, decodes entities, and collapses
// whitespace within one text block.
func cleanBlock(s string) string {
	s = allTags.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
