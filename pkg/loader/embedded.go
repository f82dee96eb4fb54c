package loader

import (
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// readEmbedded extracts the payload embedded in the hosting HTML document
// as an inline <script id="..."> block, for execution contexts with no
// network access at all.
func readEmbedded(path, scriptID string, validate validator) tierResult {
	f, err := os.Open(path)
	if err != nil {
		return tierFail(err.Error())
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return tierFailf("cannot parse %s: %v", path, err)
	}

	sel := doc.Find("script#" + scriptID)
	if sel.Length() == 0 {
		return tierFailf("missing <script id=%q>", scriptID)
	}

	text := strings.TrimSpace(sel.First().Text())
	if text == "" {
		return tierFail("embedded JSON is empty")
	}

	raw := []byte(text)
	if errs := validate(raw); len(errs) > 0 {
		return tierFail("validation failed: " + strings.Join(errs, " | "))
	}
	return tierOK(raw)
}
