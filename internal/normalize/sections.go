package normalize

import (
	stdhtml "html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Sections is the structured content extracted from a job description.
type Sections struct {
	Responsibilities []string
	Requirements     []string
	Benefits         []string
	CleanText        string
}

// Heading keyword classes. Checked in this order; first match wins.
var (
	respHeadingRe    = regexp.MustCompile(`(?i)responsibilit|dutie|you will`)
	reqHeadingRe     = regexp.MustCompile(`(?i)requirement|qualification|skill|required`)
	benefitHeadingRe = regexp.MustCompile(`(?i)benefit|perk|what we offer`)
)

type category int

const (
	catNone category = iota
	catResponsibilities
	catRequirements
	catBenefits
)

func classifyHeading(text string) category {
	switch {
	case respHeadingRe.MatchString(text):
		return catResponsibilities
	case reqHeadingRe.MatchString(text):
		return catRequirements
	case benefitHeadingRe.MatchString(text):
		return catBenefits
	}
	return catNone
}

// ExtractSections pulls responsibilities, requirements, benefits, and a
// plain-text description out of raw job description HTML.
//
// The primary path walks the parsed DOM: heading-like elements are classified
// by keyword, and each matched heading claims the list element immediately
// following it (the search stops at the next heading). Categories still empty
// afterwards are filled positionally from unclaimed lists: the first becomes
// responsibilities, the second requirements. Heading-guided extraction always
// wins; the fallback never overwrites it.
//
// Inputs with no element markup to anchor on go through a regex scan that
// implements the same classification and claiming rules. This is the degraded
// mode; both paths are equivalence-tested on shared fixtures.
func ExtractSections(raw string) Sections {
	if strings.TrimSpace(raw) == "" {
		return emptySections()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err == nil && doc.Find("p,li,ul,ol,h1,h2,h3,h4,h5,h6,strong,b,div,br").Length() > 0 {
		return extractDOM(doc)
	}
	return extractRegex(raw)
}

func emptySections() Sections {
	return Sections{
		Responsibilities: []string{},
		Requirements:     []string{},
		Benefits:         []string{},
	}
}

// --- DOM path ---

func extractDOM(doc *goquery.Document) Sections {
	s := emptySections()
	claimed := make(map[*html.Node]bool)

	doc.Find("h1,h2,h3,h4,h5,h6,strong,b").Each(func(_ int, h *goquery.Selection) {
		cat := classifyHeading(strings.TrimSpace(h.Text()))
		if cat == catNone {
			return
		}

		list := followingList(h)
		if list == nil || list.Length() == 0 || claimed[list.Get(0)] {
			return
		}

		items := listItems(list)
		if len(items) == 0 {
			return
		}
		if assign(&s, cat, items) {
			claimed[list.Get(0)] = true
		}
	})

	// Positional fallback: only genuinely empty categories, only unclaimed
	// lists that actually have items.
	var unclaimed [][]string
	doc.Find("ul,ol").Each(func(_ int, l *goquery.Selection) {
		if claimed[l.Get(0)] {
			return
		}
		if items := listItems(l); len(items) > 0 {
			unclaimed = append(unclaimed, items)
		}
	})
	if len(s.Responsibilities) == 0 && len(unclaimed) > 0 {
		s.Responsibilities = unclaimed[0]
	}
	if len(s.Requirements) == 0 && len(unclaimed) > 1 {
		s.Requirements = unclaimed[1]
	}

	var paras []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := collapse(p.Text()); t != "" {
			paras = append(paras, t)
		}
	})
	if len(paras) > 0 {
		s.CleanText = strings.Join(paras, " ")
	} else {
		s.CleanText = collapse(doc.Text())
	}
	return s
}

// followingList finds the list element immediately following a heading,
// stopping at the next heading. Inline headings (strong/b that make up the
// whole text of their paragraph) are resolved to that wrapping block first.
func followingList(h *goquery.Selection) *goquery.Selection {
	node := h
	if name := goquery.NodeName(h); name == "strong" || name == "b" {
		parent := h.Parent()
		pname := goquery.NodeName(parent)
		if (pname == "p" || pname == "div") && collapse(parent.Text()) == collapse(h.Text()) {
			node = parent
		}
	}

	for sib := node.Next(); sib.Length() > 0; sib = sib.Next() {
		name := goquery.NodeName(sib)
		if name == "ul" || name == "ol" {
			return sib
		}
		if isHeadingName(name) {
			return nil
		}
		// A container holding the next heading ends the search; one directly
		// wrapping a list yields that list.
		if sib.Find("h1,h2,h3,h4,h5,h6,strong,b").Length() > 0 {
			return nil
		}
		if inner := sib.ChildrenFiltered("ul,ol").First(); inner.Length() > 0 {
			return inner
		}
	}
	return nil
}

func isHeadingName(name string) bool {
	switch name {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func listItems(list *goquery.Selection) []string {
	var items []string
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		if t := collapse(li.Text()); t != "" {
			items = append(items, t)
		}
	})
	return items
}

// assign fills the category if it is still empty. Returns whether the items
// were consumed.
func assign(s *Sections, cat category, items []string) bool {
	switch cat {
	case catResponsibilities:
		if len(s.Responsibilities) == 0 {
			s.Responsibilities = items
			return true
		}
	case catRequirements:
		if len(s.Requirements) == 0 {
			s.Requirements = items
			return true
		}
	case catBenefits:
		if len(s.Benefits) == 0 {
			s.Benefits = items
			return true
		}
	}
	return false
}

// --- regex path ---

var (
	headingTagRe = regexp.MustCompile(`(?is)<(?:h[1-6]|strong|b)\b[^>]*>(.*?)</(?:h[1-6]|strong|b)>`)
	listTagRe    = regexp.MustCompile(`(?is)<(?:ul|ol)\b[^>]*>.*?</(?:ul|ol)>`)
	liTagRe      = regexp.MustCompile(`(?is)<li\b[^>]*>(.*?)</li>`)
	anyTagRe     = regexp.MustCompile(`<[^>]*>`)
)

type listSpan struct {
	start, end int
	claimed    bool
}

func extractRegex(raw string) Sections {
	s := emptySections()

	headings := headingTagRe.FindAllStringSubmatchIndex(raw, -1)
	var lists []listSpan
	for _, m := range listTagRe.FindAllStringIndex(raw, -1) {
		lists = append(lists, listSpan{start: m[0], end: m[1]})
	}

	for i, hm := range headings {
		text := stripTags(raw[hm[2]:hm[3]])
		cat := classifyHeading(text)
		if cat == catNone {
			continue
		}

		searchEnd := len(raw)
		if i+1 < len(headings) {
			searchEnd = headings[i+1][0]
		}

		for li := range lists {
			l := &lists[li]
			if l.claimed || l.start < hm[1] || l.start >= searchEnd {
				continue
			}
			items := splitListItems(raw[l.start:l.end])
			if len(items) > 0 && assign(&s, cat, items) {
				l.claimed = true
			}
			break
		}
	}

	var unclaimed [][]string
	for _, l := range lists {
		if l.claimed {
			continue
		}
		if items := splitListItems(raw[l.start:l.end]); len(items) > 0 {
			unclaimed = append(unclaimed, items)
		}
	}
	if len(s.Responsibilities) == 0 && len(unclaimed) > 0 {
		s.Responsibilities = unclaimed[0]
	}
	if len(s.Requirements) == 0 && len(unclaimed) > 1 {
		s.Requirements = unclaimed[1]
	}

	s.CleanText = stripTags(raw)
	return s
}

func splitListItems(listHTML string) []string {
	var items []string
	for _, m := range liTagRe.FindAllStringSubmatch(listHTML, -1) {
		if t := stripTags(m[1]); t != "" {
			items = append(items, t)
		}
	}
	return items
}

// stripTags converts an HTML fragment to collapsed plain text. Entities are
// unescaped first, which handles double-encoded provider content and is a
// no-op on already-plain text.
func stripTags(fragment string) string {
	unescaped := stdhtml.UnescapeString(fragment)
	return collapse(anyTagRe.ReplaceAllString(unescaped, " "))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
