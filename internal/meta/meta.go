// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package meta normalizes bibliographic metadata: it splits raw author lists
// into structured names and turns raw publication dates into a structured
// {year, month} pair plus a sortable "YYYY-MM-01" index date.
package meta

import (
	"strings"

	"github.com/pdiddy/biorel-index/pkg/types"
)

// Default year and month used for the index date when the raw date does
// not carry them.
const (
	DefaultYear  = "2020"
	DefaultMonth = "01"
)

var monthAbbr = map[string]string{
	"Jan": "01", "Feb": "02", "Mar": "03", "Apr": "04",
	"May": "05", "Jun": "06", "Jul": "07", "Aug": "08",
	"Sep": "09", "Oct": "10", "Nov": "11", "Dec": "12",
}

// ParseAuthors splits a "Last, First; Last, First" list. Each entry yields
// an Author and a "First Last" display name. An entry without ", " has a
// nil first name. An empty list yields nil, nil.
func ParseAuthors(raw string) ([]types.Author, []string) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var authors []types.Author
	var full []string
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ", ")
		a := types.Author{LastName: parts[0]}
		if len(parts) > 1 {
			first := parts[1]
			a.FirstName = &first
		}
		authors = append(authors, a)

		for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
			parts[i], parts[j] = parts[j], parts[i]
		}
		full = append(full, strings.Join(parts, " "))
	}
	return authors, full
}

// DateShape maps each character of s to its class: d for digits, c for
// lowercase and C for uppercase ASCII letters, space and hyphen to
// themselves, x for anything else.
func DateShape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteByte('d')
		case r >= 'a' && r <= 'z':
			b.WriteByte('c')
		case r >= 'A' && r <= 'Z':
			b.WriteByte('C')
		case r == ' ' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('x')
		}
	}
	return b.String()
}

// ParseDate parses a raw publication date. Recognized shapes are "2020",
// "2020-05-18" and "2020 May ...". Other shapes give an empty PublishTime.
// The index date is always returned for a non-empty input, with missing
// parts defaulted. An empty input yields nil, nil.
func ParseDate(raw string) (*types.PublishTime, *string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	pt := &types.PublishTime{}
	shape := DateShape(raw)
	switch {
	case shape == "dddd":
		pt.Year = strPtr(raw)
	case shape == "dddd-dd-dd":
		pt.Year = strPtr(raw[:4])
		pt.Month = strPtr(raw[5:7])
	case strings.HasPrefix(shape, "dddd Ccc"):
		pt.Year = strPtr(raw[:4])
		if m, ok := monthAbbr[raw[5:8]]; ok {
			pt.Month = strPtr(m)
		}
	}

	year, month := DefaultYear, DefaultMonth
	if pt.Year != nil {
		year = *pt.Year
	}
	if pt.Month != nil {
		month = *pt.Month
	}
	es := year + "-" + month + "-01"
	return pt, &es
}

// Normalize recomputes rec's derived fields from its raw fields. Running
// it twice gives the same result.
func Normalize(rec *types.MetaRecord) {
	rec.Authors, rec.AuthorsFull = ParseAuthors(rec.RawAuthors)
	rec.PublishTime, rec.ESDate = ParseDate(rec.RawPublishTime)
}

func strPtr(s string) *string { return &s }
