/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package scripture parses human-prose bible references and resolves them
// against Zefania XML corpora.
package scripture

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed books.yaml
var booksYAML []byte

type bookTable struct {
	Books []bookEntry `yaml:"books"`
}

type bookEntry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// canonical maps lowercased names and aliases to the canonical book name.
var canonical = loadBookTable()

func loadBookTable() map[string]string {
	var table bookTable
	if err := yaml.Unmarshal(booksYAML, &table); err != nil {
		// The table is embedded at build time; a parse failure is a
		// programming error.
		panic("scripture: invalid books.yaml: " + err.Error())
	}
	m := make(map[string]string, len(table.Books)*4)
	for _, b := range table.Books {
		m[strings.ToLower(b.Name)] = b.Name
		for _, a := range b.Aliases {
			m[strings.ToLower(a)] = b.Name
		}
	}
	return m
}

// chapterless books carry their location in the verse fields.
var chapterless = map[string]bool{
	"Obadiah":  true,
	"Philemon": true,
	"2 John":   true,
	"3 John":   true,
	"Jude":     true,
}

// CanonicalBook resolves a loose book name to its canonical form. The
// second return is false when the name is unknown.
func CanonicalBook(name string) (string, bool) {
	c, ok := canonical[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// IsChapterless reports whether the canonical book has no chapters.
func IsChapterless(canonicalName string) bool {
	return chapterless[canonicalName]
}
