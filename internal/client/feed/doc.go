// Package feed provides the HTTP client for podcast feeds.
// It fetches and parses RSS/Atom documents with gofeed and opens
// enclosure downloads, classifying failures as feed fetch or feed parse errors.
package feed
