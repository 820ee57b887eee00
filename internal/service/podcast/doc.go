// Package podcast turns a parsed feed into files on disk.
// It filters feed entries by enclosure type, derives filenames,
// downloads enclosures and optionally writes episode notes and ID3 tags.
package podcast
