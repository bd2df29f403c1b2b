// Package html extracts search fragments from rendered wiki pages.
// Headings and elements marked with the content class become fragments
// in document order, each content fragment tagged with the heading that
// precedes it.
package html
