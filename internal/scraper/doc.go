// Package scraper provides HTTP fetching and HTML parsing for the Euronext IPO showcase.
//
// The scraper package fetches the public IPO showcase page and extracts one candidate
// row per table row whose first cell is a dd/mm/yyyy date and which has at least six
// cells. The first link found in a row is resolved against the page address.
package scraper
