// Package cli implements the command-line interface for euronext-listings.
//
// The cli package provides the Cobra root command. A run fetches the IPO showcase,
// keeps the Oslo listings dated within the trailing window, and overwrites
// data/listings.json. The command takes no arguments and no flags; any failure
// exits non-zero.
package cli
