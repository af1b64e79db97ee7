// Package listing provides types and functions for upcoming equity listings.
//
// The listing package handles row representation, the snapshot written at the end
// of each run, and the location/time-window filter. Source dates carry no
// time-of-day, so every date is interpreted as midnight UTC of that calendar day.
package listing
