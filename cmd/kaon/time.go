package main

import "time"

// newTicker returns a frame ticker for the given frames per second.
// Zero means uncapped.
func newTicker(fps int) *time.Ticker {
	if fps == 0 {
		return time.NewTicker(time.Nanosecond)
	}
	return time.NewTicker(time.Second / time.Duration(fps))
}
