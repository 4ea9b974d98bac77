// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides request-abuse guards for the console API.

# Rate Limiting

RateLimiter is a sliding-window limiter keyed by client address:

	limiter := auth.NewRateLimiter(5, time.Minute)
	if !limiter.Allow(clientIP) {
		// 429
	}

The limiter is an owned value created by the router and shared by reference
with the handlers that need it. Attempts older than the window are dropped on
each call; rejected attempts do not extend the window.

# Honeypot

Upload forms carry a hidden field that people never fill in:

	if auth.IsBot(r.FormValue("website")) {
		// reject
	}
*/
package auth
