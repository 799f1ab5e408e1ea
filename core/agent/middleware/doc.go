// Package middleware provides ready-made middlewares for the agent's
// provider call chain: structured request logging, retry with exponential
// backoff, and per-request timeouts.
package middleware
