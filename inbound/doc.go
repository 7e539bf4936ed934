// Package inbound is the HTTP boundary for provider webhook deliveries: it
// captures the raw body, verifies the signature, normalizes the payload, and
// hands the result to the reconciliation engine.
package inbound
