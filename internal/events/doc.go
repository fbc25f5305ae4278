// Package events provides a small in-process publish/subscribe mechanism for
// identity-change notifications. The auth handlers emit events when a client
// signs in, signs up, or signs out; study sessions subscribe on creation and
// release their subscription on teardown.
package events
