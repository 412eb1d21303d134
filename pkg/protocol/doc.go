// Package protocol defines the wire surface of the Model Context Protocol:
// JSON-RPC 2.0 envelopes, the method name constants, and the typed
// parameter and result structures for every method the server dispatches.
//
// Decoding is pure: Decode classifies a raw framed message as a request or
// a notification, or reports a typed invalid-message error carrying the
// correlation id when one was recoverable. Nothing in this package performs
// I/O or holds state.
package protocol
