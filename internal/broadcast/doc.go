// Package broadcast fans processed posts and alerts out to WebSocket
// stream subscribers, with one writer goroutine per connection.
package broadcast
