// Package events publishes layout changes as a stream of JSON events.
//
// [Hooks] implements observability.LayoutHooks and turns each engine
// callback into an [Event] handed to a [Publisher]. Two publishers ship:
//
//   - [RedisPublisher]: PUBLISH on a Redis pub/sub channel, for external
//     subscribers such as status bars
//   - [MemoryPublisher]: keeps events in a slice, for tests and replay
//
// Publishing never blocks the engine for long: each publish runs under a
// short timeout and failures are logged and dropped.
package events
