// Package server exposes a simulated host and its layout engine over HTTP.
//
// The API is for inspecting and poking at layouts from scripts and
// browsers while developing. Every request runs under one mutex, so the
// engine sees the same serialized event stream a compositor would give it.
//
// # Routes
//
//	GET    /healthz                      liveness
//	GET    /metrics                      Prometheus exposition
//	GET    /workspaces                   workspace ids with node counts
//	GET    /tree                         snapshot of every workspace
//	GET    /workspaces/{ws}/tree         snapshot of one workspace
//	GET    /workspaces/{ws}/ascii        character-grid drawing of one workspace
//	GET    /tree.dot                     Graphviz DOT of the snapshot
//	GET    /windows                      windows with logical and rendered rects
//	POST   /windows                      map a window
//	DELETE /windows/{handle}             unmap a window
//	POST   /windows/{handle}/focus       focus a window
//	POST   /windows/{handle}/message     send a layout command
//	GET    /monitors                     monitors
//	POST   /monitors                     add a monitor
//
// Errors are returned as {"error": ..., "code": ...} with 400 for invalid
// input, 404 for unknown windows and monitors, and 500 otherwise.
package server
