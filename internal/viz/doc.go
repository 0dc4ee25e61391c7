// Package viz renders mesh state into frames for an external viewer.
//
// A Sink collects primitives (cell triangles, region borders, cell centres,
// waypoint traces) and publishes them as one Frame on Flush. The Recorder
// keeps frames in memory and SocketSink streams them over socket.io.
package viz
