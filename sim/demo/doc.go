// Package demo provides two small leaf components used in example
// descriptions and end-to-end tests: a Ticker that fires a fixed number of
// periodic events, and a SinkBuffer that fills a byte buffer at a fixed
// bandwidth once triggered and then raises the run's exit signal.
//
// Both types register themselves with the sim registry from init(), so a
// blank import is enough to make them available to descriptions.
package demo
