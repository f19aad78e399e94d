// Package server implements the MCP (Model Context Protocol) server for the
// prime-image tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the image to prime
// pipeline through the MCP protocol, so an assistant can turn a picture into
// digits, test them and search for a nearby prime one step at a time.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Conversion:
//   - image_load: Load image and get metadata
//   - image_to_digits: Convert an image into a digit grid
//
// Primality:
//   - prime_check: Miller-Rabin test of a digit string
//   - prime_search: Randomized search for a nearby prime
//   - next_prime: Smallest prime not below a digit string
//
// Rendering:
//   - digits_render: Text, HTML or PNG rendering of a digit grid
//
// Arguments a caller omits fall back to the server's configuration. Searches
// are always bounded: without max_iterations a call stops after 100,000
// trials and reports the exhaustion as a tool error.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client through the serve command:
//
//	srv := server.NewWithConfig(cfg)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
