// Package mcputil turns listen addresses into the URLs MCP clients connect to.
package mcputil

import "strings"

// BaseURL expands a listen address into an http URL. A bare port like ":8080"
// is served on localhost.
func BaseURL(addr string) string {
	addr = strings.TrimRight(addr, "/")
	switch {
	case strings.HasPrefix(addr, "http://"), strings.HasPrefix(addr, "https://"):
		return addr
	case strings.HasPrefix(addr, ":"):
		return "http://localhost" + addr
	default:
		return "http://" + addr
	}
}

// Endpoint returns the streamable HTTP endpoint for addr. mcp-go registers
// its handlers at /mcp by default.
func Endpoint(addr string) string {
	base := BaseURL(addr)
	if !strings.HasSuffix(base, "/mcp") {
		return base + "/mcp"
	}
	return base
}
