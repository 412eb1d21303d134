// Package pkg holds the components of the Model Context Protocol server
// engine.
//
// A server is assembled from a protocol codec, a transport, and the
// engine itself:
//
//	import (
//	    "context"
//	    "os"
//
//	    mcp "github.com/ajitpratap0/mcp-server-go"
//	    "github.com/ajitpratap0/mcp-server-go/pkg/protocol"
//	)
//
//	func main() {
//	    srv := mcp.NewServer("my-server", "1.0.0")
//	    _ = srv.RegisterTool(protocol.Tool{Name: "echo"}, myEchoHandler)
//
//	    if err := srv.Serve(context.Background(), mcp.NewStdioTransport()); err != nil {
//	        os.Exit(1)
//	    }
//	}
//
// # Sub-packages
//
//   - protocol: JSON-RPC envelopes and the MCP message types
//   - server: session lifecycle, registries, and the dispatcher
//   - transport: the byte-channel contract, stdio and in-memory carriers
//   - errors: structured errors mapped onto wire error codes
//   - logging: leveled structured logging to stderr
//   - pagination: opaque cursor paging for the list methods
//   - observability: Prometheus metrics and OpenTelemetry tracing
//   - utils: JSON Schema reflection and test helpers
package pkg
