// Package mcpsrv embeds the jsonshape MCP server in another program.
//
// The server comes with the builtin jsonshape tools, prompts and the
// jsonshape://set/... resources. Options override environment configuration,
// preload sample sets and add tools that share the server's sample store.
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithSampleRoot("/var/log/app"),
//	    mcpsrv.WithPreload("requests", "requests/**/*.jsonl"),
//	    mcpsrv.WithLogFile("/var/log/jsonshape-mcp.log"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// Custom tools use MCP SDK types directly. Tools that read stored sets are
// registered with WithDepsTool and receive Deps:
//
//	mcpsrv.WithDepsTool(&mcp.Tool{Name: "set_size"},
//	    func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, SizeInput) (*mcp.CallToolResult, SizeOutput, error) {
//	        ...
//	    })
//
// See examples/value-search for a complete custom tool.
package mcpsrv
