// Package prompts contains MCP prompt implementations for jsonshape.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	SampleRoot       string
	MaxSamplesPerSet int
}
