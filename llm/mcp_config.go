package llm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MCPServerConfig holds configuration for connecting to the MCP server that
// hosts the classification model.
type MCPServerConfig struct {
	// Path to the MCP server executable
	Path string

	// Transport type; only "stdio" is supported
	Transport string

	// Environment entries passed to the server process as "key=value"
	Env []string
}

// DiscoverMCPServers tries to discover available MCP servers using various methods
func DiscoverMCPServers() ([]MCPServerConfig, error) {
	servers := []MCPServerConfig{}

	// 1. Check environment variable
	if serverPath := os.Getenv("MCP_SERVER_PATH"); serverPath != "" {
		servers = append(servers, MCPServerConfig{
			Path:      serverPath,
			Transport: "stdio",
		})
	}

	// 2. Check common installation locations
	commonPaths := []string{
		"./mcp-server",
		filepath.Join(os.Getenv("HOME"), ".local/bin/mcp-server"),
		"/usr/local/bin/mcp-server",
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			servers = append(servers, MCPServerConfig{
				Path:      path,
				Transport: "stdio",
			})
		}
	}

	// 3. Parse MCP_SERVERS environment variable (comma-separated list)
	if serverList := os.Getenv("MCP_SERVERS"); serverList != "" {
		for _, server := range strings.Split(serverList, ",") {
			server = strings.TrimSpace(server)
			if server == "" {
				continue
			}
			servers = append(servers, MCPServerConfig{
				Path:      server,
				Transport: "stdio",
			})
		}
	}

	if len(servers) == 0 {
		return nil, fmt.Errorf("no MCP servers discovered; please set MCP_SERVER_PATH or MCP_SERVERS environment variable")
	}

	return servers, nil
}

// GetMCPServerConfig returns an appropriate MCP server configuration.
// An explicit serverPath takes precedence over discovery.
func GetMCPServerConfig(serverPath string) (*MCPServerConfig, error) {
	if serverPath != "" {
		return &MCPServerConfig{
			Path:      serverPath,
			Transport: "stdio",
		}, nil
	}

	servers, err := DiscoverMCPServers()
	if err != nil {
		return nil, err
	}

	return &servers[0], nil
}

// LoadClassifierConfig merges a classifier configuration with defaults and
// environment overrides. Explicitly provided values take precedence.
func LoadClassifierConfig(config *ClassifierConfig) *ClassifierConfig {
	if config == nil {
		config = &ClassifierConfig{}
	}

	if config.ToolName == "" {
		config.ToolName = os.Getenv("MCP_TOOL_NAME")
	}
	if config.ToolName == "" {
		config.ToolName = "nlp.classify_language"
	}

	if config.Model == "" {
		config.Model = os.Getenv("MCP_MODEL")
	}
	if config.Model == "" {
		config.Model = "default"
	}

	if config.MaxTokens == 0 {
		config.MaxTokens = 128
	}

	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	if config.RetryCount == 0 {
		config.RetryCount = 2
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = 500 * time.Millisecond
	}

	if config.AuditLevel == "" {
		config.AuditLevel = "standard"
	}

	return config
}
