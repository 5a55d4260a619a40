package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for gsc resources.
const uriScheme = "gsc://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource mirroring the list_properties tool, for clients that
	// prefer resource reads over tool calls.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "properties",
		Name:        "properties",
		Description: "Web properties visible to the authenticated account",
		MIMEType:    "application/json",
	}, s.handlePropertiesResource)
}

// handlePropertiesResource returns the account's web properties as JSON.
func (s *Server) handlePropertiesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	properties, err := s.ports.Properties.Webproperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}

	infos := make([]PropertyOutput, len(properties))
	for i, wp := range properties {
		infos[i] = PropertyOutput{
			SiteURL:         wp.URL,
			PermissionLevel: wp.RawPermission,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling properties: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
