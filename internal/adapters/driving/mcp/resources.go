package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for wikisearch resources.
	uriScheme = "wiki://"

	pagesURI = uriScheme + "pages"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         pagesURI,
		Name:        "pages",
		Description: "Every page in the corpus with its publication state",
		MIMEType:    "application/json",
	}, s.handlePagesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: pagesURI + "/{+path}",
		Name:        "page-render",
		Description: "Rendered HTML of a page",
		MIMEType:    "text/html",
	}, s.handlePageResource)
}

type pageInfo struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Locale      string `json:"locale"`
	Indexable   bool   `json:"indexable"`
}

// handlePagesResource lists every page.
func (s *Server) handlePagesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos := []pageInfo{}
	if s.ports.Pages != nil {
		docs, err := s.ports.Pages.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing pages: %w", err)
		}
		for _, doc := range docs {
			infos = append(infos, pageInfo{
				Path:        doc.Path,
				Title:       doc.Title,
				Description: doc.Description,
				Locale:      doc.LocaleCode,
				Indexable:   doc.IsIndexable(),
			})
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling pages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePageResource returns the rendered markup of one page.
func (s *Server) handlePageResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Pages == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	path := extractPagePath(req.Params.URI)
	if path == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Pages.Get(ctx, path)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting page: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/html",
			Text:     doc.Render,
		}},
	}, nil
}

// extractPagePath extracts the page path from a URI like wiki://pages/{path}.
func extractPagePath(uri string) string {
	const prefix = pagesURI + "/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
