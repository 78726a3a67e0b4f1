package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for CourseQA resources.
	uriScheme = "courseqa://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the course catalog.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "courses",
		Name:        "courses",
		Description: "List of all indexed course titles",
		MIMEType:    "application/json",
	}, s.handleCoursesResource)

	// Template for course outlines.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "courses/{courseName}/outline",
		Name:        "course-outline",
		Description: "Outline of a specific course",
		MIMEType:    "application/json",
	}, s.handleOutlineResource)
}

// handleCoursesResource returns the indexed course titles.
func (s *Server) handleCoursesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	titles, err := s.ports.Search.CourseTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	if titles == nil {
		titles = []string{}
	}

	data, err := json.MarshalIndent(titles, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling courses: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleOutlineResource returns the outline for a specific course.
func (s *Server) handleOutlineResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	courseName := extractCourseName(req.Params.URI)
	if courseName == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	outline, err := s.ports.Search.Outline(ctx, courseName)
	if err != nil {
		return nil, fmt.Errorf("getting outline: %w", err)
	}

	data, err := json.MarshalIndent(outline, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling outline: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCourseName extracts the course name from a URI like
// courseqa://courses/{courseName}/outline.
func extractCourseName(uri string) string {
	const prefix = uriScheme + "courses/"
	const suffix = "/outline"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}
	return strings.TrimSuffix(uri, suffix)
}
