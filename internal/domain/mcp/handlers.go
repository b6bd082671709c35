package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
)

// ToolHandler defines the interface for tool handlers
type ToolHandler interface {
	GetName() string
	GetDescription() string
	GetInputSchema() JSONSchema
	Execute(ctx context.Context, arguments json.RawMessage) (*CallToolResult, error)
}

// ResourceHandler defines the interface for resource handlers
type ResourceHandler interface {
	GetURI() string
	GetName() string
	GetDescription() string
	GetMimeType() string
	Read(ctx context.Context) (*ReadResourceResult, error)
}

// ResourceFactory resolves parameterized URIs such as ledger://accounts/{bookId}.
// Every URI starting with Prefix is passed to CreateResource.
type ResourceFactory interface {
	Prefix() string
	Template() ResourceTemplate
	CreateResource(uri string) (ResourceHandler, error)
}

// HandlerRegistry manages tool and resource handlers
type HandlerRegistry struct {
	tools     map[string]ToolHandler
	resources map[string]ResourceHandler
	factories []ResourceFactory
}

// NewHandlerRegistry creates a new handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		tools:     make(map[string]ToolHandler),
		resources: make(map[string]ResourceHandler),
	}
}

// RegisterTool registers a tool handler
func (r *HandlerRegistry) RegisterTool(handler ToolHandler) {
	r.tools[handler.GetName()] = handler
}

// RegisterResource registers a resource handler
func (r *HandlerRegistry) RegisterResource(handler ResourceHandler) {
	r.resources[handler.GetURI()] = handler
}

// RegisterResourceFactory registers a factory for a URI prefix
func (r *HandlerRegistry) RegisterResourceFactory(factory ResourceFactory) {
	r.factories = append(r.factories, factory)
}

// GetTool retrieves a tool handler by name
func (r *HandlerRegistry) GetTool(name string) (ToolHandler, bool) {
	handler, ok := r.tools[name]
	return handler, ok
}

// GetResource retrieves a resource handler by URI. Static resources win over
// factories; among factories the longest matching prefix is used.
func (r *HandlerRegistry) GetResource(uri string) (ResourceHandler, error) {
	if handler, ok := r.resources[uri]; ok {
		return handler, nil
	}

	var best ResourceFactory
	for _, factory := range r.factories {
		if strings.HasPrefix(uri, factory.Prefix()) && (best == nil || len(factory.Prefix()) > len(best.Prefix())) {
			best = factory
		}
	}
	if best == nil {
		return nil, ErrResourceNotFound
	}
	return best.CreateResource(uri)
}

// ListTools returns all registered tools ordered by name
func (r *HandlerRegistry) ListTools() []Tool {
	tools := make([]Tool, 0, len(r.tools))
	for _, handler := range r.tools {
		tools = append(tools, Tool{
			Name:        handler.GetName(),
			Description: handler.GetDescription(),
			InputSchema: handler.GetInputSchema(),
		})
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// ListResources returns all static resources ordered by URI
func (r *HandlerRegistry) ListResources() []Resource {
	resources := make([]Resource, 0, len(r.resources))
	for _, handler := range r.resources {
		resources = append(resources, Resource{
			URI:         handler.GetURI(),
			Name:        handler.GetName(),
			Description: handler.GetDescription(),
			MimeType:    handler.GetMimeType(),
		})
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].URI < resources[j].URI })
	return resources
}

// ListResourceTemplates returns the URI templates served by factories
func (r *HandlerRegistry) ListResourceTemplates() []ResourceTemplate {
	templates := make([]ResourceTemplate, 0, len(r.factories))
	for _, factory := range r.factories {
		templates = append(templates, factory.Template())
	}
	return templates
}
