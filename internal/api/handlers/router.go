package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/ledger-balance/backend/internal/api/middleware"
	"github.com/hirosato/ledger-balance/backend/internal/api/response"
)

type route struct {
	segments []string
	handler  middleware.APIGatewayHandler
}

// Router dispatches API Gateway proxy requests on path templates such as
// /books/{bookId}/balance. Template variables are copied into PathParameters when API
// Gateway did not already fill them, which happens behind a {proxy+} resource.
type Router struct {
	routes []route
}

func NewRouter() *Router {
	return &Router{}
}

// Handle registers h for a path template
func (r *Router) Handle(pattern string, h middleware.APIGatewayHandler) {
	r.routes = append(r.routes, route{segments: split(pattern), handler: h})
}

// Serve answers CORS preflights and routes everything else
func (r *Router) Serve(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return response.NoContent(), nil
	}

	path := split(request.Path)
	for _, rt := range r.routes {
		params, ok := match(rt.segments, path)
		if !ok {
			continue
		}
		if len(params) > 0 {
			merged := make(map[string]string, len(params)+len(request.PathParameters))
			for k, v := range params {
				merged[k] = v
			}
			for k, v := range request.PathParameters {
				merged[k] = v
			}
			request.PathParameters = merged
		}
		return rt.handler(ctx, logger, request)
	}

	logger.Debug("no route", "path", request.Path, "method", request.HTTPMethod)
	return response.NotFound("endpoint not found"), nil
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range pattern {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if path[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:len(seg)-1]] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return params, true
}
