package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/hirosato/ledger-balance/backend/internal/api/response"
	"github.com/hirosato/ledger-balance/backend/internal/common/utils"
)

// BookContextKey is the key for the book context in the request context
type BookContextKey string

const (
	// BookContextKeyValue is the context key for book information
	BookContextKeyValue BookContextKey = "book"

	// BookIDPathParameter is the path parameter naming the book, as in /books/{bookId}/balance
	BookIDPathParameter = "bookId"
	// BookIDHeader selects a book on routes without a book path parameter
	BookIDHeader = "X-Book-Id"
)

// BookContext identifies the book a request works on
type BookContext struct {
	BookID string
	// Source is where the id came from: path, header or default
	Source string
}

// BookMiddleware scopes every request to one book. The id is taken from the path,
// then the X-Book-Id header, then the configured default.
type BookMiddleware struct {
	defaultBookID string
	log           *zap.Logger
}

// NewBookMiddleware creates a new book middleware
func NewBookMiddleware(defaultBookID string, log *zap.Logger) *BookMiddleware {
	return &BookMiddleware{
		defaultBookID: defaultBookID,
		log:           log,
	}
}

// Handle handles the book middleware for Lambda functions
func (m *BookMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		bookCtx := m.resolve(request)
		if bookCtx.BookID == "" {
			m.log.Warn("request without book", zap.String("path", request.Path))
			return response.BookError("book id is required", request.RequestContext.RequestID), nil
		}
		if err := utils.ValidateBookID(bookCtx.BookID); err != nil {
			m.log.Warn("invalid book id", zap.String("bookId", bookCtx.BookID), zap.String("source", bookCtx.Source))
			return response.FromError(err, request.RequestContext.RequestID), nil
		}

		m.log.Debug("book resolved", zap.String("bookId", bookCtx.BookID), zap.String("source", bookCtx.Source))
		ctx = context.WithValue(ctx, BookContextKeyValue, bookCtx)
		return next(ctx, logger.With("bookId", bookCtx.BookID), request)
	}
}

func (m *BookMiddleware) resolve(request events.APIGatewayProxyRequest) *BookContext {
	if id := request.PathParameters[BookIDPathParameter]; id != "" {
		return &BookContext{BookID: id, Source: "path"}
	}
	for key, id := range request.Headers {
		if id != "" && strings.EqualFold(key, BookIDHeader) {
			return &BookContext{BookID: id, Source: "header"}
		}
	}
	return &BookContext{BookID: m.defaultBookID, Source: "default"}
}

// GetBookID gets the book ID from the request context
func GetBookID(ctx context.Context) string {
	bookCtx, ok := GetBookContext(ctx)
	if !ok {
		return ""
	}
	return bookCtx.BookID
}

// GetBookContext gets the book context from the request context
func GetBookContext(ctx context.Context) (*BookContext, bool) {
	bookCtx, ok := ctx.Value(BookContextKeyValue).(*BookContext)
	return bookCtx, ok
}
