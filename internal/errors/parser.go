package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed error
type ErrorInfo struct {
	Code    string // error code (see codes.go)
	Message string // human readable message
}

// ParseError converts a low-level error into a code and message safe to
// return to the client. Sensitive driver details stay out of the response.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    notFoundCode(context),
			Message: notFoundMessage(context),
		}
	}

	// 2. Constraint violations (PostgreSQL wording, SQLite wording in tests)

	if strings.Contains(errStrLower, "duplicate key") ||
		strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower, context)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	if strings.Contains(errStrLower, "not-null constraint") ||
		strings.Contains(errStrLower, "not null constraint") {
		return parseNotNullError(errStrLower)
	}

	// 3. Network and connection errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "A backing service is unavailable. Please try again later",
		}
	}

	// 4. Default
	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Something went wrong. Please try again later",
	}
}

func parseDuplicateKeyError(errLower string, context string) ErrorInfo {
	if strings.Contains(errLower, "uq_user_product_source") ||
		strings.Contains(errLower, "watchlist_items") {
		return ErrorInfo{
			Code:    WatchlistDuplicate,
			Message: "This product and source is already in your watchlist",
		}
	}

	if strings.Contains(errLower, "username") {
		return ErrorInfo{
			Code:    AuthUsernameExists,
			Message: "Username is already taken",
		}
	}

	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailExists,
			Message: "Email is already registered",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "product_id") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "Product does not exist",
		}
	}
	if strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "User does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "Referenced record does not exist",
	}
}

func parseNotNullError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "username") {
		return ErrorInfo{Code: ValidationRequired, Message: "Username is required"}
	}
	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Password is required"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

// ParseAndRespond parses err and writes the resulting code and message.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func notFoundCode(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") {
		return ProductNotFound
	}
	if strings.Contains(contextLower, "price") {
		return PriceNotFound
	}
	if strings.Contains(contextLower, "watchlist") {
		return WatchlistItemNotFound
	}
	return ResourceNotFound
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") {
		return "Product not found"
	}
	if strings.Contains(contextLower, "price") {
		return "No price recorded for this product and source"
	}
	if strings.Contains(contextLower, "watchlist") {
		return "Watchlist item not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}
	return "Requested record not found"
}
