package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong identifier/password
	AuthCsrfInvalid        = "AUTH_CSRF_INVALID"        // missing or stale CSRF token
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"     // username taken
	AuthEmailExists        = "AUTH_EMAIL_EXISTS"        // email taken
	AuthAccountLookup      = "AUTH_ACCOUNT_LOOKUP"      // account record could not be loaded
	AuthResetTokenInvalid  = "AUTH_RESET_TOKEN_INVALID" // malformed or already used reset token
	AuthResetTokenExpired  = "AUTH_RESET_TOKEN_EXPIRED" // reset token past expiry

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // bad input
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // bad ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // bad format
	ValidationTooShort      = "VALIDATION_TOO_SHORT"      // value too short
	ValidationTooLong       = "VALIDATION_TOO_LONG"       // value too long
	ValidationRequired      = "VALIDATION_REQUIRED"       // required field missing

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // no such resource
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // already exists
	ResourceConflict      = "RESOURCE_CONFLICT"       // conflicting state

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND" // no such product
	PriceNotFound   = "PRICE_NOT_FOUND"   // no price recorded for source

	// ==================== Watchlist (WATCHLIST_) ====================
	WatchlistDuplicate    = "WATCHLIST_DUPLICATE"      // (product, source) already watched
	WatchlistItemNotFound = "WATCHLIST_ITEM_NOT_FOUND" // no such watchlist entry

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // server error
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // database error
	InternalSessionError  = "INTERNAL_SESSION_ERROR"  // session store error
)
