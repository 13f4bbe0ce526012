/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Messaging Business Logic Errors
const (
	// ErrMessageEmpty indicates that a message carried neither text nor an image.
	ErrMessageEmpty = 2001

	// ErrMessageContentTooLong indicates that the message text exceeded the maximum length limit.
	ErrMessageContentTooLong = 2002

	// ErrRecipientNotFound indicates that the addressed recipient does not exist.
	ErrRecipientNotFound = 2003

	// ErrRecipientInvalid indicates a malformed recipient identifier, or a message addressed to oneself.
	ErrRecipientInvalid = 2004

	// ErrImageInvalid indicates that the provided image payload could not be decoded.
	ErrImageInvalid = 2005
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrInvalidFullName indicates that the supplied display name failed validation.
	ErrInvalidFullName = 3001

	// ErrInvalidEmail indicates that the supplied email address failed validation.
	ErrInvalidEmail = 3002

	// ErrInvalidPassword indicates that the supplied password failed validation.
	ErrInvalidPassword = 3003

	// ErrUserAlreadyExists indicates that the email address is already registered.
	ErrUserAlreadyExists = 3004

	// ErrInvalidCredentials indicates that the email/password combination does not match.
	ErrInvalidCredentials = 3005

	// ErrUserNotFound indicates that the referenced account does not exist.
	ErrUserNotFound = 3006

	// ErrUnauthorized indicates a protected route was hit without a valid token.
	ErrUnauthorized = 3007
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown indicates an unclassified internal error.
	ErrUnknown = 5001

	// ErrFileStorageFailed indicates that uploading an image to object storage failed.
	ErrFileStorageFailed = 5002
)
