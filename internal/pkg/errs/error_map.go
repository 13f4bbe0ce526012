/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Messaging Business Logic Errors
	ErrMessageEmpty:          {Code: ErrMessageEmpty, Message: "Message must contain text or an image.", Status: http.StatusBadRequest},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long.", Status: http.StatusBadRequest},
	ErrRecipientNotFound:     {Code: ErrRecipientNotFound, Message: "Recipient not found.", Status: http.StatusNotFound},
	ErrRecipientInvalid:      {Code: ErrRecipientInvalid, Message: "Invalid recipient.", Status: http.StatusBadRequest},
	ErrImageInvalid:          {Code: ErrImageInvalid, Message: "Image could not be processed.", Status: http.StatusBadRequest},

	// 3xxx: User, Session, and Security Errors
	ErrInvalidFullName:    {Code: ErrInvalidFullName, Message: "Invalid name.", Status: http.StatusBadRequest},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address.", Status: http.StatusBadRequest},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Password must be at least 8 characters long.", Status: http.StatusBadRequest},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "An account with this email already exists.", Status: http.StatusBadRequest},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect email or password.", Status: http.StatusBadRequest},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "Image upload failed. Please try again.", Status: http.StatusInternalServerError},
}
