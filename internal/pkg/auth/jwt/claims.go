package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for dmchat.
// It includes standard claims required by the JWT specification and the custom
// claim identifying the token holder.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the account identifier the token was issued for. The same token
	// authenticates both the REST API and the WebSocket handshake.
	UserID string `json:"user_id"`
}
