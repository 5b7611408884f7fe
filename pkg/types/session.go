package types

// User is the authenticated identity returned by the auth endpoints. The
// bearer token's structure is opaque to this layer.
type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

// FederatedIdentity is the opaque result of a third-party login handshake,
// exchanged with the backend for a session.
type FederatedIdentity struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
}
