package tokens

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// UserID is the issuer-defined "id" claim. Numeric ids are kept in their decimal form.
type UserID string

// Claims represents the decoded payload of a verified access token.
// Payload holds every claim exactly as decoded; the typed fields are views over it.
type Claims struct {
	UserID   UserID `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims

	Payload map[string]any `json:"-"`
}

// UnmarshalJSON decodes the registered claims strictly and the issuer-defined
// ones leniently, so an unexpected type in "username" or "id" never fails a
// correctly signed token.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var registered jwt.RegisteredClaims
	if err := json.Unmarshal(data, &registered); err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return err
	}

	*c = Claims{
		UserID:           UserID(scalarString(payload["id"])),
		Username:         scalarString(payload["username"]),
		Email:            scalarString(payload["email"]),
		RegisteredClaims: registered,
		Payload:          payload,
	}
	return nil
}

// MarshalJSON echoes the decoded payload when there is one
func (c Claims) MarshalJSON() ([]byte, error) {
	if c.Payload != nil {
		return json.Marshal(c.Payload)
	}
	type plain Claims
	return json.Marshal(plain(c))
}

// Claim returns a raw claim from the decoded payload
func (c Claims) Claim(name string) (any, bool) {
	v, ok := c.Payload[name]
	return v, ok
}

// SubjectID returns the subject claim, falling back to the issuer-defined id
func (c Claims) SubjectID() string {
	if c.Subject != "" {
		return c.Subject
	}
	return string(c.UserID)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Identity is the set of fields an Issuer puts into a token
type Identity struct {
	Subject  string
	Username string
	Email    string
}
