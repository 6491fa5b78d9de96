package http

import (
	"bytes"
	"encoding/json"

	"github.com/vasiliy-maslov/user-records/internal/user"
)

// Request bodies use camelCase field names while responses use snake_case.
// Browser clients depend on this asymmetry, so both shapes are kept here and
// nowhere else.

// optionalString remembers whether a field appeared in the body at all. An
// explicit null counts as present. Numbers are kept as their literal text.
type optionalString struct {
	Value string
	Set   bool
	Null  bool
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true

	switch {
	case bytes.Equal(data, []byte("null")):
		o.Null = true
		o.Value = ""
		return nil
	case len(data) > 0 && data[0] != '"':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		o.Value = n.String()
		return nil
	}

	return json.Unmarshal(data, &o.Value)
}

// raw returns the value as sent, nil for an absent or null field.
func (o optionalString) raw() *string {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// UserRequest is the body of POST /users and PUT /users/{id}.
type UserRequest struct {
	FirstName optionalString `json:"firstName"`
	LastName  optionalString `json:"lastName"`
	Phone     optionalString `json:"phone"`
	Email     optionalString `json:"email"`
	Address   optionalString `json:"address"`
}

// toUser maps the request onto a full record. Absent and null fields become
// empty strings: updates replace the whole record rather than merging.
func (r UserRequest) toUser(id int64) *user.User {
	return &user.User{
		ID:        id,
		FirstName: r.FirstName.Value,
		LastName:  r.LastName.Value,
		Phone:     r.Phone.Value,
		Email:     r.Email.Value,
		Address:   r.Address.Value,
	}
}

type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

func newUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Email:     u.Email,
		Address:   u.Address,
	}
}

type DeleteUserResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Type     string  `json:"type"`
	Value    *string `json:"value,omitempty"`
	Msg      string  `json:"msg"`
	Path     string  `json:"path"`
	Location string  `json:"location"`
}

type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}
