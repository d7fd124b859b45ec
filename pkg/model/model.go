// Package model contains the JSON bodies of the contacts API as seen by clients.
package model

import "time"

// Contact is a contact as returned by the API. The id is the hex form of an ObjectId.
type Contact struct {
	Id        string     `json:"_id,omitempty"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	Gender    string     `json:"gender,omitempty"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Bio       string     `json:"bio,omitempty"`
	Address   *Address   `json:"address,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Address is the postal address of a contact.
type Address struct {
	LineOne string `json:"lineOne,omitempty"`
	LineTwo string `json:"lineTwo,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// ContactList is the body of GET /api/v1/contacts.
type ContactList struct {
	Contacts []Contact `json:"contacts"`
}

// ContactEnvelope is the body of the single contact responses. Response is set by create,
// Message by update.
type ContactEnvelope struct {
	Response string  `json:"response,omitempty"`
	Message  string  `json:"message,omitempty"`
	Contact  Contact `json:"contact"`
}

// DeleteResult is the body of a successful DELETE.
type DeleteResult struct {
	Response string `json:"response"`
	Result   struct {
		N  int64 `json:"n"`
		Ok int   `json:"ok"`
	} `json:"result"`
}

// FieldError describes a rejected field.
type FieldError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Path    string `json:"path"`
	Value   any    `json:"value,omitempty"`
}

// ValidationErrors is the body of a rejected create or update.
type ValidationErrors struct {
	Name    string                `json:"name,omitempty"`
	Message string                `json:"message,omitempty"`
	Errors  map[string]FieldError `json:"errors"`
}
