package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is the data structure for a person that we know.
// Id and CreatedAt are assigned by the service, never by the client.
type Contact struct {
	Id        primitive.ObjectID `json:"_id"              bson:"_id"`
	FirstName string             `json:"firstName"        bson:"firstName"        validate:"required"`
	LastName  string             `json:"lastName"         bson:"lastName"         validate:"required"`
	Gender    string             `json:"gender,omitempty" bson:"gender,omitempty" validate:"omitempty,oneof=male female"`
	Email     string             `json:"email"            bson:"email"            validate:"required"`
	Phone     string             `json:"phone"            bson:"phone"            validate:"required"`
	Bio       string             `json:"bio,omitempty"    bson:"bio,omitempty"`
	Address   Address            `json:"address"          bson:"address"`
	CreatedAt time.Time          `json:"createdAt"        bson:"createdAt"`
}

// Address is the postal address embedded in a contact.
type Address struct {
	LineOne string `json:"lineOne"           bson:"lineOne"           validate:"required"`
	LineTwo string `json:"lineTwo,omitempty" bson:"lineTwo,omitempty"`
	City    string `json:"city"              bson:"city"              validate:"required"`
	State   string `json:"state,omitempty"   bson:"state,omitempty"`
	Country string `json:"country"           bson:"country"           validate:"required"`
	ZipCode string `json:"zipCode"           bson:"zipCode"           validate:"required"`
}

// ContactPatch holds the client supplied fields of a create or update request. A nil field was
// not present in the request body and leaves the target value untouched.
type ContactPatch struct {
	FirstName *Text         `json:"firstName"`
	LastName  *Text         `json:"lastName"`
	Gender    *Text         `json:"gender"`
	Email     *Text         `json:"email"`
	Phone     *Text         `json:"phone"`
	Bio       *Text         `json:"bio"`
	Address   *AddressPatch `json:"address"`
}

// AddressPatch is the address part of a ContactPatch.
type AddressPatch struct {
	LineOne *Text `json:"lineOne"`
	LineTwo *Text `json:"lineTwo"`
	City    *Text `json:"city"`
	State   *Text `json:"state"`
	Country *Text `json:"country"`
	ZipCode *Text `json:"zipCode"`
}

// Apply copies the supplied fields onto the contact. Address fields are merged one by one, so
// patching the city keeps the rest of the address. Values that are not text are skipped.
func (p *ContactPatch) Apply(c *Contact) {
	for _, f := range p.fields(c) {
		if f.src != nil && f.src.Valid() {
			*f.dst = f.src.Value
		}
	}
}

// CastFailures returns one error per supplied value that is not text, keyed by field path.
func (p *ContactPatch) CastFailures() map[string]*FieldError {
	var failures map[string]*FieldError
	for _, f := range p.fields(&Contact{}) {
		if fe := f.src.castFailure(f.path); fe != nil {
			if failures == nil {
				failures = make(map[string]*FieldError)
			}
			failures[f.path] = fe
		}
	}
	return failures
}

type patchField struct {
	path string
	src  *Text
	dst  *string
}

func (p *ContactPatch) fields(c *Contact) []patchField {
	fields := []patchField{
		{"firstName", p.FirstName, &c.FirstName},
		{"lastName", p.LastName, &c.LastName},
		{"gender", p.Gender, &c.Gender},
		{"email", p.Email, &c.Email},
		{"phone", p.Phone, &c.Phone},
		{"bio", p.Bio, &c.Bio},
	}
	if a := p.Address; a != nil {
		fields = append(fields,
			patchField{"address.lineOne", a.LineOne, &c.Address.LineOne},
			patchField{"address.lineTwo", a.LineTwo, &c.Address.LineTwo},
			patchField{"address.city", a.City, &c.Address.City},
			patchField{"address.state", a.State, &c.Address.State},
			patchField{"address.country", a.Country, &c.Address.Country},
			patchField{"address.zipCode", a.ZipCode, &c.Address.ZipCode},
		)
	}
	return fields
}
