package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/mini-crm/internal/model"
	"gitlab.com/dirk.krummacker/mini-crm/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	msgContactAdded   = "Contact successfully added!"
	msgContactUpdated = "Contact updated!"
	msgContactDeleted = "Contact successfully deleted!"
	msgNotFound       = "Contact not found!"
	msgWelcome        = "Welcome to our Mini CRM!"
)

// ContactStore is the persistence backend used by the handler.
type ContactStore interface {
	List(ctx context.Context) ([]model.Contact, error)
	Insert(ctx context.Context, contact *model.Contact) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Contact, error)
	Replace(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// Handler implements the contact endpoints on top of a store and a validation schema.
type Handler struct {
	store  ContactStore
	schema *model.Schema
	log    *zap.Logger
	now    func() time.Time
}

// NewHandler returns a handler. The schema is shared between requests and must not be modified.
func NewHandler(contactStore ContactStore, schema *model.Schema, log *zap.Logger) *Handler {
	return &Handler{
		store:  contactStore,
		schema: schema,
		log:    log,
		now:    time.Now,
	}
}

// errorBody is the JSON rendering of a backend failure or an unreadable request body.
type errorBody struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// welcome greets clients on the root path.
//
// Example REST API call:
//
//	> curl http://localhost:8080/
func (h *Handler) welcome(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"message": msgWelcome})
}

// findContacts responds with the list of all contacts as JSON.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/contacts
func (h *Handler) findContacts(c *gin.Context) {
	contacts, err := h.store.List(c.Request.Context())
	if err != nil {
		h.backendFailure(c, "list", "", err)
		return
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	c.IndentedJSON(http.StatusOK, gin.H{"contacts": contacts})
}

// createContact validates the contact specified in the request's JSON and inserts it into the
// database. It responds with the full contact data including the newly assigned id and creation
// time. Ids and creation times in the request body are ignored.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"firstName": "Hans", "lastName": "Wurst", "email": "hans@wurst.de", "phone": "0815", "address": {"lineOne": "Hauptstr. 1", "city": "Bonn", "country": "Germany", "zipCode": "53111"}}'
func (h *Handler) createContact(c *gin.Context) {
	var patch model.ContactPatch
	if err := bindPatch(c, &patch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": invalidJSON(err)})
		return
	}

	var newContact model.Contact
	patch.Apply(&newContact)
	if err := h.schema.Validate(&newContact, patch.CastFailures()); err != nil {
		h.rejectContact(c, http.StatusBadRequest, err)
		return
	}

	newContact.Id = primitive.NewObjectID()
	// createdAt is stored with millisecond precision.
	newContact.CreatedAt = h.now().UTC().Truncate(time.Millisecond)
	err := h.store.Insert(c.Request.Context(), &newContact)
	var dupErr *store.DuplicateKeyError
	if errors.As(err, &dupErr) {
		h.rejectContact(c, http.StatusBadRequest, h.schema.UniqueViolation(dupErr.Field, dupErr.Value))
		return
	}
	if err != nil {
		h.backendFailure(c, "create", "", err)
		return
	}
	c.IndentedJSON(http.StatusCreated, gin.H{
		"response": msgContactAdded,
		"contact":  newContact,
	})
}

// findContactByID locates the contact whose ID value matches the id parameter of the request URL,
// then returns that contact as a response. A malformed id is answered with status 500.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/contacts/589e02e559f531603fe40322
func (h *Handler) findContactByID(c *gin.Context) {
	rawID := c.Param("id")
	id, err := model.ParseID(rawID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err})
		return
	}

	contact, err := h.store.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": msgNotFound, "id": rawID})
		return
	}
	if err != nil {
		h.backendFailure(c, "get", rawID, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"contact": contact})
}

// updateContactByID loads the contact whose ID value matches the id parameter of the request URL,
// overwrites the values specified in the JSON (and only those), validates the result, stores it,
// and finally responds with the new version of the contact. Validation failures are answered with
// status 500, a malformed id with status 400.
//
// Example REST API calls:
//
//	> curl http://localhost:8080/api/v1/contacts/589e02e559f531603fe40322 --request "PUT" --include --header "Content-Type: application/json" --data '{"phone": "81970"}'
//	> curl http://localhost:8080/api/v1/contacts/589e02e559f531603fe40322 --request "PUT" --include --header "Content-Type: application/json" --data '{"address": {"city": "Köln"}}'
func (h *Handler) updateContactByID(c *gin.Context) {
	rawID := c.Param("id")
	id, err := model.ParseID(rawID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, err)
		return
	}

	contact, err := h.store.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": msgNotFound, "id": rawID})
		return
	}
	if err != nil {
		h.backendFailure(c, "update", rawID, err)
		return
	}

	var patch model.ContactPatch
	if err := bindPatch(c, &patch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": invalidJSON(err)})
		return
	}
	patch.Apply(contact)
	if err := h.schema.Validate(contact, patch.CastFailures()); err != nil {
		h.rejectContact(c, http.StatusInternalServerError, err)
		return
	}

	err = h.store.Replace(c.Request.Context(), contact)
	var dupErr *store.DuplicateKeyError
	switch {
	case errors.As(err, &dupErr):
		h.rejectContact(c, http.StatusInternalServerError, h.schema.UniqueViolation(dupErr.Field, dupErr.Value))
	case errors.Is(err, store.ErrNotFound):
		// deleted between lookup and write
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": msgNotFound, "id": rawID})
	case err != nil:
		h.backendFailure(c, "update", rawID, err)
	default:
		c.IndentedJSON(http.StatusAccepted, gin.H{
			"message": msgContactUpdated,
			"contact": contact,
		})
	}
}

// deleteContactByID deletes the contact whose ID value matches the id parameter of the request URL
// from the database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/contacts/589e02e559f531603fe40322 --request "DELETE"
func (h *Handler) deleteContactByID(c *gin.Context) {
	rawID := c.Param("id")
	id, err := model.ParseID(rawID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, err)
		return
	}

	deleted, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		h.backendFailure(c, "delete", rawID, err)
		return
	}
	if deleted == 0 {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": msgNotFound, "id": rawID})
		return
	}
	c.IndentedJSON(http.StatusAccepted, gin.H{
		"response": msgContactDeleted,
		"result":   gin.H{"n": deleted, "ok": 1},
	})
}

// rejectContact answers a failed schema check. Any other error is treated as a backend failure.
func (h *Handler) rejectContact(c *gin.Context, status int, err error) {
	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) {
		h.backendFailure(c, "validate", c.Param("id"), err)
		return
	}
	if status == http.StatusBadRequest {
		c.AbortWithStatusJSON(status, gin.H{"errors": validationErr.Errors})
		return
	}
	c.AbortWithStatusJSON(status, validationErr)
}

func (h *Handler) backendFailure(c *gin.Context, op string, id string, err error) {
	h.log.Error("store operation failed",
		zap.String("operation", op),
		zap.String("id", id),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": errorBody{Name: "StoreError", Message: err.Error()},
	})
}

// bindPatch reads the request body. An empty body counts as an empty object.
func bindPatch(c *gin.Context, patch *model.ContactPatch) error {
	err := c.ShouldBindJSON(patch)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// invalidJSON names the reason why a request body could not be read.
func invalidJSON(err error) errorBody {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return errorBody{Name: "TypeError", Message: err.Error()}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errorBody{Name: "SyntaxError", Message: "unexpected end of JSON input"}
	default:
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return errorBody{Name: "SyntaxError", Message: err.Error()}
		}
		return errorBody{Name: "BadRequestError", Message: err.Error()}
	}
}
