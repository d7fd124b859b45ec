package integrationtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	internalmodel "gitlab.com/dirk.krummacker/mini-crm/internal/model"
	"gitlab.com/dirk.krummacker/mini-crm/internal/service"
	"gitlab.com/dirk.krummacker/mini-crm/internal/store"
	"gitlab.com/dirk.krummacker/mini-crm/pkg/model"
	"go.uber.org/zap"
)

// setupRouter connects to the MongoDB given by MONGO_URI, using a fresh collection per test, and
// returns the router. The test is skipped when no database is configured.
func setupRouter(t *testing.T) *gin.Engine {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := store.Connect(ctx, uri)
	require.NoError(t, err)
	coll := client.Database("minicrm_test").Collection(fmt.Sprintf("contacts_%d", time.Now().UnixNano()))
	contactStore, err := store.OpenMongoStore(ctx, coll)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = coll.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	gin.SetMode(gin.TestMode)
	handler := service.NewHandler(contactStore, internalmodel.NewContactSchema(), zap.NewNop())
	return service.SetupHttpRouter(handler, service.RouterOptions{})
}

// serve executes the request against the router and returns the recorder.
func serve(router *gin.Engine, method string, url string, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(method, url, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)
	return recorder
}

func contactJSON(email string) string {
	return fmt.Sprintf(`
		{
			"firstName": "Erika",
			"lastName": "Mustermann",
			"gender": "female",
			"email": %q,
			"phone": "+49 0815 4711",
			"address": {
				"lineOne": "Hauptstrasse 1",
				"city": "Berlin",
				"country": "Germany",
				"zipCode": "10115"
			}
		}
	`, email)
}

// TestContactHappyPath tests a POST, GET, PUT, and DELETE with valid data.
func TestContactHappyPath(t *testing.T) {
	router := setupRouter(t)

	// an empty collection lists as an empty array
	listRecorder := serve(router, "GET", "/api/v1/contacts", "")
	assert.Equal(t, http.StatusOK, listRecorder.Code)
	assert.JSONEq(t, `{"contacts": []}`, listRecorder.Body.String())

	// test the endpoint for creating a contact
	postRecorder := serve(router, "POST", "/api/v1/contacts", contactJSON("erika@example.com"))
	require.Equal(t, http.StatusCreated, postRecorder.Code)
	var created model.ContactEnvelope
	require.NoError(t, json.Unmarshal(postRecorder.Body.Bytes(), &created))
	assert.Equal(t, "Contact successfully added!", created.Response)
	assert.Equal(t, "Erika", created.Contact.FirstName)
	require.Len(t, created.Contact.Id, 24)
	id := created.Contact.Id

	// test the endpoint for finding a contact
	getRecorder := serve(router, "GET", "/api/v1/contacts/"+id, "")
	assert.Equal(t, http.StatusOK, getRecorder.Code)
	var found model.ContactEnvelope
	require.NoError(t, json.Unmarshal(getRecorder.Body.Bytes(), &found))
	assert.Equal(t, created.Contact, found.Contact)

	// test the endpoint for updating a contact
	putRecorder := serve(router, "PUT", "/api/v1/contacts/"+id, `{"lastName": "Völler", "address": {"city": "Hamburg"}}`)
	assert.Equal(t, http.StatusAccepted, putRecorder.Code)
	var updated model.ContactEnvelope
	require.NoError(t, json.Unmarshal(putRecorder.Body.Bytes(), &updated))
	assert.Equal(t, "Contact updated!", updated.Message)
	assert.Equal(t, "Völler", updated.Contact.LastName)
	assert.Equal(t, "Hamburg", updated.Contact.Address.City)
	assert.Equal(t, "Hauptstrasse 1", updated.Contact.Address.LineOne)
	assert.Equal(t, created.Contact.CreatedAt, updated.Contact.CreatedAt)

	// test the endpoint for deleting a contact
	deleteRecorder := serve(router, "DELETE", "/api/v1/contacts/"+id, "")
	assert.Equal(t, http.StatusAccepted, deleteRecorder.Code)
	var deleted model.DeleteResult
	require.NoError(t, json.Unmarshal(deleteRecorder.Body.Bytes(), &deleted))
	assert.Equal(t, int64(1), deleted.Result.N)
	assert.Equal(t, 1, deleted.Result.Ok)

	// test if a final lookup and a second delete will correctly not find it
	assert.Equal(t, http.StatusNotFound, serve(router, "GET", "/api/v1/contacts/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, "DELETE", "/api/v1/contacts/"+id, "").Code)
}

// TestCreateContactDuplicateEmail relies on the unique index to reject the second contact.
func TestCreateContactDuplicateEmail(t *testing.T) {
	router := setupRouter(t)

	require.Equal(t, http.StatusCreated, serve(router, "POST", "/api/v1/contacts", contactJSON("dup@example.com")).Code)
	recorder := serve(router, "POST", "/api/v1/contacts", contactJSON("dup@example.com"))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var rejected model.ValidationErrors
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &rejected))
	assert.Equal(t, "unique", rejected.Errors["email"].Kind)
}

// TestUpdateContactInvalidGender expects an enum error with status 500.
func TestUpdateContactInvalidGender(t *testing.T) {
	router := setupRouter(t)

	postRecorder := serve(router, "POST", "/api/v1/contacts", contactJSON("gender@example.com"))
	require.Equal(t, http.StatusCreated, postRecorder.Code)
	var created model.ContactEnvelope
	require.NoError(t, json.Unmarshal(postRecorder.Body.Bytes(), &created))

	recorder := serve(router, "PUT", "/api/v1/contacts/"+created.Contact.Id, `{"gender": "Femme"}`)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	var rejected model.ValidationErrors
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &rejected))
	assert.Equal(t, "enum", rejected.Errors["gender"].Kind)
}

// TestFindContactInvalidId tests a GET with a malformed and with an unknown id.
func TestFindContactInvalidId(t *testing.T) {
	router := setupRouter(t)

	recorder := serve(router, "GET", "/api/v1/contacts/90", "")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	recorder = serve(router, "GET", "/api/v1/contacts/589e02e559f531603fe40322", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

// TestDeleteContactInvalidId tests a DELETE with a malformed id.
func TestDeleteContactInvalidId(t *testing.T) {
	router := setupRouter(t)

	recorder := serve(router, "DELETE", "/api/v1/contacts/90", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
