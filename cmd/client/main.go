package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"gitlab.com/dirk.krummacker/mini-crm/pkg/model"
)

const serverPort = 8080

// Usage example on the command line:
// > go run main.go
func main() {
	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{1000, 5000, 10000, 50000, 100000}
	updateBody := []byte(`{"phone": "+39 999 777 556", "address": {"city": "Roma"}}`)
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)
		ids := make([]string, 0, loops)
		{
			// POST requests
			var duration int64
			for i := 0; i < loops; i++ {
				id, d := sendPostRequest(newContactBody())
				ids = append(ids, id)
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PUT requests
			f := func(id string) int64 {
				return sendPutGetDeleteRequest(id, http.MethodPut, bytes.NewReader(updateBody))
			}
			callInLoop(ids, f)
		}
		{
			// GET requests
			f := func(id string) int64 {
				return sendPutGetDeleteRequest(id, http.MethodGet, nil)
			}
			callInLoop(ids, f)
		}
		{
			// DELETE requests
			f := func(id string) int64 {
				return sendPutGetDeleteRequest(id, http.MethodDelete, nil)
			}
			callInLoop(ids, f)
		}
		fmt.Println()
	}
}

// newContactBody returns a valid contact with an email address that is unique for this run.
func newContactBody() io.Reader {
	contact := model.Contact{
		FirstName: "Marcus",
		LastName:  "Antonius",
		Gender:    "male",
		Email:     fmt.Sprintf("marcus.%d.%d@example.com", time.Now().UnixNano(), rand.Int63()),
		Phone:     "+39 999 777 555",
		Address: &model.Address{
			LineOne: "Via Appia 1",
			City:    "Roma",
			Country: "Italy",
			ZipCode: "00178",
		},
	}
	body, err := json.Marshal(contact)
	if err != nil {
		panic(err)
	}
	return bytes.NewReader(body)
}

func callInLoop(ids []string, f func(id string) int64) {
	shuffled := append([]string(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var duration int64
	for _, id := range shuffled {
		duration += f(id)
	}
	fmt.Printf("%10d", duration/int64(len(ids)*1000))
}

func sendPostRequest(bodyReader io.Reader) (string, int64) {
	requestURL := fmt.Sprintf("http://localhost:%d/api/v1/contacts", serverPort)
	resBody, duration := sendRequest(http.MethodPost, requestURL, bodyReader)
	var envelope model.ContactEnvelope
	err := json.Unmarshal(resBody, &envelope)
	if err != nil || envelope.Contact.Id == "" {
		fmt.Println("could not read created contact", err, string(resBody))
		panic(err)
	}
	return envelope.Contact.Id, duration
}

func sendPutGetDeleteRequest(id string, method string, bodyReader io.Reader) int64 {
	requestURL := fmt.Sprintf("http://localhost:%d/api/v1/contacts/%s", serverPort, id)
	_, duration := sendRequest(method, requestURL, bodyReader)
	return duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, after - before
}
