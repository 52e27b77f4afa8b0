//go:build integration

package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"queendoctor/internal/auth"
	"queendoctor/internal/testutil"
	"queendoctor/pkg/config"
	"queendoctor/pkg/logger"
)

const patientEmail = "patient@example.com"

func newTestServer(t *testing.T) (*httptest.Server, *http.Client, primitive.ObjectID) {
	t.Helper()
	mongo := testutil.NewMongo(t)

	serviceID := primitive.NewObjectID()
	testutil.Insert(t, mongo, "services", bson.M{
		"_id":         serviceID,
		"title":       "Teeth Orthodontics",
		"img":         "https://example.com/teeth.png",
		"price":       200,
		"description": "not part of the summary",
	})

	cfg := config.FromEnv()
	cfg.MongoDatabaseName = mongo.Database.Name()
	cfg.TokenSecret = "integration-secret"
	cfg.Kafka.Brokers = nil
	cfg.Log = logger.Discard()

	serverApp := newApplication(cfg, mongo)
	server := httptest.NewServer(serverApp.Handler())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	httpClient := server.Client()
	httpClient.Jar = jar
	return server, httpClient, serviceID
}

func send(t *testing.T, c *http.Client, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestBookingLifecycle(t *testing.T) {
	server, c, serviceID := newTestServer(t)

	resp, body := send(t, c, http.MethodGet, server.URL+"/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "App is running...", string(body))

	resp, body = send(t, c, http.MethodGet, server.URL+"/services/"+serviceID.Hex(), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"_id":"`+serviceID.Hex()+`","title":"Teeth Orthodontics","img":"https://example.com/teeth.png","price":200}`, string(body))

	resp, _ = send(t, c, http.MethodGet, server.URL+"/bookings?email="+patientEmail, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = send(t, c, http.MethodPost, server.URL+"/jwt", `{"email":"`+patientEmail+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"success":true}`, string(body))

	resp, body = send(t, c, http.MethodPost, server.URL+"/bookings", `{"email":"`+patientEmail+`","service":"Teeth Orthodontics","price":200}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var inserted struct {
		Acknowledged bool   `json:"acknowledged"`
		InsertedID   string `json:"insertedId"`
	}
	require.NoError(t, json.Unmarshal(body, &inserted))
	assert.True(t, inserted.Acknowledged)
	require.Len(t, inserted.InsertedID, 24)

	resp, body = send(t, c, http.MethodGet, server.URL+"/bookings?email="+patientEmail, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var bookings []map[string]any
	require.NoError(t, json.Unmarshal(body, &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, inserted.InsertedID, bookings[0]["_id"])

	resp, _ = send(t, c, http.MethodGet, server.URL+"/bookings?email=someone@example.com", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = send(t, c, http.MethodPatch, server.URL+"/bookings/"+inserted.InsertedID, `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":1,"upsertedCount":0,"upsertedId":null}`, string(body))

	resp, body = send(t, c, http.MethodDelete, server.URL+"/bookings/"+inserted.InsertedID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, string(body))

	resp, body = send(t, c, http.MethodDelete, server.URL+"/bookings/"+inserted.InsertedID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":0}`, string(body))

	cookieURL, err := url.Parse(server.URL)
	require.NoError(t, err)
	var token string
	for _, cookie := range c.Jar.Cookies(cookieURL) {
		if cookie.Name == auth.CookieName {
			token = cookie.Value
		}
	}
	assert.NotEmpty(t, token)
}
