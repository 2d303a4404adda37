package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"flowershop_backend/config"
	"flowershop_backend/internal/mailer"
	"flowershop_backend/internal/payments"
	"flowershop_backend/internal/storage"
	"flowershop_backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"
)

const webhookSecret = "whsec_test"

type testApp struct {
	app   *fiber.App
	queue *mailer.MemoryQueue
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithSecret(t, webhookSecret)
}

func newTestAppWithSecret(t *testing.T, secret string) *testApp {
	t.Helper()

	disk, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)
	queue := mailer.NewMemoryQueue(64)
	t.Cleanup(func() { _ = queue.Close() })

	cfg := &config.Config{
		AppEnv:               "test",
		JWTSecret:            "test-secret",
		JWTExpirationSeconds: 3600,
		ResetTokenTTLMinutes: 30,
		MaxUploadBytes:       1 << 20,
		CORSAllowOrigins:     "*",
	}
	app := New(Options{
		Config:   cfg,
		DB:       testutil.SeededDB(t),
		Logger:   zerolog.Nop(),
		Payments: payments.NewStripe(payments.Config{WebhookSecret: secret, Currency: "usd"}),
		Notifier: mailer.New(queue),
		Disk:     disk,
	})
	return &testApp{app: app, queue: queue}
}

func (ta *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ta.send(t, req)
}

func (ta *testApp) send(t *testing.T, req *http.Request) (int, map[string]interface{}) {
	t.Helper()

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (ta *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	status, body := ta.do(t, fiber.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, fiber.StatusOK, status)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", body)
	return d
}

func TestLoginAndCreateChildCategory(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t, "john", "test")

	status, body := ta.do(t, fiber.MethodPost, "/categories", token, map[string]interface{}{
		"name":        "roses",
		"description": "Long stemmed roses",
		"parentId":    1,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	created := data(t, body)
	assert.EqualValues(t, 1, created["parent_id"])

	id := strconv.Itoa(int(created["id"].(float64)))
	status, body = ta.do(t, fiber.MethodGet, "/categories/"+id, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	parent, ok := data(t, body)["parent"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, parent["id"])

	status, body = ta.do(t, fiber.MethodPost, "/categories", token, map[string]interface{}{
		"name":        "garden roses",
		"description": "snake case parent key",
		"parent_id":   2,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.EqualValues(t, 2, data(t, body)["parent_id"])

	status, body = ta.do(t, fiber.MethodPost, "/categories", token, map[string]interface{}{
		"name":        "wild roses",
		"description": "no parent",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Nil(t, data(t, body)["parent"])
	assert.Nil(t, data(t, body)["parent_id"])
}

func TestWrongPasswordIsUnauthorized(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, fiber.MethodPost, "/auth/login", "", map[string]string{
		"username": "john",
		"password": "nope",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["message"])
}

func TestGuards(t *testing.T) {
	ta := newTestApp(t)

	status, _ := ta.do(t, fiber.MethodGet, "/cart", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = ta.do(t, fiber.MethodGet, "/cart", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	user := ta.login(t, "david", "cake")
	status, body := ta.do(t, fiber.MethodPost, "/categories", user, map[string]interface{}{
		"name":        "tulips",
		"description": "Spring tulips",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Forbidden resource", body["message"])

	status, _ = ta.do(t, fiber.MethodGet, "/users", user, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	moderator := ta.login(t, "alice", "guess")
	status, _ = ta.do(t, fiber.MethodGet, "/users", moderator, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	admin := ta.login(t, "john", "test")
	status, _ = ta.do(t, fiber.MethodGet, "/users", admin, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestPublicRoutes(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	status, _ = ta.do(t, fiber.MethodGet, "/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = ta.do(t, fiber.MethodGet, "/products?limit=2&sortBy=price:ASC", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	items := body["data"].([]interface{})
	require.Len(t, items, 2)
	assert.EqualValues(t, 40, items[0].(map[string]interface{})["price"])
	meta := body["meta"].(map[string]interface{})
	assert.EqualValues(t, 4, meta["total"])
	assert.EqualValues(t, 2, meta["total_pages"])
}

func TestUnknownRoute(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, fiber.MethodGet, "/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Cannot GET /nope", body["message"])
}

func TestValidationErrors(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t, "john", "test")

	status, _ := ta.do(t, fiber.MethodGet, "/categories/abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := ta.do(t, fiber.MethodPost, "/categories", token, map[string]interface{}{"name": "no description"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Description should not be empty", body["message"])
	details := body["error"].(map[string]interface{})["errors"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, "Description", details[0].(map[string]interface{})["field"])

	status, body = ta.do(t, fiber.MethodPost, "/categories", token, map[string]interface{}{
		"name":        "orphan",
		"description": "parent does not exist",
		"parent_id":   999,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Nonexistent parent category", body["message"])
}

func TestDeleteCategoryWithChildrenFails(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t, "john", "test")

	status, _ := ta.do(t, fiber.MethodDelete, "/categories/1", token, nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)

	status, _ = ta.do(t, fiber.MethodGet, "/categories/1", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func signedEvent(t *testing.T, eventType string, orderID string) ([]byte, string) {
	t.Helper()
	return signedEventWith(t, webhookSecret, eventType, orderID)
}

func signedEventWith(t *testing.T, secret, eventType, orderID string) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":     "evt_test",
		"object": "event",
		"type":   eventType,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       "pi_test",
				"object":   "payment_intent",
				"metadata": map[string]string{payments.MetadataOrderID: orderID},
			},
		},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return signed.Payload, signed.Header
}

func TestCheckoutAndWebhook(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t, "david", "cake")

	status, body := ta.do(t, fiber.MethodPost, "/cart/1", token, nil)
	require.Equal(t, fiber.StatusCreated, status, body)

	status, body = ta.do(t, fiber.MethodPost, "/orders", token, map[string]string{"address": "1 Garden Lane"})
	require.Equal(t, fiber.StatusCreated, status, body)
	order := data(t, body)
	assert.Equal(t, "open", order["status"])
	assert.Equal(t, "created", order["payment_status"])
	assert.NotEmpty(t, order["client_secret"])
	orderID := strconv.Itoa(int(order["id"].(float64)))

	status, body = ta.do(t, fiber.MethodGet, "/cart", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["data"])

	payload, header := signedEvent(t, payments.EventSucceeded, orderID)
	req := httptest.NewRequest(fiber.MethodPost, "/payments/webhooks", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", header)
	status, body = ta.send(t, req)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "Record successfully updated with Payment Status succeeded", body["message"])

	status, body = ta.do(t, fiber.MethodGet, "/orders/"+orderID, token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "succeeded", data(t, body)["payment_status"])

	payload, header = signedEvent(t, payments.EventFailed, orderID)
	req = httptest.NewRequest(fiber.MethodPost, "/orders/stripe/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)
	status, body = ta.send(t, req)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "success", body["message"])

	// Staff may read any order.
	moderator := ta.login(t, "alice", "guess")
	status, body = ta.do(t, fiber.MethodGet, "/orders/"+orderID, moderator, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "failed", data(t, body)["payment_status"])
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	ta := newTestApp(t)

	payload, _ := signedEvent(t, payments.EventSucceeded, "1")
	req := httptest.NewRequest(fiber.MethodPost, "/orders/stripe/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	status, _ := ta.send(t, req)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestRegisterAndProfile(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, fiber.MethodPost, "/auth/register", "", map[string]string{
		"username": "erin",
		"email":    "erin@example.com",
		"password": "petals",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	user := data(t, body)
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password")

	token := ta.login(t, "erin", "petals")
	status, body = ta.do(t, fiber.MethodGet, "/auth/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "erin@example.com", data(t, body)["email"])
}

func TestUploadAndServeFile(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t, "alice", "guess")
	content := []byte("\x89PNG fake image bytes")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "rose.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/files", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	status, body := ta.send(t, req)
	require.Equal(t, fiber.StatusCreated, status, body)
	file := data(t, body)
	assert.Equal(t, "image/png", file["mime_type"])
	path := file["path"].(string)

	resp, err := ta.app.Test(httptest.NewRequest(fiber.MethodGet, "/files/"+path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, served)

	status, _ = ta.do(t, fiber.MethodGet, "/files/missing.png", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestWebhookRejectedWithoutSecret(t *testing.T) {
	ta := newTestAppWithSecret(t, "")
	token := ta.login(t, "david", "cake")

	status, body := ta.do(t, fiber.MethodPost, "/cart/1", token, nil)
	require.Equal(t, fiber.StatusCreated, status, body)
	status, body = ta.do(t, fiber.MethodPost, "/orders", token, map[string]string{"address": "1 Garden Lane"})
	require.Equal(t, fiber.StatusCreated, status, body)
	orderID := strconv.Itoa(int(data(t, body)["id"].(float64)))

	for _, path := range []string{"/payments/webhooks", "/orders/stripe/webhook"} {
		payload, header := signedEventWith(t, "", payments.EventSucceeded, orderID)
		req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Stripe-Signature", header)
		status, _ := ta.send(t, req)
		assert.Equal(t, fiber.StatusBadRequest, status, path)
	}

	status, body = ta.do(t, fiber.MethodGet, "/orders/"+orderID, token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "created", data(t, body)["payment_status"])
}
