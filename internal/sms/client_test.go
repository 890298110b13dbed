package sms_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savannahlabs/orders-backend/internal/sms"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newClient(baseURL string) *sms.Client {
	return &sms.Client{
		Username: "sandbox",
		APIKey:   "test-key",
		BaseURL:  baseURL,
		HTTP:     http.DefaultClient,
		Log:      testLogger(),
	}
}

func providerResponse(status string) string {
	return `{
		"SMSMessageData": {
			"Message": "Sent to 1/1",
			"Recipients": [{"number": "+254722000001", "status": "` + status + `", "cost": "KES 0.80"}]
		}
	}`
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+254722000001", sms.NormalizePhone("0722000001"))
	assert.Equal(t, "+254722000001", sms.NormalizePhone("722000001"))
	assert.Equal(t, "+254722000001", sms.NormalizePhone("+254722000001"))
	assert.Equal(t, "+15551234567", sms.NormalizePhone("+15551234567"))
	// only a single leading zero is stripped
	assert.Equal(t, "+2540722000001", sms.NormalizePhone("00722000001"))
}

func TestSendRequiresPhoneAndMessage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := newClient(srv.URL)

	sent, err := c.Send("", "hello")
	assert.False(t, sent)
	assert.Error(t, err)

	sent, err = c.Send("0722000001", "")
	assert.False(t, sent)
	assert.Error(t, err)

	assert.Equal(t, 0, calls, "no network call should happen when preconditions fail")
}

func TestSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+254722000001", r.PostForm.Get("to"))
		assert.Equal(t, "sandbox", r.PostForm.Get("username"))
		assert.Equal(t, "test-key", r.Header.Get("apiKey"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, providerResponse("Success"))
	}))
	defer srv.Close()

	c := newClient(srv.URL)
	sent, err := c.Send("0722000001", "Your order has been received")
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestSendRejectedRecipient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, providerResponse("InsufficientBalance"))
	}))
	defer srv.Close()

	c := newClient(srv.URL)
	sent, err := c.Send("+254722000001", "hello")
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestSendNoRecipients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"SMSMessageData": {"Message": "InvalidSenderId", "Recipients": []}}`)
	}))
	defer srv.Close()

	c := newClient(srv.URL)
	sent, err := c.Send("+254722000001", "hello")
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newClient(url)
	sent, err := c.Send("+254722000001", "hello")
	assert.False(t, sent)
	assert.Error(t, err)
}

func TestSendMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	}))
	defer srv.Close()

	c := newClient(srv.URL)
	sent, err := c.Send("+254722000001", "hello")
	assert.False(t, sent)
	assert.Error(t, err)
}
