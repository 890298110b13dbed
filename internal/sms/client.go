// Package sms wraps the Africa's Talking bulk messaging API for
// single-recipient sends.
package sms

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/savannahlabs/orders-backend/internal/config"
)

type Client struct {
	Username string
	APIKey   string
	BaseURL  string
	Sender   string
	HTTP     *http.Client
	Log      *logrus.Logger
}

func NewClient(cfg config.SMSConfig, log *logrus.Logger) *Client {
	return &Client{
		Username: cfg.Username,
		APIKey:   cfg.APIKey,
		BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		Sender:   cfg.Sender,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		Log:      log,
	}
}

type recipient struct {
	Number    string `json:"number"`
	Status    string `json:"status"`
	Cost      string `json:"cost"`
	MessageID string `json:"messageId"`
}

type sendResponse struct {
	SMSMessageData struct {
		Message    string      `json:"Message"`
		Recipients []recipient `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// NormalizePhone converts a local Kenyan number to E.164-like form: a single
// leading 0 is stripped and +254 prefixed. Numbers already carrying a country
// code pass through unchanged.
func NormalizePhone(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+254" + strings.TrimPrefix(phone, "0")
}

// Send delivers message to a single recipient. It returns true only when the
// provider reports the recipient's status as Success. Transport and decode
// failures are logged and returned to the caller; a rejected recipient is
// logged and reported as false with no error.
func (c *Client) Send(phoneNumber, message string) (bool, error) {
	if phoneNumber == "" {
		return false, fmt.Errorf("phone number is required")
	}
	if message == "" {
		return false, fmt.Errorf("message is required")
	}

	phoneNumber = NormalizePhone(phoneNumber)

	form := url.Values{}
	form.Set("username", c.Username)
	form.Set("to", phoneNumber)
	form.Set("message", message)
	if c.Sender != "" {
		form.Set("from", c.Sender)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/version1/messaging", strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Errorf("error sending SMS: %v", err)
		return false, err
	}
	defer resp.Body.Close()

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.Log.Errorf("error decoding SMS response: %v", err)
		return false, err
	}

	if len(out.SMSMessageData.Recipients) == 0 {
		c.Log.Errorf("error sending SMS to %s: %s", phoneNumber, out.SMSMessageData.Message)
		return false, nil
	}

	r := out.SMSMessageData.Recipients[0]
	if r.Status != "Success" {
		c.Log.Errorf("error sending SMS to %s: %s", phoneNumber, r.Status)
		return false, nil
	}

	c.Log.Infof("SMS sent to %s successfully", phoneNumber)
	return true, nil
}
