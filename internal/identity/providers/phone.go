package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"peoplehub/internal/identity/models"
	"peoplehub/internal/platform/config"
	dErrors "peoplehub/pkg/domain-errors"
)

// PhoneVerifier checks a one-time-code assertion with the phone provider.
type PhoneVerifier struct {
	cfg        config.PhoneConfig
	httpClient *http.Client
}

func NewPhoneVerifier(cfg config.PhoneConfig, httpClient *http.Client) *PhoneVerifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &PhoneVerifier{cfg: cfg, httpClient: httpClient}
}

// Verify posts {proof} and expects {sub, phone_number}.
func (v *PhoneVerifier) Verify(ctx context.Context, proof string) (models.PhoneIdentity, error) {
	if v.cfg.VerifyURL == "" {
		return models.PhoneIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "phone sign-in is not configured")
	}
	body, err := json.Marshal(map[string]string{"proof": proof})
	if err != nil {
		return models.PhoneIdentity{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode phone proof")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.VerifyURL, bytes.NewReader(body))
	if err != nil {
		return models.PhoneIdentity{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build phone verify request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if v.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.cfg.APIKey)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return models.PhoneIdentity{}, dErrors.Wrap(err, dErrors.CodeInternal, "phone verify request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.PhoneIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "phone proof was rejected")
	}

	var payload struct {
		Sub         string `json:"sub"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.PhoneIdentity{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "malformed phone verify response")
	}
	payload.Sub = strings.TrimSpace(payload.Sub)
	payload.PhoneNumber = strings.TrimSpace(payload.PhoneNumber)
	if payload.Sub == "" || payload.PhoneNumber == "" {
		return models.PhoneIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "phone verify response missing fields")
	}
	return models.PhoneIdentity{Phone: payload.PhoneNumber, Subject: payload.Sub}, nil
}
