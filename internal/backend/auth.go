package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// RequestCode posts { email } to _/code.
func (h *HTTP) RequestCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	return h.client.Send(ctx, http.MethodPost, h.endpoints.Auth.Code, map[string]string{"email": email}, nil)
}

// Verify posts { email, code } to _/verify. The credential may come back in a
// response header or anywhere in the JSON body.
func (h *HTTP) Verify(ctx context.Context, email, code string) (Credentials, error) {
	body, err := json.Marshal(map[string]string{
		"email": strings.TrimSpace(email),
		"code":  strings.TrimSpace(code),
	})
	if err != nil {
		return Credentials{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.client.URL(h.endpoints.Auth.Verify), strings.NewReader(string(body)))
	if err != nil {
		return Credentials{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, */*")

	resp, err := h.client.Do(req)
	if err != nil {
		return Credentials{}, err
	}
	defer resp.Body.Close()

	creds := parseCredentials(resp.Body, resp.Header.Get("Content-Type"))
	if creds.Credential == "" {
		creds.Credential = findCredentialInHeaders(resp.Header)
	}
	if creds.Credential == "" {
		return Credentials{}, errors.New("verify succeeded but returned no credential")
	}
	if creds.Profile.Email == "" {
		creds.Profile.Email = strings.TrimSpace(email)
	}
	return creds, nil
}

// Logout calls GET _/logout with the session credential.
func (h *HTTP) Logout(ctx context.Context) error {
	defer h.storeIdentity(nil)
	return h.client.Send(ctx, http.MethodGet, h.endpoints.Auth.Logout, nil, nil)
}

// parseCredentials extracts the credential and profile from a verify response.
// It supports JSON bodies (nested or flat) and plain text bodies holding only
// the credential.
func parseCredentials(r io.Reader, contentType string) Credentials {
	lowerCT := strings.ToLower(contentType)
	if strings.Contains(lowerCT, "application/json") || strings.Contains(lowerCT, "+json") || contentType == "" {
		var anyBody any
		if err := json.NewDecoder(r).Decode(&anyBody); err == nil {
			var creds Credentials
			walkJSON(anyBody, &creds.Credential)
			if m, ok := anyBody.(map[string]any); ok {
				creds.Profile = profileFromJSON(m)
			}
			return creds
		}
		return Credentials{}
	}

	b, _ := io.ReadAll(r)
	token := strings.TrimSpace(string(b))
	if unescaped, err := url.QueryUnescape(token); err == nil {
		token = unescaped
	}
	return Credentials{Credential: token}
}

// walkJSON recursively searches a JSON structure for the credential.
// It handles the common field naming conventions.
func walkJSON(node any, credential *string) {
	if *credential != "" {
		return
	}

	switch v := node.(type) {
	case map[string]any:
		for k, vv := range v {
			lk := strings.ToLower(strings.ReplaceAll(k, "_", ""))
			if s, ok := vv.(string); ok {
				val := strings.TrimSpace(s)
				switch lk {
				case "login", "token", "accesstoken", "credential":
					*credential = val
				case "authorization":
					if t := parseBearerToken(val); t != "" {
						*credential = t
					}
				}
			}
			if *credential == "" {
				walkJSON(vv, credential)
			}
		}
	case []any:
		for _, e := range v {
			if *credential == "" {
				walkJSON(e, credential)
			}
		}
	}
}
