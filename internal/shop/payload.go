package shop

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errUnexpectedPayload = errors.New("unexpected payload")

// envelope is the common backend answer. Fields the backend did not send stay nil.
type envelope struct {
	Success *bool  `json:"success"`
	Added   *bool  `json:"added"`
	Count   *int   `json:"count"`
	Message string `json:"message"`
	// authRequired is set when the backend answered with a bare login_required marker.
	authRequired bool
}

func (e envelope) ok() bool {
	return e.Success != nil && *e.Success
}

// decodeEnvelope accepts the JSON envelope as well as the bare markers some
// controllers answer with: "added", "removed", "login_required", "error" and plain counts.
func decodeEnvelope(raw []byte) (envelope, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return envelope{}, errUnexpectedPayload
	}
	switch raw[0] {
	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return envelope{}, err
		}
		env.Message = strings.TrimSpace(env.Message)
		return env, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return envelope{}, err
		}
		return bareMarker(s)
	default:
		return bareMarker(string(raw))
	}
}

func bareMarker(s string) (envelope, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	yes, no := true, false
	switch s {
	case "added":
		return envelope{Success: &yes, Added: &yes}, nil
	case "removed":
		return envelope{Success: &yes, Added: &no}, nil
	case "login_required":
		return envelope{Success: &no, authRequired: true}, nil
	case "error":
		return envelope{Success: &no}, nil
	case "true", "success", "ok":
		return envelope{Success: &yes}, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return envelope{Success: &yes, Count: &n}, nil
	}
	return envelope{}, errUnexpectedPayload
}

// flexString decodes a JSON string or number into its textual form.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// messageFrom extracts a backend message from an error body, if it is an envelope.
func messageFrom(raw []byte) string {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return ""
	}
	return env.Message
}
