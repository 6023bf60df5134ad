package monitor

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/NordCoder/Upwatch/internal/domain/check"
)

const (
	idLen      = 20
	phoneLen   = 10
	minTimeout = 1
	maxTimeout = 5
)

var (
	protocols = []string{"http", "https"}
	methods   = []string{"get", "post", "put", "delete"}
)

// Records written by the older CRUD service use camelCase keys, and spell
// success codes "sucessCodes".
var aliases = map[string][]string{
	"user_phone":      {"userPhone"},
	"success_codes":   {"successCodes", "sucessCodes"},
	"timeout_seconds": {"timeoutSeconds"},
	"last_checked":    {"lastChecked"},
}

// field returns raw[key], falling back to its legacy spellings.
func field(raw check.Raw, key string) any {
	if v, ok := raw[key]; ok {
		return v
	}
	for _, alt := range aliases[key] {
		if v, ok := raw[alt]; ok {
			return v
		}
	}
	return nil
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Validate turns a stored document into a Check. Records that fail any rule are
// rejected as a whole; state and last_checked fall back to defaults instead.
func Validate(raw check.Raw) (*check.Check, error) {
	if raw == nil {
		return nil, invalid("record", "missing")
	}

	id, ok := trimmedString(field(raw, "id"))
	if !ok || len(id) != idLen {
		return nil, invalid("id", fmt.Sprintf("must be a %d character string", idLen))
	}
	phone, ok := trimmedString(field(raw, "user_phone"))
	if !ok || len(phone) != phoneLen {
		return nil, invalid("user_phone", fmt.Sprintf("must be a %d character string", phoneLen))
	}
	protocol, ok := field(raw, "protocol").(string)
	if !ok || !slices.Contains(protocols, protocol) {
		return nil, invalid("protocol", "must be one of http, https")
	}
	target, ok := trimmedString(field(raw, "url"))
	if !ok || target == "" {
		return nil, invalid("url", "must be a non-empty string")
	}
	method, ok := field(raw, "method").(string)
	if !ok || !slices.Contains(methods, method) {
		return nil, invalid("method", "must be one of get, post, put, delete")
	}
	codes, err := successCodes(field(raw, "success_codes"))
	if err != nil {
		return nil, err
	}
	timeout, ok := asInt(field(raw, "timeout_seconds"))
	if !ok || timeout < minTimeout || timeout > maxTimeout {
		return nil, invalid("timeout_seconds", fmt.Sprintf("must be an integer between %d and %d", minTimeout, maxTimeout))
	}

	return &check.Check{
		ID:             id,
		UserPhone:      phone,
		Protocol:       protocol,
		URL:            target,
		Method:         method,
		SuccessCodes:   codes,
		TimeoutSeconds: timeout,
		State:          stateOrDefault(field(raw, "state")),
		LastChecked:    lastChecked(field(raw, "last_checked")),
	}, nil
}

func trimmedString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func successCodes(v any) ([]int, error) {
	items, ok := v.([]any)
	if !ok {
		if ints, ok := v.([]int); ok && len(ints) > 0 {
			return slices.Clone(ints), nil
		}
		return nil, invalid("success_codes", "must be a non-empty list")
	}
	if len(items) == 0 {
		return nil, invalid("success_codes", "must be a non-empty list")
	}
	codes := make([]int, 0, len(items))
	for _, it := range items {
		code, ok := asInt(it)
		if !ok {
			return nil, invalid("success_codes", fmt.Sprintf("%v is not an integer", it))
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// asInt accepts the numeric shapes a decoded document can carry; floats must be integral.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case interface{ Int64() (int64, error) }:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

func stateOrDefault(v any) check.State {
	s, _ := v.(string)
	switch st := check.State(s); st {
	case check.StateUp, check.StateDown:
		return st
	default:
		return check.StateDown
	}
}

// lastChecked reads an RFC3339 timestamp or a positive Unix-millisecond number.
func lastChecked(v any) *time.Time {
	switch t := v.(type) {
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return nil
		}
		ts = ts.UTC()
		return &ts
	case time.Time:
		if t.IsZero() {
			return nil
		}
		ts := t.UTC()
		return &ts
	default:
		ms, ok := asInt(v)
		if !ok || ms <= 0 {
			return nil
		}
		ts := time.UnixMilli(int64(ms)).UTC()
		return &ts
	}
}
