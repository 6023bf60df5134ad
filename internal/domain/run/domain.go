package run

import (
	"time"

	"github.com/NordCoder/Upwatch/internal/domain/check"
)

type ErrorKind string

const (
	ErrorKindTimeout ErrorKind = "timeout"
	ErrorKindNetwork ErrorKind = "error"
)

type ProbeError struct {
	Kind   ErrorKind `json:"kind"`
	Detail string    `json:"detail,omitempty"`
}

// Outcome is the unclassified result of one probe: a response code or an error.
type Outcome struct {
	ResponseCode int         `json:"response_code,omitempty"`
	Error        *ProbeError `json:"error,omitempty"`
}

func Response(code int) Outcome { return Outcome{ResponseCode: code} }

func Failure(kind ErrorKind, detail string) Outcome {
	return Outcome{Error: &ProbeError{Kind: kind, Detail: detail}}
}

func (o Outcome) Failed() bool { return o.Error != nil }

// Run is one audit log line. Check is the record as it was before the probe;
// Alert reports an SMS that actually went out, AlertWarranted the transition
// that called for it.
type Run struct {
	Check          check.Check `json:"check"`
	Outcome        Outcome     `json:"outcome"`
	State          check.State `json:"state"`
	AlertWarranted bool        `json:"alert_warranted"`
	Alert          bool        `json:"alert"`
	Timestamp      time.Time   `json:"time"`
}
