package check

import "time"

const Collection = "checks"

type State string

const (
	StateUp   State = "up"
	StateDown State = "down"
)

// Raw is a check document as decoded from storage, before validation.
type Raw map[string]any

type Check struct {
	ID             string     `json:"id"`
	UserPhone      string     `json:"user_phone"`
	Protocol       string     `json:"protocol"`
	URL            string     `json:"url"`
	Method         string     `json:"method"`
	SuccessCodes   []int      `json:"success_codes"`
	TimeoutSeconds int        `json:"timeout_seconds"`
	State          State      `json:"state"`
	LastChecked    *time.Time `json:"last_checked,omitempty"`
}

// Target is the probed endpoint in "<protocol>://<url>" form.
func (c *Check) Target() string {
	return c.Protocol + "://" + c.URL
}

func (c *Check) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
