package internal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatusRule maps one HTTP status to an error kind and user-facing message
type StatusRule struct {
	Kind    ErrorKind
	Message string
}

// StatusTable is the per-operation contract between a status code and its outcome
type StatusTable struct {
	Op      string
	Success int
	Errors  map[int]StatusRule
}

// Check returns nil for the success code, the mapped error for listed codes
// and KindUnexpectedStatus for anything else
func (t StatusTable) Check(resp *Response) error {
	if resp.StatusCode == t.Success {
		return nil
	}
	if rule, ok := t.Errors[resp.StatusCode]; ok {
		return &HubError{
			Kind:       rule.Kind,
			Op:         t.Op,
			StatusCode: resp.StatusCode,
			Message:    withDetail(rule.Message, resp),
		}
	}
	return &HubError{
		Kind:       KindUnexpectedStatus,
		Op:         t.Op,
		StatusCode: resp.StatusCode,
		Message:    withDetail(fmt.Sprintf("Unexpected return value. Error: %d", resp.StatusCode), resp),
	}
}

// withDetail appends the "detail" field hub error bodies carry
func withDetail(message string, resp *Response) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if len(resp.Body) == 0 || json.Unmarshal(resp.Body, &body) != nil || body.Detail == nil {
		return message
	}
	var detail string
	switch d := body.Detail.(type) {
	case string:
		detail = d
	default:
		raw, err := json.Marshal(d)
		if err != nil {
			return message
		}
		detail = string(raw)
	}
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return message
	}
	if message == "" {
		return detail
	}
	return strings.TrimRight(message, " ") + " " + detail
}
