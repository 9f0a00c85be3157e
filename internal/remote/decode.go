package remote

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/HendryAvila/clarify/internal/dialogue"
	"github.com/HendryAvila/clarify/internal/projectmem"
)

// object is a response body decoded one level deep. Every accessor treats a
// missing or mistyped field as empty instead of failing.
type object map[string]json.RawMessage

func parseObject(body []byte) (object, error) {
	var obj object
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		obj = object{}
	}
	return obj, nil
}

func (o object) str(field string) string {
	raw, ok := o[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// list returns the elements of an array field. Anything but an array
// yields nil.
func (o object) list(field string) []object {
	raw, ok := o[field]
	if !ok {
		return nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := make([]object, 0, len(elems))
	for _, e := range elems {
		var obj object
		if err := json.Unmarshal(e, &obj); err != nil || obj == nil {
			continue
		}
		out = append(out, obj)
	}
	return out
}

func (o object) stringList(field string) []string {
	raw, ok := o[field]
	if !ok {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func (o object) number(field string) float64 {
	raw, ok := o[field]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	return f
}

func (o object) mapping(field string) map[string]any {
	raw, ok := o[field]
	if !ok {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// text renders a field as a string. Strings come back unquoted, any other
// JSON value as its compact encoding.
func (o object) text(field string) string {
	raw, ok := o[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if buf.String() == "null" {
		return ""
	}
	return buf.String()
}

// ─── Typed views ─────────────────────────────────────────────────────────────

func findingsOf(o object) []ambiguity.Finding {
	elems := o.list("ambiguities")
	out := make([]ambiguity.Finding, 0, len(elems))
	for _, e := range elems {
		out = append(out, ambiguity.Finding{
			Category: ambiguity.Category(e.str("category")),
			Message:  e.str("message"),
			Score:    e.number("score"),
		})
	}
	return out
}

func summaryOf(o object) []ambiguity.SummaryItem {
	elems := o.list("summary")
	out := make([]ambiguity.SummaryItem, 0, len(elems))
	for _, e := range elems {
		out = append(out, ambiguity.SummaryItem{
			Category: ambiguity.Category(e.str("category")),
			Message:  e.str("message"),
			Count:    int(e.number("count")),
		})
	}
	return out
}

func turnsOf(o object, field string) []dialogue.Turn {
	elems := o.list(field)
	out := make([]dialogue.Turn, 0, len(elems))
	for _, e := range elems {
		out = append(out, dialogue.Turn{
			Role:      dialogue.Role(e.str("role")),
			Content:   e.str("content"),
			Artifacts: e.mapping("artifacts"),
		})
	}
	return out
}

func updatesOf(o object) []map[string]any {
	raw, ok := o["memory_updates"]
	if !ok {
		return []map[string]any{}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(elems))
	for _, e := range elems {
		var m map[string]any
		if err := json.Unmarshal(e, &m); err == nil && m != nil {
			out = append(out, m)
		}
	}
	return out
}

func entriesOf(o object) []projectmem.Entry {
	elems := o.list("items")
	out := make([]projectmem.Entry, 0, len(elems))
	for _, e := range elems {
		out = append(out, projectmem.Entry{Key: e.text("key"), Value: e.text("value")})
	}
	return out
}

// errorMessage pulls a human readable message out of an error body. It
// understands {"message": ...} and {"detail": ...} bodies and falls back to
// the raw text.
func errorMessage(body []byte) string {
	if obj, err := parseObject(body); err == nil {
		if msg := obj.str("message"); msg != "" {
			if detail := obj.str("detail"); detail != "" {
				return msg + ": " + detail
			}
			return msg
		}
		if detail := obj.text("detail"); detail != "" {
			return detail
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorText {
		cut := maxErrorText
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}

// maxErrorText bounds how much of a raw error body ends up in an Error.
const maxErrorText = 200
