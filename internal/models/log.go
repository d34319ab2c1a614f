// Package models provides data structures shared across the dashboard.
package models

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"
)

// Level is the severity of a log record.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// LogRecord is the normalized unit of one parsed log line. Records are
// immutable once created; the log file itself is their durable store.
//
// Invariant: Message or Raw is non-empty.
type LogRecord struct {
	// Timestamp is an ISO-8601 string, defaulted to record time when the
	// source line carries none.
	Timestamp string `json:"timestamp"`
	Level     Level  `json:"level,omitempty"`
	Message   string `json:"message,omitempty"`
	// Source is the base name of the originating file.
	Source string `json:"source,omitempty"`
	// Raw holds the original unparsed line when the line was plain text or
	// failed to parse as JSON.
	Raw        string `json:"raw,omitempty"`
	ParseError bool   `json:"parseError,omitempty"`

	// Fields carries any extra keys from a structured JSON line. They are
	// flattened into the top-level JSON object on marshal; the named fields
	// above always win on key collision.
	Fields map[string]any `json:"-"`
}

// MarshalJSON flattens Fields into the top-level object.
func (r LogRecord) MarshalJSON() ([]byte, error) {
	type plain LogRecord
	if len(r.Fields) == 0 {
		return json.Marshal(plain(r))
	}

	out := make(map[string]any, len(r.Fields)+6)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["timestamp"] = r.Timestamp
	if r.Level != "" {
		out["level"] = r.Level
	}
	if r.Message != "" {
		out["message"] = r.Message
	}
	if r.Source != "" {
		out["source"] = r.Source
	}
	if r.Raw != "" {
		out["raw"] = r.Raw
	}
	if r.ParseError {
		out["parseError"] = true
	}
	return json.Marshal(out)
}

// EffectiveLevel returns the record's level, inferring one from its text
// when none was set. Defaults to info.
func (r LogRecord) EffectiveLevel() Level {
	if r.Level != "" {
		return r.Level
	}
	if r.Message != "" {
		return InferLevel(r.Message)
	}
	return InferLevel(r.Raw)
}

// InferLevel classifies free text by case-insensitive substring match.
// Keyword priority when several co-occur: error/fail, then warn, then
// debug, then info; anything else is info.
func InferLevel(text string) Level {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "error") || strings.Contains(lower, "fail"):
		return LevelError
	case strings.Contains(lower, "warn"):
		return LevelWarning
	case strings.Contains(lower, "debug"):
		return LevelDebug
	default:
		return LevelInfo
	}
}

// NormalizeLevel maps a level string from a structured line onto the
// canonical enumeration. Unknown values are reported as not ok so the
// caller can fall back to inference.
func NormalizeLevel(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarning, true
	case "err", "error", "fatal":
		return LevelError, true
	default:
		return "", false
	}
}

// ParseLine converts one complete line from a watched file into a LogRecord.
// source is the base name of the file the line came from; its extension
// selects the parsing rule: ".json" lines are parsed as standalone JSON
// objects, everything else is treated as plain text.
func ParseLine(line, source string, now time.Time) LogRecord {
	if strings.EqualFold(filepath.Ext(source), ".json") {
		return parseJSONLine(line, source, now)
	}
	return LogRecord{
		Timestamp: now.Format(time.RFC3339),
		Level:     InferLevel(line),
		Source:    source,
		Raw:       line,
	}
}

func parseJSONLine(line, source string, now time.Time) LogRecord {
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil || fields == nil {
		return LogRecord{
			Timestamp:  now.Format(time.RFC3339),
			Level:      InferLevel(line),
			Source:     source,
			Raw:        line,
			ParseError: true,
		}
	}

	rec := LogRecord{Source: source}

	if ts, ok := fields["timestamp"].(string); ok && ts != "" {
		rec.Timestamp = ts
	} else {
		rec.Timestamp = now.Format(time.RFC3339)
	}
	delete(fields, "timestamp")

	if msg, ok := fields["message"].(string); ok {
		rec.Message = msg
	}
	delete(fields, "message")

	if lvl, ok := fields["level"].(string); ok {
		if normalized, known := NormalizeLevel(lvl); known {
			rec.Level = normalized
		}
	}
	delete(fields, "level")
	delete(fields, "source")

	if rec.Level == "" {
		rec.Level = InferLevel(rec.Message)
	}
	if rec.Message == "" && len(fields) == 0 {
		// Nothing displayable survived parsing; keep the original line.
		rec.Raw = line
	}
	if len(fields) > 0 {
		rec.Fields = fields
	}
	return rec
}
