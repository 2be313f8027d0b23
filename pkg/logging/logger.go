// Package logging writes structured, one-object-per-line JSON logs.
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is the structured logger every package accepts.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// sink is shared by a logger and everything derived from it through With.
type sink struct {
	mu    sync.Mutex
	out   io.Writer
	level atomic.Int32
	now   func() time.Time
}

// JSONLogger emits entries as flat JSON objects: "ts", "level" and "msg"
// first, then the fields in the order they were attached.
type JSONLogger struct {
	sink   *sink
	fields []Field
}

func NewJSONLogger(out io.Writer, level Level) *JSONLogger {
	s := &sink{out: out, now: time.Now}
	s.level.Store(int32(level))
	return &JSONLogger{sink: s}
}

// SetLevel changes the threshold for this logger and every logger derived
// from it.
func (l *JSONLogger) SetLevel(level Level) { l.sink.level.Store(int32(level)) }

func (l *JSONLogger) Level() Level { return Level(l.sink.level.Load()) }

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.write(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.write(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.write(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.write(ErrorLevel, msg, fields) }

func (l *JSONLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &JSONLogger{sink: l.sink, fields: merged}
}

func (l *JSONLogger) write(level Level, msg string, fields []Field) {
	if level < l.Level() {
		return
	}
	line := encodeEntry(l.sink.now(), level, msg, l.fields, fields)

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = l.sink.out.Write(line)
}

// encodeEntry renders one log line. A repeated key keeps its first position
// and its last value; keys that clash with the envelope get a "field." prefix.
func encodeEntry(ts time.Time, level Level, msg string, groups ...[]Field) []byte {
	var keys []string
	values := make(map[string]any)
	for _, group := range groups {
		for _, f := range group {
			key := f.Key
			switch key {
			case "ts", "level", "msg":
				key = "field." + key
			}
			if _, ok := values[key]; !ok {
				keys = append(keys, key)
			}
			values[key] = f.Value
		}
	}

	var buf bytes.Buffer
	buf.WriteString(`{"ts":`)
	writeValue(&buf, ts.UTC().Format(time.RFC3339Nano))
	buf.WriteString(`,"level":`)
	writeValue(&buf, level.String())
	buf.WriteString(`,"msg":`)
	writeValue(&buf, msg)
	for _, key := range keys {
		buf.WriteByte(',')
		writeValue(&buf, key)
		buf.WriteByte(':')
		writeValue(&buf, values[key])
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

// writeValue falls back to the value's fmt form for anything JSON rejects,
// such as NaN.
func writeValue(buf *bytes.Buffer, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(fmt.Sprint(v))
	}
	buf.Write(b)
}

// NopLogger discards everything.
type NopLogger struct{}

func NewNopLogger() NopLogger { return NopLogger{} }

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}

func (n NopLogger) With(...Field) Logger { return n }

// OrNop returns l, or a NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}

// Timer logs how long an operation took when it ends.
type Timer struct {
	logger Logger
	msg    string
	fields []Field
	start  time.Time
}

func StartTimer(logger Logger, msg string, fields ...Field) *Timer {
	return &Timer{logger: OrNop(logger), msg: msg, fields: fields, start: time.Now()}
}

// End logs the message at debug level with a "latency" field and returns
// the elapsed time.
func (t *Timer) End(fields ...Field) time.Duration {
	elapsed := time.Since(t.start)
	all := make([]Field, 0, len(t.fields)+len(fields)+1)
	all = append(all, t.fields...)
	all = append(all, fields...)
	all = append(all, Latency(elapsed))
	t.logger.Debug(t.msg, all...)
	return elapsed
}
