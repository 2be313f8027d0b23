package logging

import "time"

// Field is one key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field             { return Field{key, value} }
func Int(key string, value int) Field            { return Field{key, value} }
func Float64(key string, value float64) Field    { return Field{key, value} }
func Bool(key string, value bool) Field          { return Field{key, value} }
func Any(key string, value any) Field            { return Field{key, value} }
func Duration(key string, d time.Duration) Field { return Field{key, d.String()} }

// Error records err under "error". A nil error is logged as null.
func Error(err error) Field {
	if err == nil {
		return Field{"error", nil}
	}
	return Field{"error", err.Error()}
}

func Component(name string) Field   { return String("component", name) }
func SiteID(id string) Field        { return String("site_id", id) }
func Path(p string) Field           { return String("path", p) }
func Count(n int) Field             { return Int("count", n) }
func Alpha(a float64) Field         { return Float64("alpha", a) }
func Latency(d time.Duration) Field { return Duration("latency", d) }
