package httpapi

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("MODELBRIDGE_HTTP_LOG_LEVEL"))

// SetDefaultLogLevel overrides the per-request log level used when a request
// carries no override.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// logOp writes one line describing the end of an operation when the request
// level allows it. Errors are logged at LevelError and above, successes at
// LevelInfo and above.
func logOp(r *http.Request, lvl LogLevel, op string, status int, start time.Time, err error) {
	if lvl == LevelOff || (err == nil && lvl < LevelInfo) {
		return
	}
	dur := time.Since(start)
	if zlog != nil {
		z := zlog.Info()
		if err != nil {
			z = zlog.Error().Err(err)
		}
		z = z.Str("op", op).Int("status", status).Dur("dur", dur)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg(op + " end")
		return
	}
	if err != nil {
		log.Printf("%s end status=%d dur=%s err=%v", op, status, dur, err)
		return
	}
	log.Printf("%s end status=%d dur=%s", op, status, dur)
}
