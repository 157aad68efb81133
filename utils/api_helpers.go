package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RespondJSON sends a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent at this point, nothing left but to log.
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

// RespondError sends a {success:false, message} JSON error response and
// records the message in the request log builder when one is provided.
func RespondError(w http.ResponseWriter, logger *strings.Builder, message string, status int) {
	if logger != nil {
		AddToLogMessage(logger, message)
	} else {
		fmt.Println("[Error]", message)
	}
	RespondJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

// AddToLogMessage appends one line to the per-request log accumulator.
func AddToLogMessage(logMessagesBuilder *strings.Builder, strToAdd string) {
	if logMessagesBuilder.Len() == logMessagesBuilder.Cap() {
		logMessagesBuilder.Grow(len(strToAdd))
	}
	logMessagesBuilder.WriteString(strToAdd)
	logMessagesBuilder.WriteString(";")
	logMessagesBuilder.WriteString("\n")
}

// LatencyMiddleware logs the duration of each request.
func LatencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		fmt.Printf("[LATENCY] %s %s - %v\n", r.Method, r.URL.Path, duration)
	})
}
