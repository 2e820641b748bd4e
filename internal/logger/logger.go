package logger

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Sink receives every log line in addition to stderr. The bot installs
// itself as a sink to mirror logs into a Telegram channel.
type Sink interface {
	Write(message string) error
}

var (
	mu      sync.RWMutex
	sink    Sink
	verbose bool
)

func SetSink(s Sink) {
	mu.Lock()
	defer mu.Unlock()
	sink = s
}

// SetVerbose enables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

func Info(message string) {
	sendLog("ℹ️ INFO", message)
}

func Error(message string) {
	sendLog("❌ ERROR", message)
}

func Debug(message string) {
	mu.RLock()
	v := verbose
	mu.RUnlock()
	if v {
		sendLog("🔍 DEBUG", message)
	}
}

func Success(message string) {
	sendLog("✅ SUCCESS", message)
}

func sendLog(prefix, message string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	fmt.Fprintln(os.Stderr, logMessage)

	mu.RLock()
	s := sink
	mu.RUnlock()
	if s == nil {
		return
	}

	go func() {
		if err := s.Write(logMessage); err != nil {
			fmt.Fprintf(os.Stderr, "failed to forward log to sink: %v\nlog was: %s\n", err, logMessage)
		}
	}()
}
