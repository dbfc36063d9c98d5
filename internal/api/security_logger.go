package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"
)

// SecurityLogger handles security-conscious logging with no raw seed exposure
type SecurityLogger struct {
	logger *log.Logger
}

// NewSecurityLogger creates a new security logger
func NewSecurityLogger() *SecurityLogger {
	logger := log.New(os.Stdout, "[SECURITY] ", log.LstdFlags|log.LUTC)
	return &SecurityLogger{
		logger: logger,
	}
}

// LogSearchStart logs the start of a search with security-safe parameters
func (sl *SecurityLogger) LogSearchStart(
	requestID string,
	searchID string,
	filterID string,
	deck, stake string,
	threads, prefixLen, cutoff int,
) {
	sl.logger.Printf(
		"search_start request_id=%s search_id=%s filter_id=%s deck=%s stake=%s threads=%d prefix_len=%d cutoff=%d engine_version=%s timestamp=%s",
		requestID,
		searchID,
		filterID,
		deck,
		stake,
		threads,
		prefixLen,
		cutoff,
		EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogSearchStop logs a search being stopped
func (sl *SecurityLogger) LogSearchStop(requestID, searchID string) {
	sl.logger.Printf(
		"search_stop request_id=%s search_id=%s engine_version=%s timestamp=%s",
		requestID,
		searchID,
		EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogAnalyzeOperation logs a single-seed analysis, hashing the seed
func (sl *SecurityLogger) LogAnalyzeOperation(requestID, seed, deck, stake string) {
	sl.logger.Printf(
		"analyze_operation request_id=%s seed_hash=%s deck=%s stake=%s engine_version=%s timestamp=%s",
		requestID,
		sl.hashSeed(seed),
		deck,
		stake,
		EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogSecurityEvent logs security-related events (failed validations, suspicious activity)
func (sl *SecurityLogger) LogSecurityEvent(
	requestID string,
	eventType string,
	description string,
	context map[string]interface{},
	remoteAddr string,
) {
	sanitizedContext := sl.sanitizeContext(context)

	sl.logger.Printf(
		"security_event request_id=%s type=%s description=%q context=%+v remote_addr=%s engine_version=%s timestamp=%s",
		requestID,
		eventType,
		description,
		sanitizedContext,
		remoteAddr,
		EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogPerformanceMetrics logs throughput for a running or finished search
func (sl *SecurityLogger) LogPerformanceMetrics(
	searchID string,
	batchesCompleted, seedsEvaluated uint64,
	elapsed time.Duration,
) {
	var seedsPerSec float64
	if elapsed > 0 {
		seedsPerSec = float64(seedsEvaluated) / elapsed.Seconds()
	}
	sl.logger.Printf(
		"performance_metrics search_id=%s batches_completed=%d seeds_evaluated=%d elapsed=%v seeds_per_sec=%.0f engine_version=%s timestamp=%s",
		searchID,
		batchesCompleted,
		seedsEvaluated,
		elapsed,
		seedsPerSec,
		EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// hashSeed creates a SHA256 hash of a seed for logging (first 16 chars for brevity)
func (sl *SecurityLogger) hashSeed(seed string) string {
	if seed == "" {
		return "empty"
	}
	hash := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(hash[:])[:16]
}

// sanitizeContext removes sensitive data from context maps
func (sl *SecurityLogger) sanitizeContext(context map[string]interface{}) map[string]interface{} {
	if context == nil {
		return nil
	}

	sanitized := make(map[string]interface{})
	for key, value := range context {
		switch key {
		case "seed":
			if strVal, ok := value.(string); ok {
				sanitized["seed_hash"] = sl.hashSeed(strVal)
			} else {
				sanitized["seed_hash"] = fmt.Sprintf("non_string_value_%T", value)
			}
		case "filterText":
			sanitized[key] = "[OMITTED]"
		default:
			sanitized[key] = value
		}
	}

	return sanitized
}

// LogSystemStartup logs system startup information
func (sl *SecurityLogger) LogSystemStartup(addr string, config map[string]interface{}) {
	sanitizedConfig := sl.sanitizeContext(config)

	sl.logger.Printf(
		"system_startup addr=%s config=%+v engine_version=%s git_commit=%s build_time=%s timestamp=%s",
		addr,
		sanitizedConfig,
		EngineVersion,
		GitCommit,
		BuildTime,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogSystemShutdown logs system shutdown information
func (sl *SecurityLogger) LogSystemShutdown(reason string, uptime time.Duration) {
	sl.logger.Printf(
		"system_shutdown reason=%s uptime=%v engine_version=%s timestamp=%s",
		reason,
		uptime,
		EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}
