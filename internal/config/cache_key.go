package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamPaperKey returns the cache key for an exam's student-facing paper
// (questions without correct options).
func (r *CacheKeyStruct) ExamPaperKey(examID string) string {
	return fmt.Sprintf("exam:%s:paper", examID)
}

// ExamStatsKey returns the cache key for an exam's aggregate statistics.
func (r *CacheKeyStruct) ExamStatsKey(examID string) string {
	return fmt.Sprintf("exam:%s:stats", examID)
}

// ExamMonitorChannel returns the Redis PubSub channel name for an exam monitor.
func (r *CacheKeyStruct) ExamMonitorChannel(examID string) string {
	return fmt.Sprintf("exam:%s:monitor", examID)
}

var CacheKey = NewCacheKeyStruct()
