package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding the active session JTI of a user.
func (r *CacheKeyStruct) UserSessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

// ExamResultsChannel returns the Redis PubSub channel carrying submissions of an exam.
func (r *CacheKeyStruct) ExamResultsChannel(examID int64) string {
	return fmt.Sprintf("exam:%d:results", examID)
}

var CacheKey = NewCacheKeyStruct()
