package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TestPaperKey returns the cache key for a test's sanitized paper payload.
func (r *CacheKeyStruct) TestPaperKey(testID string) string {
	return fmt.Sprintf("test:%s:paper", testID)
}

// TestAnswerKey returns the cache key for a test's answer key hash.
func (r *CacheKeyStruct) TestAnswerKey(testID string) string {
	return fmt.Sprintf("test:%s:key", testID)
}

// TestLeaderboardKey returns the cache key for a test's leaderboard.
func (r *CacheKeyStruct) TestLeaderboardKey(testID string) string {
	return fmt.Sprintf("leaderboard:test:%s", testID)
}

// TestDetailedLeaderboardKey returns the cache key for a test's detailed leaderboard.
func (r *CacheKeyStruct) TestDetailedLeaderboardKey(testID string) string {
	return fmt.Sprintf("leaderboard:test:%s:detailed", testID)
}

// OverallLeaderboardKey returns the cache key for the cross-test leaderboard.
func (r *CacheKeyStruct) OverallLeaderboardKey() string {
	return "leaderboard:overall"
}

// LeaderboardChannel returns the Redis PubSub channel for live leaderboard updates.
func (r *CacheKeyStruct) LeaderboardChannel(testID string) string {
	return fmt.Sprintf("leaderboard:test:%s:live", testID)
}

var CacheKey = NewCacheKeyStruct()
