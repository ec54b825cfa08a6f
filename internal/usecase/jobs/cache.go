package jobs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"uphera/internal/infrastructure/cache"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	InvalidateJobs(ctx context.Context) error
}

type listCacheKeyInput struct {
	Location        string `json:"location"`
	JobType         string `json:"job_type"`
	ExperienceLevel string `json:"experience_level"`
	RemoteOnly      bool   `json:"remote_only"`
	Search          string `json:"search"`
	Limit           int    `json:"limit"`
	Offset          int    `json:"offset"`
}

func normalizeValue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ListCacheKey hashes the normalised parameters so that equivalent requests
// share one entry.
func ListCacheKey(p ListParams) string {
	in := listCacheKeyInput{
		Location:        normalizeValue(p.Location),
		JobType:         normalizeValue(p.JobType),
		ExperienceLevel: normalizeValue(p.ExperienceLevel),
		RemoteOnly:      p.RemoteOnly,
		Search:          normalizeValue(p.Search),
		Limit:           p.Limit,
		Offset:          p.Offset,
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return cache.JobListPrefix + hex.EncodeToString(sum[:])
}

func ListLockKey(listKey string) string {
	return cache.JobLockPrefix + strings.TrimPrefix(listKey, cache.JobListPrefix)
}
