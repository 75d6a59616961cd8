package counter

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prismify-app/prismify/app/repository"
	"github.com/prismify-app/prismify/internal/pkg/cache"
)

const (
	generationsKey = "model:counters:generations"
	creditsKey     = "model:counters:credits"
)

// AddGeneration increments the pending usage counters for a model in Redis.
// The counters are drained to the model_stats table by FlushAll.
func AddGeneration(model string, credits int64) error {
	ctx := context.Background()
	rdb := cache.GetClient()
	if err := rdb.HIncrBy(ctx, generationsKey, model, 1).Err(); err != nil {
		return err
	}
	return rdb.HIncrBy(ctx, creditsKey, model, credits).Err()
}

// FlushAll drains the pending counters into the model_stats aggregates.
func FlushAll(stats repository.ModelStatRepository) error {
	generations, err := drainHash(generationsKey)
	if err != nil {
		return err
	}
	credits, err := drainHash(creditsKey)
	if err != nil {
		return err
	}
	if len(generations) == 0 && len(credits) == 0 {
		return nil
	}

	models := make(map[string]struct{}, len(generations)+len(credits))
	for m := range generations {
		models[m] = struct{}{}
	}
	for m := range credits {
		models[m] = struct{}{}
	}

	names := make([]string, 0, len(models))
	for m := range models {
		names = append(names, m)
	}
	sort.Strings(names)

	for _, m := range names {
		if err := stats.IncrementUsage(m, generations[m], credits[m]); err != nil {
			return fmt.Errorf("failed to flush counters for model %s: %w", m, err)
		}
	}
	return nil
}

// drainHash atomically moves a Redis hash to a temporary key and reads it.
// Uses RENAME so in-flight increments land in the next flush window.
func drainHash(redisKey string) (map[string]int64, error) {
	ctx := context.Background()
	rdb := cache.GetClient()

	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", redisKey, tmpKey).Err(); err != nil {
		// Missing key means nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") || err.Error() == "redis: nil" {
			return nil, nil
		}
		return nil, err
	}
	defer rdb.Del(ctx, tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(data))
	for model, v := range data {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil || n == 0 {
			continue
		}
		out[model] = n
	}
	return out, nil
}
