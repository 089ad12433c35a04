package config

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

var ctx = context.Background()

func GetRedisDB() *redis.Client {
	return rdb
}

// GetRedisObject fills dest from the JSON snapshot stored under key.
// Returns false (not an error) when Redis is not configured or the key is missing,
// so callers can fall through to the in-memory cache or a fresh fetch.
func GetRedisObject(key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	err = json.Unmarshal([]byte(val), &dest)
	if err != nil {
		return false, err
	}
	return true, nil
}

func SetRedisObject(key string, obj interface{}, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	objInByte, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	if err = rdb.Set(ctx, key, objInByte, exp).Err(); err != nil {
		return err
	}
	return nil
}

func RemoveRedisKey(keys ...string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, keys...).Result()
	return err
}

func ClearRedis(ctx context.Context) error {
	if rdb == nil {
		return nil
	}
	cmd := rdb.FlushAll(ctx)
	return cmd.Err()
}

// ConnectRedis connects and sets the global Redis client. Redis is optional:
// when REDIS_ADDRESS is unset the sheet cache runs purely in-memory, so a
// missing or unreachable Redis never blocks startup.
func ConnectRedis() {
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		log.Printf("REDIS_ADDRESS not set; sheet cache will be in-memory only")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: "",
		DB:       0, // use default DB
		PoolSize: 100,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("failed to connect redis (addr=%s): %v; falling back to in-memory cache", redisAddr, err)
		return
	}
	rdb = client
	log.Printf("connected to redis (addr=%s)", redisAddr)
}
