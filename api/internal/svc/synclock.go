package svc

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	syncLockKey = "knowledge_sync:lock"
	syncLockTTL = 10 * time.Minute
)

// 同步互斥：同一时刻只允许一次索引同步在跑
type SyncLock interface {
	//TryLock 拿到锁返回释放函数，拿不到返回ok=false
	TryLock(ctx context.Context) (release func(), ok bool)
}

// Redis实现，多副本部署用。锁带TTL，进程崩溃后自动过期。
type RedisSyncLock struct {
	rdb *redis.Client
}

func NewRedisSyncLock(addr, password string) *RedisSyncLock {
	return &RedisSyncLock{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (l *RedisSyncLock) TryLock(ctx context.Context) (func(), bool) {
	ok, err := l.rdb.SetNX(ctx, syncLockKey, "1", syncLockTTL).Result()
	if err != nil {
		logx.WithContext(ctx).Errorf("获取同步锁失败: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return func() {
		if err := l.rdb.Del(context.Background(), syncLockKey).Err(); err != nil {
			logx.Errorf("释放同步锁失败: %v", err)
		}
	}, true
}

// 单进程部署的进程内实现
type LocalSyncLock struct {
	mu sync.Mutex
}

func NewLocalSyncLock() *LocalSyncLock {
	return &LocalSyncLock{}
}

func (l *LocalSyncLock) TryLock(ctx context.Context) (func(), bool) {
	if !l.mu.TryLock() {
		return nil, false
	}
	return l.mu.Unlock, true
}
