package service

import (
	"context"
	"fmt"
	"time"

	"desitasty_backend/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventDeduper 记录已成功处理的回调事件ID
// 状态机的条件更新已经保证了至多一次落库，这里只是快路径：
// 确认过的重复投递可以不碰数据库直接应答
type EventDeduper interface {
	// Seen 查询事件ID是否已处理完成
	Seen(ctx context.Context, eventID string) (bool, error)
	// Mark 在事务提交之后标记事件ID
	// 崩溃时宁可漏标（重投会多走一次条件更新），也不能把未落库的事件标成已处理
	Mark(ctx context.Context, eventID string)
}

type redisDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDeduper(rdb *redis.Client) EventDeduper {
	// Razorpay 的重投窗口以小时计，24小时足够覆盖
	return &redisDeduper{rdb: rdb, ttl: 24 * time.Hour}
}

func (d *redisDeduper) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, dedupKey(eventID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *redisDeduper) Mark(ctx context.Context, eventID string) {
	if err := d.rdb.Set(ctx, dedupKey(eventID), 1, d.ttl).Err(); err != nil {
		// 标记失败只影响快路径，下次重投由条件更新兜底
		logger.Log.Warn("failed to mark webhook event", zap.String("event_id", eventID), zap.Error(err))
	}
}

func dedupKey(eventID string) string {
	return fmt.Sprintf("webhook:event:%s", eventID)
}
