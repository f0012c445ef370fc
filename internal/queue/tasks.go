package queue

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/bean-boutique/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskStorageEvictIdle 闲置购物者存储清理任务
	TaskStorageEvictIdle = constants.TaskStorageEvictIdle
)

// StorageEvictIdlePayload 闲置清理任务载荷
type StorageEvictIdlePayload struct {
	BeforeUnix int64 `json:"before_unix"`
}

// Before 截止时间
func (p StorageEvictIdlePayload) Before() time.Time {
	return time.Unix(p.BeforeUnix, 0)
}

// NewStorageEvictIdleTask 创建闲置清理任务
func NewStorageEvictIdleTask(payload StorageEvictIdlePayload) (*asynq.Task, error) {
	if payload.BeforeUnix <= 0 {
		return nil, errors.New("before_unix must be positive")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStorageEvictIdle, body), nil
}

// ParseStorageEvictIdlePayload 解析闲置清理任务载荷
func ParseStorageEvictIdlePayload(body []byte) (StorageEvictIdlePayload, error) {
	var payload StorageEvictIdlePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	if payload.BeforeUnix <= 0 {
		return payload, errors.New("before_unix must be positive")
	}
	return payload, nil
}
