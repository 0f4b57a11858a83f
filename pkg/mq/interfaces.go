package mq

import "context"

// JobPublisher 消息生产者接口
type JobPublisher interface {
	PublishEmail(ctx context.Context, job *EmailJob) error
}

var _ JobPublisher = (*Producer)(nil)
