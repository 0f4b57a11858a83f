package oss

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"

	"vidtube.com/pkg/utils"
)

// MinIO默认区域
const location = "us-east-1"

// Client uploads files to MinIO and hands back public URLs.
type Client struct {
	mc   *minio.Client
	base string

	mu    sync.Mutex
	ready map[string]bool
}

// Upload stores a local file in bucket under a content-addressed name.
func (c *Client) Upload(ctx context.Context, bucket, localPath string) (string, error) {
	if err := c.ensureBucket(ctx, bucket); err != nil {
		return "", err
	}
	object, err := utils.ObjectName(bucket, localPath)
	if err != nil {
		return "", fmt.Errorf("name object: %w", err)
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err = c.mc.FPutObject(ctx, bucket, object, localPath, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("put %s/%s: %w", bucket, object, err)
	}
	return ObjectURL(c.base, bucket, object), nil
}

// Remove deletes the object a previous Upload returned url for. URLs that
// do not point into bucket are ignored.
func (c *Client) Remove(ctx context.Context, bucket, url string) error {
	object, ok := ObjectFromURL(c.base, bucket, url)
	if !ok {
		hlog.CtxWarnf(ctx, "not a %s object url: %s", bucket, url)
		return nil
	}
	return c.mc.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{})
}

// 检查存储桶是否存在，不存在则创建
func (c *Client) ensureBucket(ctx context.Context, bucket string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready[bucket] {
		return nil
	}
	exists, err := c.mc.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket error: %w", err)
	}
	if !exists {
		if err = c.mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: location}); err != nil {
			return fmt.Errorf("create bucket error: %w", err)
		}
	}
	if c.ready == nil {
		c.ready = map[string]bool{}
	}
	c.ready[bucket] = true
	return nil
}

func ObjectURL(base, bucket, object string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + object
}

func ObjectFromURL(base, bucket, url string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/" + bucket + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
