package oss

import (
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicURL prefixes returned object URLs; defaults to the endpoint.
	PublicURL string
}

func New(opts Options) (*Client, error) {
	hlog.Infof("Initializing MinIO client with endpoint: %s, accessKey: %s", opts.Endpoint, opts.AccessKey)

	mc, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		hlog.Errorf("Failed to create MinIO client: %v", err)
		return nil, err
	}
	base := opts.PublicURL
	if base == "" {
		scheme := "http://"
		if opts.UseSSL {
			scheme = "https://"
		}
		base = scheme + opts.Endpoint
	}
	hlog.Info("Connect Minio Success")
	return &Client{mc: mc, base: base}, nil
}
