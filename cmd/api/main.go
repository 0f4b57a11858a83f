package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/cors"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/api/router/authfunc"
	"vidtube.com/cmd/interaction/infras/redis"
	videoredis "vidtube.com/cmd/video/infras/redis"
	"vidtube.com/config"
	"vidtube.com/config/pprof"
	"vidtube.com/pkg/database"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/jwt"
	"vidtube.com/pkg/middleware"
	"vidtube.com/pkg/mq"
	"vidtube.com/pkg/oss"
	"vidtube.com/pkg/search"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/store/memstore"
	"vidtube.com/pkg/tracer"
	"vidtube.com/pkg/view"
)

var configPath string

type stopper func()

func (f stopper) Close() error {
	f()
	return nil
}

func main() {
	root := &cobra.Command{
		Use:   "vidtube",
		Short: "video sharing API server",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if configPath != "" {
				config.Init(configPath)
				return
			}
			config.Init()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "directory holding config.yml")
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "create or update the MySQL schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := database.Open(config.MysqlDSN())
				if err != nil {
					return err
				}
				if err = database.Migrate(db); err != nil {
					return err
				}
				logrus.Info("schema is up to date")
				return nil
			},
		},
	)
	if err := root.ExecuteContext(context.Background()); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

// noStorage stands in when object storage is not configured: uploads fail
// and there is never anything to remove.
type noStorage struct{}

func (noStorage) Upload(context.Context, string, string) (string, error) {
	return "", errno.ServiceErr.WithMessage("object storage is not configured")
}

func (noStorage) Remove(context.Context, string, string) error { return nil }

func openStore() (store.Store, error) {
	switch config.ConfigInfo.Server.Store {
	case "memory":
		logrus.Warn("using the in-memory store, data is lost on exit")
		return memstore.New(), nil
	case "mysql":
		db, err := database.Open(config.MysqlDSN())
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return database.NewStore(db)
	}
	return nil, errors.Errorf("unknown store %q", config.ConfigInfo.Server.Store)
}

// Init connects every configured backend and fills base.App. Backends left
// unconfigured stay nil and their features degrade.
func Init(ctx context.Context) ([]io.Closer, error) {
	cfg := config.ConfigInfo
	closers := []io.Closer{tracer.Init(cfg.Jaeger.ServiceName, cfg.Jaeger.Addr)}
	pprof.Load(cfg.Server.PprofAddr)

	s, err := openStore()
	if err != nil {
		return closers, err
	}
	deps := &base.Deps{Store: s, Uploader: noStorage{}, ResetURL: cfg.Server.ResetURL}

	if cfg.Redis.Addr != "" {
		client := redis.Load(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		closers = append(closers, client)
		deps.Locker = redis.NewLocker(client)
		deps.Searches = videoredis.NewTopSearches(client)
	}

	if cfg.Minio.Endpoint != "" {
		bucket, err := oss.New(oss.Options{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			PublicURL: cfg.Minio.PublicURL,
		})
		if err != nil {
			return closers, err
		}
		deps.Uploader = bucket
	}

	var searcher view.Searcher
	if cfg.Elasticsearch.Addr != "" {
		idx, err := search.New(ctx, cfg.Elasticsearch.Addr, cfg.Elasticsearch.Index)
		if err != nil {
			return closers, err
		}
		closers = append(closers, stopper(idx.Stop))
		searcher, deps.Index, deps.Suggest = idx, idx, idx
	}
	deps.Views = view.NewEngine(s, searcher)

	if cfg.RabbitMq.Addr != "" {
		url := fmt.Sprintf("amqp://%s:%s@%s/", cfg.RabbitMq.Username, cfg.RabbitMq.Password, cfg.RabbitMq.Addr)
		producer, err := mq.NewProducer(url, cfg.RabbitMq.EmailQueue)
		if err != nil {
			return closers, err
		}
		closers = append(closers, producer)
		deps.Mailer = producer
	}

	accessTTL, err := time.ParseDuration(cfg.Jwt.AccessTTL)
	if err != nil {
		return closers, errors.Wrap(err, "jwt.access_ttl")
	}
	refreshTTL, err := time.ParseDuration(cfg.Jwt.RefreshTTL)
	if err != nil {
		return closers, errors.Wrap(err, "jwt.refresh_ttl")
	}
	if deps.Tokens, err = jwt.New(cfg.Jwt.Secret, accessTTL, refreshTTL, authfunc.Unauthorized); err != nil {
		return closers, err
	}

	if err = middleware.InitFlow(cfg.Sentinel.WriteQPS); err != nil {
		return closers, err
	}
	base.App = deps
	return closers, nil
}

func serve(ctx context.Context) error {
	closers, err := Init(ctx)
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i].Close(); cerr != nil {
				hlog.Warnf("close: %v", cerr)
			}
		}
	}()
	if err != nil {
		return err
	}

	r := server.New(
		server.WithHostPorts(config.ConfigInfo.Server.Addr),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(1024*1024*1024),
	)

	// 配置 CORS
	origins := config.ConfigInfo.Server.CorsOrigins
	anyOrigin := lo.Contains(origins, "*")
	if anyOrigin {
		origins = nil
	}
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  anyOrigin,
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,      // 是否允许发送凭证
		MaxAge:           12 * 3600, // 预检请求的缓存时间
	}))

	// 错误处理
	r.Use(recovery.Recovery(recovery.WithRecoveryHandler(
		func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
			hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
			c.JSON(consts.StatusInternalServerError, map[string]interface{}{
				"code":    errno.ServiceErrCode,
				"message": fmt.Sprintf("[Recovery] err=%v", err),
			})
		})))

	// 注册路由
	register(r)

	r.Spin()
	return nil
}
