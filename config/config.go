package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo config

// Init reads config.yml from the first matching search path. VIDTUBE_*
// environment variables override file values, e.g. VIDTUBE_MYSQL_PASSWORD.
// A missing file leaves the defaults below in place.
func Init(paths ...string) {
	wd, _ := os.Getwd()
	logrus.Infof("Current working directory: %s", wd)

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("config.yml")
	v.SetEnvPrefix("vidtube")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if len(paths) == 0 {
		paths = []string{"../../config", "./config", "../config", "."}
	}
	for _, path := range paths {
		v.AddConfigPath(path)
		absPath, _ := filepath.Abs(path)
		logrus.Debugf("Added config path: %s (absolute: %s)", path, absPath)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Warnf("config file not found, using defaults: %v", err)
		} else {
			logrus.Errorf("config error: %v", err)
		}
	} else {
		logrus.Infof("Successfully read config file: %s", v.ConfigFileUsed())
	}
	load(v)

	logrus.Infof("Config loaded - store: %s, MySQL: %s:%s@%s/%s",
		ConfigInfo.Server.Store, ConfigInfo.Mysql.Username, "***", ConfigInfo.Mysql.Addr, ConfigInfo.Mysql.Database)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8888")
	v.SetDefault("server.store", "mysql")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("mysql.charset", "utf8mb4")
	v.SetDefault("rabbitmq.email_queue", "email")
	v.SetDefault("elasticsearch.index", "videos")
	v.SetDefault("jaeger.service_name", "vidtube")
	v.SetDefault("jwt.access_ttl", "1h")
	v.SetDefault("jwt.refresh_ttl", "240h")
	v.SetDefault("sentinel.write_qps", 100)
}

// load copies values out by key; Unmarshal would miss env-only keys.
func load(v *viper.Viper) {
	ConfigInfo.Server.Addr = v.GetString("server.addr")
	ConfigInfo.Server.PprofAddr = v.GetString("server.pprof_addr")
	ConfigInfo.Server.Store = v.GetString("server.store")
	ConfigInfo.Server.CorsOrigins = v.GetStringSlice("server.cors_origins")
	ConfigInfo.Server.ResetURL = v.GetString("server.reset_url")

	ConfigInfo.Mysql.Addr = v.GetString("mysql.addr")
	ConfigInfo.Mysql.Database = v.GetString("mysql.database")
	ConfigInfo.Mysql.Username = v.GetString("mysql.username")
	ConfigInfo.Mysql.Password = v.GetString("mysql.password")
	ConfigInfo.Mysql.Charset = v.GetString("mysql.charset")
	ConfigInfo.Mysql.Params = v.GetString("mysql.params")

	ConfigInfo.Redis.Addr = v.GetString("redis.addr")
	ConfigInfo.Redis.Password = v.GetString("redis.password")
	ConfigInfo.Redis.DB = v.GetInt("redis.db")

	ConfigInfo.RabbitMq.Addr = v.GetString("rabbitmq.addr")
	ConfigInfo.RabbitMq.Username = v.GetString("rabbitmq.username")
	ConfigInfo.RabbitMq.Password = v.GetString("rabbitmq.password")
	ConfigInfo.RabbitMq.EmailQueue = v.GetString("rabbitmq.email_queue")

	ConfigInfo.Minio.Endpoint = v.GetString("minio.endpoint")
	ConfigInfo.Minio.AccessKey = v.GetString("minio.access_key")
	ConfigInfo.Minio.SecretKey = v.GetString("minio.secret_key")
	ConfigInfo.Minio.UseSSL = v.GetBool("minio.use_ssl")
	ConfigInfo.Minio.PublicURL = v.GetString("minio.public_url")

	ConfigInfo.Elasticsearch.Addr = v.GetString("elasticsearch.addr")
	ConfigInfo.Elasticsearch.Index = v.GetString("elasticsearch.index")

	ConfigInfo.Jaeger.Addr = v.GetString("jaeger.addr")
	ConfigInfo.Jaeger.ServiceName = v.GetString("jaeger.service_name")

	ConfigInfo.Jwt.Secret = v.GetString("jwt.secret")
	ConfigInfo.Jwt.AccessTTL = v.GetString("jwt.access_ttl")
	ConfigInfo.Jwt.RefreshTTL = v.GetString("jwt.refresh_ttl")

	ConfigInfo.Sentinel.WriteQPS = v.GetFloat64("sentinel.write_qps")
}

// MysqlDSN builds the go-sql-driver DSN for the configured database.
func MysqlDSN() string {
	m := ConfigInfo.Mysql
	dsn := m.Username + ":" + m.Password + "@tcp(" + m.Addr + ")/" + m.Database + "?charset=" + m.Charset + "&parseTime=True&loc=Local"
	if m.Params != "" {
		dsn += "&" + m.Params
	}
	return dsn
}
