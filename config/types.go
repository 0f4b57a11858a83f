package config

type config struct {
	Server        server        `yaml:"server" mapstructure:"server"`
	Mysql         mysql         `yaml:"mysql" mapstructure:"mysql"`
	Redis         redis         `yaml:"redis" mapstructure:"redis"`
	RabbitMq      rabbitmq      `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Minio         minio         `yaml:"minio" mapstructure:"minio"`
	Elasticsearch elasticsearch `yaml:"elasticsearch" mapstructure:"elasticsearch"`
	Jaeger        jaeger        `yaml:"jaeger" mapstructure:"jaeger"`
	Jwt           jwt           `yaml:"jwt" mapstructure:"jwt"`
	Sentinel      sentinel      `yaml:"sentinel" mapstructure:"sentinel"`
}

type server struct {
	Addr      string `yaml:"addr"`
	PprofAddr string `yaml:"pprof_addr" mapstructure:"pprof_addr"`
	// Store selects the entity store: "mysql" or "memory".
	Store       string   `yaml:"store"`
	CorsOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	ResetURL    string   `yaml:"reset_url" mapstructure:"reset_url"`
}

type mysql struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Charset  string `yaml:"charset"`
	Params   string `yaml:"params"`
}

type redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type rabbitmq struct {
	Addr       string `yaml:"addr"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	EmailQueue string `yaml:"email_queue" mapstructure:"email_queue"`
}

type minio struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	PublicURL string `yaml:"public_url" mapstructure:"public_url"`
}

type elasticsearch struct {
	Addr  string `yaml:"addr"`
	Index string `yaml:"index"`
}

type jaeger struct {
	Addr        string `yaml:"addr"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

type jwt struct {
	Secret     string `yaml:"secret"`
	AccessTTL  string `yaml:"access_ttl" mapstructure:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl" mapstructure:"refresh_ttl"`
}

type sentinel struct {
	WriteQPS float64 `yaml:"write_qps" mapstructure:"write_qps"`
}
