package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/pkg/logger"
	"github.com/zordinals/zord-indexer/pkg/logger/slogx"
	"github.com/zordinals/zord-indexer/pkg/middleware/requestcontext"
	"github.com/zordinals/zord-indexer/pkg/middleware/requestlogger"
)

const (
	DefaultApiPort = 8080
	DefaultDbPath  = "./data/index"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		Api: ApiServer{
			Port: DefaultApiPort,
		},
		Db: Database{
			Path: DefaultDbPath,
		},
		Network: common.NetworkMainnet,
	}
)

type Config struct {
	Logger  logger.Config  `mapstructure:"logger"`
	Rpc     RpcClient      `mapstructure:"rpc"`
	Api     ApiServer      `mapstructure:"api"`
	Db      Database       `mapstructure:"db"`
	Network common.Network `mapstructure:"network"`
	// StartHeight zero defers to the network's default.
	StartHeight uint64  `mapstructure:"start_height"`
	TipPush     TipPush `mapstructure:"tip_push"`
}

type RpcClient struct {
	Url      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ApiServer struct {
	Port      int                               `mapstructure:"port"`
	RequestIp requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
}

type Database struct {
	Path string `mapstructure:"path"`
}

type TipPush struct {
	Url string `mapstructure:"url"`
}

// Validate reports missing required fields. The node credentials have no
// usable defaults.
func (c Config) Validate() error {
	var errList []error
	if c.Rpc.Url == "" {
		errList = append(errList, errors.New("'rpc.url' is required (RPC_URL)"))
	}
	if c.Rpc.Username == "" {
		errList = append(errList, errors.New("'rpc.username' is required (RPC_USERNAME)"))
	}
	if c.Rpc.Password == "" {
		errList = append(errList, errors.New("'rpc.password' is required (RPC_PASSWORD)"))
	}
	if !c.Network.IsSupported() {
		errList = append(errList, errors.Errorf("unsupported network %q", c.Network))
	}
	return errors.Join(errList...)
}

// BindPFlag binds a command-line flag to a configuration key.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("failed to bind flag to config key", slogx.Error(err), slog.String("key", key))
	}
}

// Load loads the configuration from an optional config file and environment
// variables. Keys map to env vars with dots replaced by underscores,
// e.g. "rpc.url" reads RPC_URL.
func Load(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))
	configOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.SetDefault("logger.output", config.Logger.Output)
		viper.SetDefault("logger.debug", false)
		viper.SetDefault("rpc.url", "")
		viper.SetDefault("rpc.username", "")
		viper.SetDefault("rpc.password", "")
		viper.SetDefault("api.port", DefaultApiPort)
		viper.SetDefault("db.path", DefaultDbPath)
		viper.SetDefault("network", common.NetworkMainnet.String())
		viper.SetDefault("start_height", 0)
		viper.SetDefault("tip_push.url", "")

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.BindEnv("logger.debug", "VERBOSE_LOGS"); err != nil {
			logger.PanicContext(ctx, "failed to bind env", slogx.Error(err))
		}

		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(&config); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
		logger.InfoContext(ctx, "loaded config successfully")
	})

	return *config
}
