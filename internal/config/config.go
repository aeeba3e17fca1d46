package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/maxion-tech/marketplace-indexer/common"
	"github.com/maxion-tech/marketplace-indexer/internal/postgres"
	"github.com/maxion-tech/marketplace-indexer/pkg/logger"
	"github.com/maxion-tech/marketplace-indexer/pkg/logger/slogx"
	"github.com/maxion-tech/marketplace-indexer/pkg/middleware/requestcontext"
	"github.com/maxion-tech/marketplace-indexer/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "text",
		},
		Network: common.NetworkMaxiMainnet,
		HTTPServer: HTTPServer{
			Port: 8080,
		},
	}
)

type Config struct {
	Logger        logger.Config  `mapstructure:"logger"`
	Network       common.Network `mapstructure:"network"`
	EVMNode       EVMNodeClient  `mapstructure:"evm_node"`
	APIOnly       bool           `mapstructure:"api_only"`
	EnableModules string         `mapstructure:"enable_modules"`
	HTTPServer    HTTPServer     `mapstructure:"http_server"`
	Modules       Modules        `mapstructure:"modules"`
}

// EVMNodeClient is the JSON-RPC endpoint of the chain node the indexer
// reads marketplace contract logs from.
type EVMNodeClient struct {
	URL string `mapstructure:"url"`
}

type HTTPServer struct {
	Port      int                               `mapstructure:"port"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
}

type Modules struct {
	Marketplace   MarketplaceModule `mapstructure:"marketplace"`
	MarketplaceV2 MarketplaceModule `mapstructure:"marketplace_v2"`
}

// MarketplaceModule is the per-network deployment configuration of one
// marketplace contract version.
type MarketplaceModule struct {
	Postgres        postgres.Config         `mapstructure:"postgres"`
	ContractAddress string                  `mapstructure:"contract_address"`
	StartBlock      int64                   `mapstructure:"start_block"`
	Strategy        common.IndexingStrategy `mapstructure:"strategy"`
}

// BindPFlag binds a configuration key to a command-line flag.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("failed to bind flag to config", slogx.String("key", key), slogx.Error(err))
	}
}

// Parse loads the configuration from the given file (or ./config.yaml if
// empty) and environment variables. Subsequent calls return the cached value.
func Parse(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))
	configOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
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

		if config.Modules.Marketplace.Strategy == "" {
			config.Modules.Marketplace.Strategy = common.StrategyProjection
		}
		if config.Modules.MarketplaceV2.Strategy == "" {
			config.Modules.MarketplaceV2.Strategy = common.StrategyProjection
		}
	})

	return *config
}

// Load returns the parsed configuration.
func Load() Config {
	return Parse("")
}
