package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// AnalysisProviderConfig 定义了文档分析服务的配置。
type AnalysisProviderConfig struct {
	Name   string `yaml:"name"`   // 提供商名称 (例如: "textract")
	Region string `yaml:"region"` // 服务所在区域
}

// InsightProviderConfig 定义了文本洞察服务的配置。
type InsightProviderConfig struct {
	Name         string `yaml:"name"`         // 提供商名称 (例如: "comprehend")
	Region       string `yaml:"region"`       // 服务所在区域
	LanguageCode string `yaml:"languageCode"` // 检测使用的语言代码 (例如: "en")
}

// ProviderConfig 包含所有外部能力提供商的配置。
type ProviderConfig struct {
	Analysis AnalysisProviderConfig `yaml:"analysis"` // 文档分析提供商
	Insight  InsightProviderConfig  `yaml:"insight"`  // 文本洞察提供商
}

// AnalysisConfig 定义了结构解析阶段的参数。
type AnalysisConfig struct {
	ConfidenceThreshold float64 `yaml:"confidenceThreshold"` // 置信度过滤阈值 [0,100]
	PollInterval        string  `yaml:"pollInterval"`        // 作业轮询间隔 (例如: "2s")
	MaxPollAttempts     int     `yaml:"maxPollAttempts"`     // 作业轮询最大次数
}

// InsightConfig 定义了洞察富化阶段的参数。
type InsightConfig struct {
	MaxTextBytes    int `yaml:"maxTextBytes"`    // 提交给洞察服务的单次文本上限
	TopKeyPhrases   int `yaml:"topKeyPhrases"`   // 保留的关键短语数量
	PoolConcurrency int `yaml:"poolConcurrency"` // 并发处理的文本池数量上限
}

// RateLimiterConfig 定义了限流器的配置。
type RateLimiterConfig struct {
	Enabled        bool                 `yaml:"enabled"`
	Algorithm      string               `yaml:"algorithm"` // 支持: "tokenBucket", "slidingCounter"
	TokenBucket    TokenBucketConfig    `yaml:"tokenBucket"`
	SlidingCounter SlidingCounterConfig `yaml:"slidingCounter"`
}

// TokenBucketConfig 定义了令牌桶算法的配置。
type TokenBucketConfig struct {
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// SlidingCounterConfig 定义了滑动窗口计数器算法的配置。
type SlidingCounterConfig struct {
	Limit      int    `yaml:"limit"`
	Window     string `yaml:"window"` // 例如: "1m", "30s"
	NumBuckets int    `yaml:"numBuckets"`
}

// CircuitBreakerConfig 定义了熔断器的配置。
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // 例如: "30s"
}

// MiddlewareConfig 包含包裹外部能力调用的中间件配置。
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// MongoConfig 定义了 MongoDB 数据库的连接配置。
type MongoConfig struct {
	Address    string `yaml:"address"`    // MongoDB 服务器地址
	Username   string `yaml:"username"`   // 用户名
	Password   string `yaml:"password"`   // 密码
	Database   string `yaml:"database"`   // 数据库名称
	Collection string `yaml:"collection"` // 文档记录集合名称
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`      // Kafka Broker 地址列表
	RequestTopic string   `yaml:"requestTopic"` // 分析请求主题
	ResultTopic  string   `yaml:"resultTopic"`  // 处理结果主题
	GroupID      string   `yaml:"groupID"`      // 消费者组
}

// DatabaseConfigs 包含所有数据库的配置。
type DatabaseConfigs struct {
	MongoDB MongoConfig `yaml:"mongodb"` // MongoDB 数据库配置
	Kafka   KafkaConfig `yaml:"kafka"`   // Kafka 消息队列配置
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`        // 应用程序信息
	Logger     LoggerConfig     `yaml:"logger"`     // 日志记录器配置
	Provider   ProviderConfig   `yaml:"provider"`   // 外部能力提供商配置
	Analysis   AnalysisConfig   `yaml:"analysis"`   // 结构解析配置
	Insight    InsightConfig    `yaml:"insight"`    // 洞察富化配置
	Middleware MiddlewareConfig `yaml:"middleware"` // 中间件配置
	Databases  DatabaseConfigs  `yaml:"databases"`  // 数据库配置
}

// PollIntervalDuration 解析轮询间隔，无效或缺失时退回默认的 2 秒。
func (c AnalysisConfig) PollIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件。
//
// 参数:
//
//	path: YAML 配置文件的路径。
//
// 返回值:
//
//	*AppConfig: 解析后的应用程序配置结构体。
//	error: 如果文件读取或解析失败，则返回错误。
func LoadConfig(path string) (*AppConfig, error) {
	// 读取 YAML 文件内容。
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig
	// 将 YAML 内容解析到 cfg 结构体中。
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults 为缺失的关键参数补上与上游服务约定一致的默认值。
func applyDefaults(cfg *AppConfig) {
	if cfg.Analysis.ConfidenceThreshold <= 0 {
		cfg.Analysis.ConfidenceThreshold = 80
	}
	if cfg.Analysis.MaxPollAttempts <= 0 {
		cfg.Analysis.MaxPollAttempts = 30
	}
	if cfg.Insight.MaxTextBytes <= 0 {
		cfg.Insight.MaxTextBytes = 5000
	}
	if cfg.Insight.TopKeyPhrases <= 0 {
		cfg.Insight.TopKeyPhrases = 10
	}
	if cfg.Insight.PoolConcurrency <= 0 {
		cfg.Insight.PoolConcurrency = 3
	}
	if cfg.Provider.Insight.LanguageCode == "" {
		cfg.Provider.Insight.LanguageCode = "en"
	}
}
