package di

import (
	"context"
	"fmt"
	"time"

	"MarketBrief/internal/domain/repository"
	"MarketBrief/internal/handler/api"
	internalrepo "MarketBrief/internal/repository"
	"MarketBrief/internal/service/gemini"
	"MarketBrief/internal/service/newsapi"
	"MarketBrief/internal/service/yahoo"
	"MarketBrief/internal/usecase/briefing"
	"MarketBrief/internal/usecase/marketdata"
	pkgch "MarketBrief/pkg/clickhouse"
	"MarketBrief/pkg/config"
	xhttp "MarketBrief/pkg/http"
	pkgkafka "MarketBrief/pkg/kafka"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/metrics"
	"MarketBrief/pkg/queue"
	"MarketBrief/pkg/server"
)

// ProvideLogger creates the application logger. Console output in
// development, JSON elsewhere.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{
		Level:  "info",
		Format: format,
		Output: "stdout",
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvidePortfolioStore creates the ClickHouse portfolio store and ensures
// its schema exists.
func ProvidePortfolioStore(chClient *pkgch.Client, l *applogger.Logger) (repository.PortfolioStore, error) {
	store := internalrepo.NewCHPortfolioStore(chClient, l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("portfolio schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are
// configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// kafkaLogPublisher adapts the Kafka producer to the log collector contract.
type kafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func (p *kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideEventPublisher creates the briefing event publisher, or nil when
// Kafka is not configured. It also hooks the logger's warn/error collector
// onto the same producer.
func ProvideEventPublisher(producer *pkgkafka.Producer, l *applogger.Logger, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          "marketbrief.logs",
		Publisher:      &kafkaLogPublisher{producer: producer},
	})
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
}

// ProvideQuoteProvider creates the market quote/history client.
func ProvideQuoteProvider(cfg *config.Config) repository.QuoteProvider {
	return yahoo.New(cfg.Quotes.BaseURL, cfg.Quotes.Timeout)
}

// ProvideNewsSearcher creates the news search client. An empty API key
// yields a disabled client.
func ProvideNewsSearcher(cfg *config.Config) repository.NewsSearcher {
	return newsapi.New(cfg.News.APIKey, cfg.News.BaseURL, cfg.News.Language, cfg.News.Timeout)
}

// ProvideNarrator creates the Gemini narrator, or nil when no API key is
// configured. A nil narrator makes briefing generation return a 500.
func ProvideNarrator(cfg *config.Config) (repository.Narrator, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
}

// ProvidePool creates the fetch worker pool. App.Run starts it.
func ProvidePool(cfg *config.Config) *queue.Pool {
	return queue.NewPool(
		queue.WithWorkers(cfg.Quotes.PoolWorkers),
		queue.WithQueueSize(cfg.Quotes.PoolQueueSize),
	)
}

// ProvideAggregator creates the market snapshot aggregator.
func ProvideAggregator(
	provider repository.QuoteProvider,
	searcher repository.NewsSearcher,
	pool *queue.Pool,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *marketdata.Aggregator {
	quotes := marketdata.NewQuoteFetcher(provider, m, l)
	macro := marketdata.NewMacroFetcher(provider, m, l)
	news := marketdata.NewNewsFetcher(searcher, cfg.News.PageSize, m, l)
	return marketdata.NewAggregator(quotes, macro, news, pool, m, l)
}

// ProvideBriefingGenerator creates the briefing generator.
func ProvideBriefingGenerator(
	store repository.PortfolioStore,
	aggregator *marketdata.Aggregator,
	narrator repository.Narrator,
	events repository.EventPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *briefing.Generator {
	return briefing.NewGenerator(store, aggregator, narrator, events, m, l)
}

// ProvideHandler creates the HTTP handler tree.
func ProvideHandler(
	l *applogger.Logger,
	store repository.PortfolioStore,
	generator *briefing.Generator,
) xhttp.Handler {
	portfolios := api.NewPortfoliosEchoHandler(l, store)
	intelligence := api.NewIntelligenceEchoHandler(l, generator)
	return api.NewHandler(portfolios, intelligence)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	pool *queue.Pool,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, l, pool, chClient, producer, handler)
}
