package deps

import (
	"context"
	"sliderapp/internal/config"
	"sliderapp/internal/core/domain/lock"
	dl "sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/notification"
	drl "sliderapp/internal/core/domain/rate_limiter"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/domain/report"
	"sliderapp/internal/core/domain/subscription"
	duow "sliderapp/internal/core/domain/unit_of_work"
	"sliderapp/internal/db"
	dbreminder "sliderapp/internal/db/reminder"
	dbsubscription "sliderapp/internal/db/subscription"
	uow "sliderapp/internal/db/unit_of_work"
	"sliderapp/internal/implementations/email"
	idgenerator "sliderapp/internal/implementations/id_generator"
	"sliderapp/internal/implementations/locker"
	"sliderapp/internal/implementations/logging"
	"sliderapp/internal/implementations/metrics"
	ratelimiter "sliderapp/internal/implementations/rate_limiter"
	"sliderapp/internal/implementations/reporter"
	"sliderapp/internal/implementations/sns"
	"sliderapp/internal/implementations/telegram"
	"sliderapp/internal/implementations/webpush"
	"sliderapp/internal/mongodb"
	"sliderapp/internal/rabbitmq"
	runreport "sliderapp/internal/rabbitmq/publishers/run_report"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/r3labs/sse/v2"
)

const LOCK_RETRY_INTERVAL = 200 * time.Millisecond

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB        *pgxpool.Pool
	Mongo     *mongodb.Storage
	Redis     *redis.Client
	Rabbitmq  *rabbitmq.Connection
	SseServer *sse.Server
	Registry  *prometheus.Registry

	Now func() time.Time

	UnitOfWork             duow.UnitOfWork
	ReminderRepository     reminder.Repository
	SubscriptionRepository subscription.Repository

	RateLimiter         drl.RateLimiter
	Locker              lock.Locker
	ReminderIDGenerator reminder.IDGenerator

	NotificationSender notification.Sender
	Reporter           report.Reporter
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()
	deps.Now = func() time.Time { return time.Now().UTC() }

	closeLogger := deps.initLogger()
	closeStorage := deps.initStorage()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()
	closeSseServer := deps.initSseServer()
	deps.initRegistry()

	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	deps.Locker = locker.NewRedis(deps.Redis, LOCK_RETRY_INTERVAL)
	deps.ReminderIDGenerator = idgenerator.NewUUID()
	deps.NotificationSender = deps.initNotificationRouter()

	closeRunReportPublisher := deps.initReporter()

	return deps, func() {
		closeFuncs := []func(){
			closeSseServer,
			closeRunReportPublisher,
			closeRabbitmqConn,
			closeRedisClient,
			closeStorage,
			closeLogger,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	if !deps.Config.IsAwsEnabled() {
		return
	}
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.LogDevelopment)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initStorage() func() {
	if deps.Config.Storage == config.STORAGE_MONGODB {
		return deps.initMongo()
	}
	return deps.initPgxPool()
}

func (deps *Deps) initPgxPool() func() {
	if deps.Config.MigrateOnStart {
		if err := db.Migrate(deps.Config.PostgresqlURL); err != nil {
			deps.Logger.Error(context.Background(), "Could not apply DB migrations.", dl.Entry("err", err))
			panic(err)
		}
		deps.Logger.Info(context.Background(), "DB migrations applied.")
	}

	pool, err := db.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = pool
	deps.UnitOfWork = uow.NewPgxUnitOfWork(pool, deps.Logger)
	deps.ReminderRepository = dbreminder.NewPgxReminderRepository(pool, deps.Logger)
	deps.SubscriptionRepository = dbsubscription.NewPgxSubscriptionRepository(pool, deps.Logger)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		pool.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initMongo() func() {
	storage, err := mongodb.Connect(
		context.Background(),
		deps.Config.MongodbURL,
		deps.Config.MongodbDatabase,
		deps.Logger,
	)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to MongoDB.", dl.Entry("err", err))
		panic(err)
	}
	deps.Mongo = storage
	deps.UnitOfWork = mongodb.NewUnitOfWork(storage)
	deps.ReminderRepository = storage.Reminders()
	deps.SubscriptionRepository = storage.Subscriptions()
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down MongoDB connection.")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := storage.Close(ctx); err != nil {
			deps.Logger.Error(ctx, "Could not close MongoDB connection.", dl.Entry("err", err))
		}
		deps.Logger.Info(context.Background(), "MongoDB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initSseServer() func() {
	deps.SseServer = sse.New()
	deps.SseServer.AutoStream = false
	deps.SseServer.AutoReplay = false
	deps.SseServer.CreateStream(reporter.RUNS_STREAM)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SSE server.")
		deps.SseServer.Close()
		deps.Logger.Info(context.Background(), "SSE server shut down.")
	}
}

func (deps *Deps) initRegistry() {
	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func (deps *Deps) initNotificationRouter() notification.Sender {
	var (
		webPushSender  notification.WebPushSender
		emailSender    notification.EmailSender
		telegramSender notification.TelegramSender
		snsSender      notification.SNSSender
	)

	if deps.Config.IsWebPushEnabled() {
		webPushSender = webpush.New(
			webpush.Config{
				VAPIDPublicKey:  deps.Config.VapidPublicKey,
				VAPIDPrivateKey: deps.Config.VapidPrivateKey,
				Subscriber:      deps.Config.VapidSubscriber,
				TTL:             deps.Config.WebPushTTL,
			},
			deps.Config.DispatchTimeout,
		)
	}
	if deps.Config.IsEmailEnabled() {
		emailSender = email.NewEmailSender(
			deps.AwsConfig,
			deps.Config.AwsEmailSender,
			deps.Config.AwsEmailReminderTemplate,
		)
	}
	if deps.Config.IsAwsEnabled() {
		snsSender = sns.New(deps.AwsConfig)
	}
	if deps.Config.IsTelegramEnabled() {
		telegramSender = telegram.New(
			deps.Config.TelegramBaseURL,
			deps.Config.TelegramBotToken,
			deps.Config.TelegramRequestTimeout,
		)
	}

	deps.Logger.Info(
		context.Background(),
		"Delivery channels configured.",
		dl.Entry("webPush", webPushSender != nil),
		dl.Entry("email", emailSender != nil),
		dl.Entry("telegram", telegramSender != nil),
		dl.Entry("sns", snsSender != nil),
	)
	return notification.NewRouter(webPushSender, emailSender, telegramSender, snsSender)
}

func (deps *Deps) initReporter() func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	routingKey := deps.Config.RabbitmqRunReportRoutingKey
	if err := rabbitmqChannel.Declare(deps.Config.RabbitmqExchange, routingKey, routingKey); err != nil {
		deps.Logger.Error(context.Background(), "Could not declare RabbitMQ topology.", dl.Entry("err", err))
		panic(err)
	}

	deps.Reporter = report.Reporters(
		reporter.NewLog(deps.Logger),
		reporter.NewSSE(deps.SseServer),
		metrics.NewPrometheus(deps.Registry),
		runreport.NewRabbitMQ(deps.Logger, rabbitmqChannel, deps.Config.RabbitmqExchange, routingKey),
	)

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down run report publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "Run report publisher shut down.")
	}
}
