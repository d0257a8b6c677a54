package main

import (
	"time"

	"github.com/alecthomas/kingpin"
)

const (
	providerDemo       = "demo"
	providerPrometheus = "prometheus"
	providerInfluxDB   = "influxdb"
	providerGraphite   = "graphite"
	providerSQLite     = "sqlite"
)

// Version is the app version, set at build time.
var Version = "dev"

type flags struct {
	provider string

	prometheusAddr   string
	prometheusPrefix string

	influxdbAddr     string
	influxdbUser     string
	influxdbPassword string
	influxdbDatabase string

	graphiteAddr   string
	graphitePrefix string

	sqlitePath     string
	sqliteSeedDemo bool

	demoSeed int64

	metrics              []string
	refreshInterval      time.Duration
	queryTimeout         time.Duration
	maxConcurrentQueries int
	queriesPerSecond     float64
	cacheTTL             time.Duration
	columns              int

	metricsListenAddr string
	noTUI             bool
	logFile           string
	debug             bool
}

func newFlags(args []string) (*flags, error) {
	f := &flags{}

	app := kingpin.New("healthterm", "Daily health metrics on the terminal.")
	app.Version(Version)
	app.DefaultEnvars()

	app.Flag("provider", "The health data provider.").Default(providerDemo).EnumVar(&f.provider, providerDemo, providerPrometheus, providerInfluxDB, providerGraphite, providerSQLite)

	app.Flag("prometheus.address", "The address of the Prometheus server.").Default("http://127.0.0.1:9090").StringVar(&f.prometheusAddr)
	app.Flag("prometheus.metric-prefix", "The prefix of the health sample series.").Default("health").StringVar(&f.prometheusPrefix)

	app.Flag("influxdb.address", "The address of the InfluxDB server.").Default("http://127.0.0.1:8086").StringVar(&f.influxdbAddr)
	app.Flag("influxdb.user", "The user of the InfluxDB server.").StringVar(&f.influxdbUser)
	app.Flag("influxdb.password", "The password of the InfluxDB server.").StringVar(&f.influxdbPassword)
	app.Flag("influxdb.database", "The InfluxDB database with the health samples.").Default("health").StringVar(&f.influxdbDatabase)

	app.Flag("graphite.address", "The address of the Graphite web API.").Default("http://127.0.0.1:8080").StringVar(&f.graphiteAddr)
	app.Flag("graphite.prefix", "The path prefix of the health sample series.").Default("health").StringVar(&f.graphitePrefix)

	app.Flag("sqlite.path", "The path of the SQLite health sample store.").Default("health.db").StringVar(&f.sqlitePath)
	app.Flag("sqlite.seed-demo", "Store the demo samples of the day on the SQLite store before starting.").BoolVar(&f.sqliteSeedDemo)

	app.Flag("demo.seed", "The seed of the demo data.").Default("42").Int64Var(&f.demoSeed)

	app.Flag("metric", "The metric to show, can be repeated. All of them by default.").Short('m').StringsVar(&f.metrics)
	app.Flag("refresh-interval", "The interval the metrics are fetched again, 0 fetches them once.").Default("1m").DurationVar(&f.refreshInterval)
	app.Flag("query-timeout", "The timeout of a provider query, 0 doesn't time out.").Default("0s").DurationVar(&f.queryTimeout)
	app.Flag("max-concurrent-queries", "The maximum number of concurrent provider queries, 0 is no limit.").Default("10").IntVar(&f.maxConcurrentQueries)
	app.Flag("queries-per-second", "The maximum provider queries per second, 0 is no limit.").Default("0").Float64Var(&f.queriesPerSecond)
	app.Flag("cache-ttl", "The TTL of the provider query cache, 0 disables the cache.").Default("0s").DurationVar(&f.cacheTTL)
	app.Flag("columns", "The number of cards per row.").Default("2").IntVar(&f.columns)

	app.Flag("metrics-listen-address", "The address where the Prometheus metrics are served, empty disables it.").StringVar(&f.metricsListenAddr)
	app.Flag("no-tui", "Print the metrics as text instead of the terminal dashboard.").BoolVar(&f.noTUI)
	app.Flag("log-file", "The file where the logs are written, stderr when empty.").StringVar(&f.logFile)
	app.Flag("debug", "Enable debug mode.").BoolVar(&f.debug)

	_, err := app.Parse(args)
	if err != nil {
		return nil, err
	}

	return f, nil
}
