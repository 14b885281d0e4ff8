package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shareswap/poold/internal/core/application"
	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/infrastructure/auth"
	postgresdb "github.com/shareswap/poold/internal/infrastructure/storage/db/pg"

	"github.com/spf13/viper"
)

const (
	// HTTPListeningPortKey is the port where the HTTP interface will listen on
	HTTPListeningPortKey = "HTTP_LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// PgHostKey, PgPortKey, PgUserKey, PgPasswordKey and PgNameKey locate the
	// postgres db used when DB_TYPE is postgres
	PgHostKey     = "PG_HOST"
	PgPortKey     = "PG_PORT"
	PgUserKey     = "PG_USER"
	PgPasswordKey = "PG_PASSWORD"
	PgNameKey     = "PG_NAME"
	// FeeBpsKey is the total swap fee, in basis points, of the pools created
	// by the daemon
	FeeBpsKey = "FEE_BPS"
	// ProtocolFeeBpsKey is the part of FEE_BPS routed to the protocol fee vaults
	ProtocolFeeBpsKey = "PROTOCOL_FEE_BPS"
	// OperatorPubkeyKey is the hex compressed public key allowed to use the
	// faucet. Leave empty to disable it
	OperatorPubkeyKey = "OPERATOR_PUBKEY"
	// NoAuthKey is used to start the daemon without verifying request
	// signatures. Callers are trusted to be who they claim.
	NoAuthKey = "NO_AUTH"
	// CORSAllowedOriginsKey is the list of origins allowed to call the HTTP
	// interface from a browser
	CORSAllowedOriginsKey = "CORS_ALLOWED_ORIGINS"
	// TLSKeyKey is the path of the the TLS key for the HTTP interface
	TLSKeyKey = "TLS_KEY"
	// TLSCertKey is the path of the the TLS certificate for the HTTP interface
	TLSCertKey = "TLS_CERT"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// WebhookTimeoutKey is the timeout in seconds of every webhook request
	WebhookTimeoutKey = "WEBHOOK_TIMEOUT"
	// WebhookRpsKey caps the number of webhook requests per second
	WebhookRpsKey = "WEBHOOK_RPS"

	DbLocation       = "db"
	ProfilerLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("poold", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("POOLD")
	vip.AutomaticEnv()

	vip.SetDefault(HTTPListeningPortKey, 9945)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(PgHostKey, "127.0.0.1")
	vip.SetDefault(PgPortKey, 5432)
	vip.SetDefault(PgNameKey, "poold")
	vip.SetDefault(FeeBpsKey, domain.DefaultFeeBps)
	vip.SetDefault(ProtocolFeeBpsKey, domain.DefaultProtocolFeeBps)
	vip.SetDefault(CORSAllowedOriginsKey, []string{"*"})
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(NoAuthKey, false)
	vip.SetDefault(WebhookTimeoutKey, 15)
	vip.SetDefault(WebhookRpsKey, 50)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetPostgresConfig returns the connection params of the postgres db.
func GetPostgresConfig() postgresdb.DbConfig {
	return postgresdb.DbConfig{
		DbUser:     GetString(PgUserKey),
		DbPassword: GetString(PgPasswordKey),
		DbHost:     GetString(PgHostKey),
		DbPort:     GetInt(PgPortKey),
		DbName:     GetString(PgNameKey),
	}
}

// GetOperatorPubkey returns the canonical encoding of the operator pubkey,
// or an empty string if none is set.
func GetOperatorPubkey() string {
	operator, err := auth.ValidatePubkey(GetString(OperatorPubkeyKey))
	if err != nil {
		return ""
	}
	return operator
}

// GetFeeBps returns the total and protocol fees of new pools.
func GetFeeBps() (uint16, uint16) {
	return uint16(GetInt(FeeBpsKey)), uint16(GetInt(ProtocolFeeBpsKey))
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("db type not supported")
	}
	if dbType == application.DBPostgres {
		if len(GetString(PgUserKey)) <= 0 {
			return fmt.Errorf("%s is required for postgres db", PgUserKey)
		}
		if port := GetInt(PgPortKey); port <= 0 || port > 65535 {
			return fmt.Errorf("invalid %s %d", PgPortKey, port)
		}
	}

	feeBps, protocolFeeBps := GetInt(FeeBpsKey), GetInt(ProtocolFeeBpsKey)
	if feeBps < 0 || feeBps > domain.MaxFeeBps {
		return fmt.Errorf("%s must be in range [0, %d]", FeeBpsKey, domain.MaxFeeBps)
	}
	if protocolFeeBps < 0 || protocolFeeBps > feeBps {
		return fmt.Errorf(
			"%s must be in range [0, %s]", ProtocolFeeBpsKey, FeeBpsKey,
		)
	}

	if operator := GetString(OperatorPubkeyKey); len(operator) > 0 {
		if _, err := auth.ValidatePubkey(operator); err != nil {
			return fmt.Errorf("invalid %s: %s", OperatorPubkeyKey, err)
		}
	}

	tlsKey, tlsCert := GetString(TLSKeyKey), GetString(TLSCertKey)
	if (tlsKey == "" && tlsCert != "") || (tlsKey != "" && tlsCert == "") {
		return fmt.Errorf(
			"TLS for HTTP interface requires both key and certificate when enabled",
		)
	}

	if GetInt(WebhookTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", WebhookTimeoutKey)
	}
	if GetInt(WebhookRpsKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", WebhookRpsKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
