package cfg

import (
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "BLOCKFILE"

type StorageConfig struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"dev"`

	DBDirectory      string `envconfig:"DB_DIRECTORY"`
	BlockSize        int    `envconfig:"BLOCK_SIZE" default:"400"`
	SerializeAppends bool   `envconfig:"SERIALIZE_APPENDS" default:"false"`
}

// LoadConfig is ReadConfig followed by Validate.
func LoadConfig(path string) (StorageConfig, error) {
	cfg, err := ReadConfig(path)
	if err != nil {
		return StorageConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return StorageConfig{}, err
	}

	return cfg, nil
}

// ReadConfig reads BLOCKFILE_* variables from the environment. If path is
// not empty, the .env file it names is loaded first; variables already set
// in the environment take precedence over it.
func ReadConfig(path string) (StorageConfig, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return StorageConfig{}, errors.Wrapf(err, "load env file %s", path)
		}
	}

	var cfg StorageConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return StorageConfig{}, errors.Wrap(err, "process env")
	}

	return cfg, nil
}

func (c StorageConfig) Validate() error {
	if err := c.Environment.Validate(); err != nil {
		return errors.Wrap(err, "environment validation")
	}

	if c.DBDirectory == "" {
		return errors.New("db directory must not be empty")
	}

	if c.BlockSize <= 0 {
		return errors.Errorf("block size must be positive, got %d", c.BlockSize)
	}

	return nil
}

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"

	DefaultEnv = EnvDev
)

type Environment string

func (e Environment) Validate() error {
	if e != EnvDev && e != EnvProd {
		return errors.New("environment must be either dev or prod")
	}

	return nil
}
