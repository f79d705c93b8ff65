// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultAPIBaseURL is the HubSpot API host. Overridable for tests and
// regional endpoints.
const DefaultAPIBaseURL = "https://api.hubapi.com"

// Config holds all configuration for the sync tool. It is built once at
// startup and passed by reference into each component; nothing reads
// configuration ambiently after LoadConfig returns.
type Config struct {
	// HubSpot destination
	HubSpotToken       string
	HubSpotTokenSecret string // AWS Secrets Manager secret name holding the token
	AWSRegion          string // Region for Secrets Manager lookups
	TableID            string
	APIBaseURL         string
	InsecureSkipVerify bool // Skip TLS verification on HubSpot calls (opt-in)

	// Warehouse source
	WarehouseHost           string
	WarehousePort           int
	WarehouseUser           string
	WarehousePassword       string
	WarehousePasswordSecret string // AWS Secrets Manager secret name holding the password
	WarehouseDatabase       string
	SourceView              string // Reporting view to sync
	OrderColumn             string // Numeric index column defining row order

	// Batching
	PageSize  int // Row-listing page size (HubDB caps at 1000)
	BatchSize int // Delete/insert batch size (HubDB caps at 100)

	// Output control
	Debug bool
	Quiet bool // Suppress the summary footer (useful when run via script)
}

// LoadConfig loads configuration from CLI flags, environment variables, and
// an optional YAML file. Priority: CLI flags > environment variables > YAML
// file > defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	hubspotToken := flag.String("hubspot-token", "", "HubSpot private app token")
	hubspotTokenSecret := flag.String("hubspot-token-secret", "", "AWS Secrets Manager secret name holding the HubSpot token")
	awsRegion := flag.String("aws-region", "", "AWS region for Secrets Manager")
	tableID := flag.String("table-id", "", "HubDB table ID")
	apiBaseURL := flag.String("api-base-url", "", "HubSpot API base URL (default: "+DefaultAPIBaseURL+")")
	insecure := flag.Bool("insecure-skip-verify", false, "Skip TLS certificate verification on HubSpot calls")
	// Flags with a real default declare 0/"" here so an untyped flag never
	// clobbers env or YAML values; the defaults block below fills the gaps.
	warehouseHost := flag.String("warehouse-host", "", "Warehouse host")
	warehousePort := flag.Int("warehouse-port", 0, "Warehouse port (default: 3306)")
	warehouseUser := flag.String("warehouse-user", "", "Warehouse username")
	warehousePassword := flag.String("warehouse-password", "", "Warehouse password")
	warehousePasswordSecret := flag.String("warehouse-password-secret", "", "AWS Secrets Manager secret name holding the warehouse password")
	warehouseAuth := flag.String("warehouse-auth", "", "Warehouse auth file path (JSON with user and password)")
	warehouseDatabase := flag.String("warehouse-database", "", "Warehouse database name (default: reporting)")
	sourceView := flag.String("source-view", "", "Reporting view to sync (default: cattle_weekly_metrics)")
	orderColumn := flag.String("order-column", "", "Numeric column defining row order (default: week_index)")
	pageSize := flag.Int("page-size", 0, "Row-listing page size (default: 1000)")
	batchSize := flag.Int("batch-size", 0, "Delete/insert batch size (default: 100)")
	configFile := flag.String("config-file", "hubdb-sync.yaml", "Config file path (default: hubdb-sync.yaml)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	quiet := flag.Bool("quiet", false, "Suppress the summary footer (useful when run via script)")

	flag.Parse()

	// Load from YAML file if it exists
	if *configFile != "" {
		if err := loadFromYAML(cfg, *configFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	loadFromEnv(cfg)

	// Override with CLI flags (highest priority)
	if *hubspotToken != "" {
		cfg.HubSpotToken = *hubspotToken
	}
	if *hubspotTokenSecret != "" {
		cfg.HubSpotTokenSecret = *hubspotTokenSecret
	}
	if *awsRegion != "" {
		cfg.AWSRegion = *awsRegion
	}
	if *tableID != "" {
		cfg.TableID = *tableID
	}
	if *apiBaseURL != "" {
		cfg.APIBaseURL = *apiBaseURL
	}
	if *insecure {
		cfg.InsecureSkipVerify = true
	}
	if *warehouseHost != "" {
		cfg.WarehouseHost = *warehouseHost
	}
	if *warehousePort > 0 {
		cfg.WarehousePort = *warehousePort
	}
	if *warehouseUser != "" {
		cfg.WarehouseUser = *warehouseUser
	}
	if *warehousePassword != "" {
		cfg.WarehousePassword = *warehousePassword
	}
	if *warehousePasswordSecret != "" {
		cfg.WarehousePasswordSecret = *warehousePasswordSecret
	}
	if *warehouseAuth != "" {
		if err := cfg.ReadWarehouseAuth(*warehouseAuth); err != nil {
			return nil, fmt.Errorf("failed to read warehouse auth file: %w", err)
		}
	}
	if *warehouseDatabase != "" {
		cfg.WarehouseDatabase = *warehouseDatabase
	}
	if *sourceView != "" {
		cfg.SourceView = *sourceView
	}
	if *orderColumn != "" {
		cfg.OrderColumn = *orderColumn
	}
	if *pageSize > 0 {
		cfg.PageSize = *pageSize
	}
	if *batchSize > 0 {
		cfg.BatchSize = *batchSize
	}
	if *debug {
		cfg.Debug = true
	}
	if *quiet {
		cfg.Quiet = true
	}

	// Set defaults
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.WarehousePort == 0 {
		cfg.WarehousePort = 3306
	}
	if cfg.WarehouseDatabase == "" {
		cfg.WarehouseDatabase = "reporting"
	}
	if cfg.SourceView == "" {
		cfg.SourceView = "cattle_weekly_metrics"
	}
	if cfg.OrderColumn == "" {
		cfg.OrderColumn = "week_index"
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 1000
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}

	// Validate required fields
	if cfg.TableID == "" {
		return nil, fmt.Errorf("table-id is required")
	}
	if cfg.WarehouseHost == "" {
		return nil, fmt.Errorf("warehouse-host is required")
	}
	if cfg.HubSpotToken == "" && cfg.HubSpotTokenSecret == "" {
		return nil, fmt.Errorf("hubspot-token or hubspot-token-secret is required")
	}
	if cfg.HubSpotToken == "" && cfg.AWSRegion == "" {
		return nil, fmt.Errorf("aws-region is required when -hubspot-token-secret is set")
	}
	if cfg.WarehousePasswordSecret != "" && cfg.AWSRegion == "" {
		return nil, fmt.Errorf("aws-region is required when -warehouse-password-secret is set")
	}
	if cfg.PageSize > 1000 {
		return nil, fmt.Errorf("page-size cannot exceed 1000 (HubDB listing limit)")
	}
	if cfg.BatchSize > 100 {
		return nil, fmt.Errorf("batch-size cannot exceed 100 (HubDB batch call limit)")
	}

	return cfg, nil
}

// loadFromYAML loads configuration from a YAML file.
func loadFromYAML(cfg *Config, filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return err
	}

	var yamlCfg struct {
		HubSpotToken            string `yaml:"hubspot_token"`
		HubSpotTokenSecret      string `yaml:"hubspot_token_secret"`
		AWSRegion               string `yaml:"aws_region"`
		TableID                 string `yaml:"table_id"`
		APIBaseURL              string `yaml:"api_base_url"`
		InsecureSkipVerify      bool   `yaml:"insecure_skip_verify"`
		WarehouseHost           string `yaml:"warehouse_host"`
		WarehousePort           int    `yaml:"warehouse_port"`
		WarehouseUser           string `yaml:"warehouse_user"`
		WarehousePassword       string `yaml:"warehouse_password"`
		WarehousePasswordSecret string `yaml:"warehouse_password_secret"`
		WarehouseDatabase       string `yaml:"warehouse_database"`
		SourceView              string `yaml:"source_view"`
		OrderColumn             string `yaml:"order_column"`
		PageSize                int    `yaml:"page_size"`
		BatchSize               int    `yaml:"batch_size"`
	}

	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return err
	}

	if yamlCfg.HubSpotToken != "" {
		cfg.HubSpotToken = yamlCfg.HubSpotToken
	}
	if yamlCfg.HubSpotTokenSecret != "" {
		cfg.HubSpotTokenSecret = yamlCfg.HubSpotTokenSecret
	}
	if yamlCfg.AWSRegion != "" {
		cfg.AWSRegion = yamlCfg.AWSRegion
	}
	if yamlCfg.TableID != "" {
		cfg.TableID = yamlCfg.TableID
	}
	if yamlCfg.APIBaseURL != "" {
		cfg.APIBaseURL = yamlCfg.APIBaseURL
	}
	cfg.InsecureSkipVerify = yamlCfg.InsecureSkipVerify
	if yamlCfg.WarehouseHost != "" {
		cfg.WarehouseHost = yamlCfg.WarehouseHost
	}
	if yamlCfg.WarehousePort > 0 {
		cfg.WarehousePort = yamlCfg.WarehousePort
	}
	if yamlCfg.WarehouseUser != "" {
		cfg.WarehouseUser = yamlCfg.WarehouseUser
	}
	if yamlCfg.WarehousePassword != "" {
		cfg.WarehousePassword = yamlCfg.WarehousePassword
	}
	if yamlCfg.WarehousePasswordSecret != "" {
		cfg.WarehousePasswordSecret = yamlCfg.WarehousePasswordSecret
	}
	if yamlCfg.WarehouseDatabase != "" {
		cfg.WarehouseDatabase = yamlCfg.WarehouseDatabase
	}
	if yamlCfg.SourceView != "" {
		cfg.SourceView = yamlCfg.SourceView
	}
	if yamlCfg.OrderColumn != "" {
		cfg.OrderColumn = yamlCfg.OrderColumn
	}
	if yamlCfg.PageSize > 0 {
		cfg.PageSize = yamlCfg.PageSize
	}
	if yamlCfg.BatchSize > 0 {
		cfg.BatchSize = yamlCfg.BatchSize
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if val := os.Getenv("HUBDB_SYNC_HUBSPOT_TOKEN"); val != "" {
		cfg.HubSpotToken = val
	}
	if val := os.Getenv("HUBDB_SYNC_HUBSPOT_TOKEN_SECRET"); val != "" {
		cfg.HubSpotTokenSecret = val
	}
	if val := os.Getenv("HUBDB_SYNC_AWS_REGION"); val != "" {
		cfg.AWSRegion = val
	}
	if val := os.Getenv("HUBDB_SYNC_TABLE_ID"); val != "" {
		cfg.TableID = val
	}
	if val := os.Getenv("HUBDB_SYNC_API_BASE_URL"); val != "" {
		cfg.APIBaseURL = val
	}
	if val := os.Getenv("HUBDB_SYNC_INSECURE_SKIP_VERIFY"); val != "" {
		cfg.InsecureSkipVerify = (val == "true" || val == "1")
	}
	if val := os.Getenv("HUBDB_SYNC_WAREHOUSE_HOST"); val != "" {
		cfg.WarehouseHost = val
	}
	if val := os.Getenv("HUBDB_SYNC_WAREHOUSE_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.WarehousePort = port
		}
	}
	if val := os.Getenv("HUBDB_SYNC_WAREHOUSE_USER"); val != "" {
		cfg.WarehouseUser = val
	}
	if val := os.Getenv("HUBDB_SYNC_WAREHOUSE_PASSWORD"); val != "" {
		cfg.WarehousePassword = val
	}
	if val := os.Getenv("HUBDB_SYNC_WAREHOUSE_PASSWORD_SECRET"); val != "" {
		cfg.WarehousePasswordSecret = val
	}
	if val := os.Getenv("HUBDB_SYNC_WAREHOUSE_DATABASE"); val != "" {
		cfg.WarehouseDatabase = val
	}
	if val := os.Getenv("HUBDB_SYNC_SOURCE_VIEW"); val != "" {
		cfg.SourceView = val
	}
	if val := os.Getenv("HUBDB_SYNC_ORDER_COLUMN"); val != "" {
		cfg.OrderColumn = val
	}
	if val := os.Getenv("HUBDB_SYNC_PAGE_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			cfg.PageSize = size
		}
	}
	if val := os.Getenv("HUBDB_SYNC_BATCH_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			cfg.BatchSize = size
		}
	}
}

// GetWarehouseDSN returns the warehouse connection string.
func (c *Config) GetWarehouseDSN() string {
	host := c.WarehouseHost
	if c.WarehousePort > 0 && c.WarehousePort != 3306 {
		host = fmt.Sprintf("%s:%d", c.WarehouseHost, c.WarehousePort)
	}

	dsn := fmt.Sprintf("tcp(%s)/%s?parseTime=true", host, c.WarehouseDatabase)
	if c.WarehouseUser != "" {
		if c.WarehousePassword != "" {
			dsn = fmt.Sprintf("%s:%s@%s", c.WarehouseUser, c.WarehousePassword, dsn)
		} else {
			dsn = fmt.Sprintf("%s@%s", c.WarehouseUser, dsn)
		}
	}
	return dsn
}

// TableURL returns the base URL of the HubDB table's REST resource.
func (c *Config) TableURL() string {
	base := c.APIBaseURL
	if base == "" {
		base = DefaultAPIBaseURL
	}
	return fmt.Sprintf("%s/cms/v3/hubdb/tables/%s", base, c.TableID)
}

// ReadWarehouseAuth reads warehouse credentials from an auth file (JSON format).
func (c *Config) ReadWarehouseAuth(authFile string) error {
	if authFile == "" {
		return nil
	}

	data, err := os.ReadFile(authFile)
	if err != nil {
		return fmt.Errorf("failed to read auth file: %w", err)
	}

	var auth struct {
		User     string `json:"user"`
		Password string `json:"password"`
	}

	if err := json.Unmarshal(data, &auth); err != nil {
		return fmt.Errorf("failed to parse auth file: %w", err)
	}

	c.WarehouseUser = auth.User
	c.WarehousePassword = auth.Password
	return nil
}
