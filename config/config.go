package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	StoreName         string `json:"storeName"`
	CurrencyPrefix    string `json:"currencyPrefix"`
	LowStockThreshold int    `json:"lowStockThreshold"`
	NearExpiryDays    int    `json:"nearExpiryDays"`
	ReceiptsDir       string `json:"receiptsDir"`
	// CheckoutMode is "best-effort" (skip failed lines, keep the rest) or
	// "atomic" (any failed line voids the whole sale).
	CheckoutMode string `json:"checkoutMode"`
	// TotalPolicy is "requested" (total covers every cart line, even skipped
	// ones — matches the historical behavior) or "accepted" (total covers
	// only the lines that committed).
	TotalPolicy string `json:"totalPolicy"`
	EnablePDF   bool   `json:"enablePDF"`
	ListenAddr  string `json:"listenAddr"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./shop_config.json"

func applyDefaults(c *Config) {
	if c.StoreName == "" {
		c.StoreName = "Anas General Store"
	}
	if c.CurrencyPrefix == "" {
		c.CurrencyPrefix = "Rs "
	}
	if c.LowStockThreshold == 0 {
		c.LowStockThreshold = 5
	}
	if c.NearExpiryDays == 0 {
		c.NearExpiryDays = 7
	}
	if c.ReceiptsDir == "" {
		c.ReceiptsDir = "receipts"
	}
	if c.CheckoutMode == "" {
		c.CheckoutMode = "best-effort"
	}
	if c.TotalPolicy == "" {
		c.TotalPolicy = "requested"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&tempCfg)
	cfg = tempCfg

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	c := cfg
	applyDefaults(&c)
	return c
}
