package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

type Config struct {
	RPCAddress   string `toml:"RPCAddress"`
	DataDir      string `toml:"DataDir"`
	Environment  string `toml:"Environment"`
	Owner        string `toml:"Owner"`
	Oracle       string `toml:"Oracle"`
	PaymentToken string `toml:"PaymentToken"`
	Custody      string `toml:"Custody"`
	DrawPriceWei string `toml:"DrawPriceWei"`
}

const defaultConfig = `RPCAddress = ":8645"
DataDir = "./prizevault-data"
Environment = "local"
Owner = ""
Oracle = ""
PaymentToken = ""
Custody = ""
DrawPriceWei = "0"
`

// Load loads the configuration from the given path, writing a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefault(path); err != nil {
			return nil, err
		}
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = ":8645"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./prizevault-data"
	}
	if strings.TrimSpace(cfg.DrawPriceWei) == "" {
		cfg.DrawPriceWei = "0"
	}
	return cfg, nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(defaultConfig), 0o600)
}

// Validate checks that the identity fields parse as addresses and the draw
// price parses as a non-negative integer.
func (c *Config) Validate() error {
	for name, value := range map[string]string{
		"Owner":        c.Owner,
		"Oracle":       c.Oracle,
		"PaymentToken": c.PaymentToken,
		"Custody":      c.Custody,
	} {
		if !ethcommon.IsHexAddress(strings.TrimSpace(value)) {
			return fmt.Errorf("config: %s must be a hex address", name)
		}
	}
	if _, err := c.DrawPrice(); err != nil {
		return err
	}
	return nil
}

func (c *Config) address(value string) [20]byte {
	return ethcommon.HexToAddress(strings.TrimSpace(value))
}

// OwnerAddress returns the parsed owner identity.
func (c *Config) OwnerAddress() [20]byte { return c.address(c.Owner) }

// OracleAddress returns the parsed randomness oracle identity.
func (c *Config) OracleAddress() [20]byte { return c.address(c.Oracle) }

// PaymentTokenAddress returns the parsed payment token asset reference.
func (c *Config) PaymentTokenAddress() [20]byte { return c.address(c.PaymentToken) }

// CustodyAddress returns the parsed custody account.
func (c *Config) CustodyAddress() [20]byte { return c.address(c.Custody) }

// DrawPrice parses the configured draw price.
func (c *Config) DrawPrice() (*big.Int, error) {
	trimmed := strings.TrimSpace(c.DrawPriceWei)
	price, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || price.Sign() < 0 {
		return nil, fmt.Errorf("config: DrawPriceWei must be a non-negative integer, got %q", c.DrawPriceWei)
	}
	return price, nil
}
