// Package converter turns ledger records into Beancount transactions.
package converter

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// PartyMapping pins the Beancount account of one party.
type PartyMapping struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Beancount string `yaml:"beancount"`
}

// AccountMappingConfig represents the complete account mapping configuration.
type AccountMappingConfig struct {
	Currency string `yaml:"currency"`
	Accounts struct {
		Cash        string `yaml:"cash"`
		Bank        string `yaml:"bank"`
		Inventory   string `yaml:"inventory"`
		Sales       string `yaml:"sales"`
		Payables    string `yaml:"payables"`
		Receivables string `yaml:"receivables"`
		Suspense    string `yaml:"suspense"`
	} `yaml:"accounts"`
	Parties []PartyMapping `yaml:"parties"`
}

// DefaultAccountMapping returns the mapping used when no file is configured.
func DefaultAccountMapping() AccountMappingConfig {
	var c AccountMappingConfig
	c.Currency = "INR"
	c.Accounts.Cash = "Assets:Current:Cash"
	c.Accounts.Bank = "Assets:Current:Bank"
	c.Accounts.Inventory = "Assets:Current:Inventory:Tractors"
	c.Accounts.Sales = "Income:Sales:Tractors"
	c.Accounts.Payables = "Liabilities:Current:Creditors"
	c.Accounts.Receivables = "Assets:Current:Debtors"
	c.Accounts.Suspense = "Equity:Suspense"
	return c
}

// Mapper resolves the Beancount accounts of books and parties.
type Mapper struct {
	config  AccountMappingConfig
	parties map[string]string
}

// NewMapper creates a Mapper from a YAML configuration file. Settings missing
// from the file keep their defaults.
func NewMapper(configPath string) (*Mapper, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultAccountMapping()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return NewMapperFromConfig(config), nil
}

// NewMapperFromConfig creates a Mapper from an in-memory configuration.
func NewMapperFromConfig(config AccountMappingConfig) *Mapper {
	m := &Mapper{
		config:  config,
		parties: make(map[string]string, len(config.Parties)),
	}
	for _, p := range config.Parties {
		m.parties[partyKey(models.PersonType(p.Type), p.Name)] = p.Beancount
	}
	return m
}

func partyKey(kind models.PersonType, name string) string {
	return string(kind) + "\x00" + name
}

// Currency returns the configured currency.
func (m *Mapper) Currency() string {
	return m.config.Currency
}

// Cash returns the cash book account.
func (m *Mapper) Cash() string { return m.config.Accounts.Cash }

// Bank returns the bank book account.
func (m *Mapper) Bank() string { return m.config.Accounts.Bank }

// Inventory returns the stock account.
func (m *Mapper) Inventory() string { return m.config.Accounts.Inventory }

// Sales returns the sales income account.
func (m *Mapper) Sales() string { return m.config.Accounts.Sales }

// Suspense returns the account balancing rows without a party.
func (m *Mapper) Suspense() string { return m.config.Accounts.Suspense }

// PartyAccount returns the account of a creditor or debtor. Without an
// override, the party name is appended to the payables or receivables prefix.
func (m *Mapper) PartyAccount(kind models.PersonType, name string) string {
	if account, ok := m.parties[partyKey(kind, name)]; ok {
		return account
	}

	prefix := m.config.Accounts.Payables
	switch kind {
	case models.PersonDebtor:
		prefix = m.config.Accounts.Receivables
	case models.PersonCash:
		return m.config.Accounts.Bank
	}

	component := sanitizeAccountName(name)
	if component == "" {
		return m.config.Accounts.Suspense
	}
	return prefix + ":" + component
}

// sanitizeAccountName turns a party name into a Beancount account component:
// words are capitalized and joined, anything but letters, digits and dashes
// is dropped, and the result starts with an upper-case letter or digit.
func sanitizeAccountName(name string) string {
	var sb strings.Builder
	for _, word := range strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}

	out := strings.TrimLeft(sb.String(), "-")
	if out == "" {
		return ""
	}
	if first := []rune(out)[0]; !unicode.IsUpper(first) && !unicode.IsDigit(first) {
		out = "X" + out
	}
	return out
}
