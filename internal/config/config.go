// Package config holds the issuer-side settings for invoice generation.
//
// The sender identity, origin city, and asset paths used to be embedded
// literals; they are an explicit immutable value here so tests can substitute
// their own.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config is the immutable generation configuration.
type Config struct {
	Environment   string
	ServerAddress string

	SenderAttention string
	SenderCompany   string
	SenderStreet    string
	SenderCityLine  string
	SenderCountry   string
	SenderTaxID     string

	SenderPhone   string
	SenderFax     string
	SenderEmail   string
	SenderWebsite string

	// OriginCity is printed in "FCA <city>" incoterms.
	OriginCity string
	SignerName string

	LogoPath      string
	SignaturePath string
}

// Load reads configuration from the environment, with a .env file when one
// exists, falling back to compiled-in defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Environment:   getenv("APP_ENV", "development"),
		ServerAddress: getenv("SERVER_ADDRESS", ":8080"),

		SenderAttention: getenv("SENDER_ATTENTION", "Dana Whitfield"),
		SenderCompany:   getenv("SENDER_COMPANY", "Rezonia Corporation"),
		SenderStreet:    getenv("SENDER_STREET", "4455 Juniper Trail"),
		SenderCityLine:  getenv("SENDER_CITY_LINE", "Las Vegas, NV 89119"),
		SenderCountry:   getenv("SENDER_COUNTRY", "USA"),
		SenderTaxID:     getenv("SENDER_TAX_ID", "043557128"),

		SenderPhone:   getenv("SENDER_PHONE", "+1 (702) 555-6648"),
		SenderFax:     getenv("SENDER_FAX", "+1 (702) 555-6894"),
		SenderEmail:   getenv("SENDER_EMAIL", "sales@rezonia.com"),
		SenderWebsite: getenv("SENDER_WEBSITE", "www.rezonia.com"),

		OriginCity: getenv("ORIGIN_CITY", "Las Vegas"),
		SignerName: getenv("SIGNER_NAME", "Dana Whitfield"),

		LogoPath:      getenv("LOGO_PATH", "assets/logo.png"),
		SignaturePath: getenv("SIGNATURE_PATH", "assets/signature.png"),
	}
}

// FromAddress is the "Shipped from" block: attention line, company address,
// and the issuer tax id.
func (c *Config) FromAddress() []string {
	return []string{
		c.SenderAttention,
		c.SenderCompany,
		c.SenderStreet,
		c.SenderCityLine,
		c.SenderCountry,
		"Tax ID: " + c.SenderTaxID,
	}
}

// HeaderLines is the sender block printed in the repeating page header.
func (c *Config) HeaderLines() []string {
	return []string{c.SenderCompany, c.SenderStreet, c.SenderCityLine, c.SenderCountry}
}

// ContactLines is the sender contact block printed in the repeating page
// header.
func (c *Config) ContactLines() []string {
	return []string{
		"Tel: " + c.SenderPhone,
		"Fax: " + c.SenderFax,
		c.SenderEmail,
		c.SenderWebsite,
	}
}

// GenerationAllowed reports whether commercial invoices may be served in the
// configured environment. Production is excluded.
func (c *Config) GenerationAllowed() bool {
	switch c.Environment {
	case "development", "test", "preview":
		return true
	}
	return false
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
