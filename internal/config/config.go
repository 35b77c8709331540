package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config agrupa la configuración de todo el servicio.
type Config struct {
	Server ServerConfig
	Search SearchConfig
	Upload UploadConfig
	Relay  RelayConfig
}

// Load lee la configuración desde variables de entorno.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	search, err := loadSearchConfig()
	if err != nil {
		return nil, err
	}

	relay, err := loadRelayConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Search: search,
		Upload: loadUploadConfig(),
		Relay:  relay,
	}, nil
}

// ServerConfig describe el servidor HTTP.
type ServerConfig struct {
	Addr string
}

// loadServerConfig interpreta la dirección de escucha.
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8001"
	}

	if strings.Contains(port, ":") {
		// Se admite ":8001" o "127.0.0.1:8001" tal cual.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// SearchConfig describe el cliente de Google Custom Search.
type SearchConfig struct {
	APIKey     string
	CSEID      string
	BaseURL    string
	MaxResults int
	Timeout    int
}

// Enabled indica si ambas credenciales están presentes.
func (c SearchConfig) Enabled() bool {
	return c.APIKey != "" && c.CSEID != ""
}

func loadSearchConfig() (SearchConfig, error) {
	maxResults := 3
	if override, err := parseOptionalIntEnv("SEARCH_MAX_RESULTS"); err != nil {
		return SearchConfig{}, err
	} else if override != nil {
		if *override < 1 {
			maxResults = 1
		} else {
			maxResults = *override
		}
	}

	timeout := 10
	if override, err := parseOptionalIntEnv("SEARCH_TIMEOUT"); err != nil {
		return SearchConfig{}, err
	} else if override != nil && *override > 0 {
		timeout = *override
	}

	return SearchConfig{
		APIKey:     strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		CSEID:      strings.TrimSpace(os.Getenv("GOOGLE_CSE_ID")),
		BaseURL:    getEnvOrDefault("GOOGLE_CSE_BASE_URL", "https://www.googleapis.com/customsearch/v1"),
		MaxResults: maxResults,
		Timeout:    timeout,
	}, nil
}

// UploadConfig describe el almacenamiento de archivos subidos.
type UploadConfig struct {
	Dir string
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{Dir: getEnvOrDefault("UPLOAD_DIR", "uploads")}
}

// RelayConfig describe los límites del relé de conversaciones.
type RelayConfig struct {
	TranscriptLimit int
}

func loadRelayConfig() (RelayConfig, error) {
	// El mínimo cubre un par consulta/respuesta.
	limit := 512
	if override, err := parseOptionalIntEnv("TRANSCRIPT_LIMIT"); err != nil {
		return RelayConfig{}, err
	} else if override != nil {
		if *override < 2 {
			limit = 2
		} else {
			limit = *override
		}
	}

	return RelayConfig{TranscriptLimit: limit}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
