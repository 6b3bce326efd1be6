// Package environment loads service configuration from the process
// environment, optionally overlaid with a lotdrop.env file found in the
// working or home directory. Real environment variables always win over
// file-provided values.
package environment

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"

	env "github.com/Netflix/go-env"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// EnvFileName is the optional dotenv file consulted in Pwd, then Home.
const EnvFileName = "lotdrop.env"

// Environment holds service configuration loaded from the OS or defaults.
type Environment struct {
	Home           string `env:"HOME"`
	Pwd            string `env:"PWD"`
	NonInteractive string `env:"NON_INTERACTIVE,default=0"`
	DataDir        string `env:"LOTDROP_DATA_DIR"`
	DBPath         string `env:"LOTDROP_DB"`
	Host           string `env:"LOTDROP_HOST,default=127.0.0.1"`
	Port           int    `env:"LOTDROP_PORT,default=8580"`
	MaxUploadMB    int64  `env:"LOTDROP_MAX_UPLOAD_MB,default=32"`
	CORSOrigins    string `env:"LOTDROP_CORS_ORIGINS"`
	TrustedProxies string `env:"LOTDROP_TRUSTED_PROXIES"`
	Extras         env.EnvSet
}

// NewEnvironment initializes an Environment. When environ is non-nil it is
// taken as-is apart from defaulting, which lets tests inject a fixture
// without touching the process environment.
func NewEnvironment(fs afero.Fs, environ *Environment) (*Environment, error) {
	if environ != nil {
		applyDefaults(environ)
		return environ, nil
	}

	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, err
	}
	overlayEnvFile(fs, es)

	loaded := &Environment{}
	if err := env.Unmarshal(es, loaded); err != nil {
		return nil, err
	}
	loaded.Extras = es

	applyDefaults(loaded)
	return loaded, nil
}

// overlayEnvFile merges values from the first lotdrop.env found in Pwd then
// Home into es, without overriding variables already set in the process
// environment.
func overlayEnvFile(fs afero.Fs, es env.EnvSet) {
	for _, dir := range []string{es["PWD"], es["HOME"]} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, EnvFileName)
		content, err := afero.ReadFile(fs, path)
		if err != nil {
			continue
		}
		fileVars, err := godotenv.Parse(bytes.NewReader(content))
		if err != nil {
			continue
		}
		for key, value := range fileVars {
			if _, exists := es[key]; !exists {
				es[key] = value
			}
		}
		return
	}
}

func applyDefaults(environ *Environment) {
	if environ.NonInteractive == "" {
		environ.NonInteractive = "0"
	}
	if environ.Host == "" {
		environ.Host = "127.0.0.1"
	}
	if environ.Port == 0 {
		environ.Port = 8580
	}
	if environ.MaxUploadMB == 0 {
		environ.MaxUploadMB = 32
	}
	if environ.DataDir == "" {
		environ.DataDir = filepath.Join(xdg.DataHome, "lotdrop")
	}
	if environ.DBPath == "" {
		environ.DBPath = filepath.Join(environ.DataDir, "lotdrop.db")
	}
}

// Addr returns the host:port the API server binds to.
func (e *Environment) Addr() string {
	return e.Host + ":" + strconv.Itoa(e.Port)
}

// MaxUploadBytes returns the per-file upload limit in bytes.
func (e *Environment) MaxUploadBytes() int64 {
	return e.MaxUploadMB << 20
}

// IsNonInteractive reports whether prompts must be skipped.
func (e *Environment) IsNonInteractive() bool {
	return e.NonInteractive == "1"
}
