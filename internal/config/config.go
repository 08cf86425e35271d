// Package config holds runtime defaults. Flags are the primary surface;
// everything here can also come from DJREMOTE_* environment variables or an
// optional djremote.yaml.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rootuserdj/DJ-Remote-Desktop/internal/quality"
)

var v *viper.Viper

func init() {
	v = viper.New()

	v.SetDefault("listen", ":9999")
	v.SetDefault("fps", 30)
	v.SetDefault("display", 0)
	v.SetDefault("view_only", false)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("dial_timeout", 10*time.Second)

	q := quality.DefaultConfig()
	v.SetDefault("quality.initial", q.Initial)
	v.SetDefault("quality.min", q.Min)
	v.SetDefault("quality.max", q.Max)
	v.SetDefault("quality.step", q.Step)
	v.SetDefault("quality.low_water", q.LowWater)
	v.SetDefault("quality.high_water", q.HighWater)

	v.SetEnvPrefix("DJREMOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("djremote")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.djremote")
	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; only a malformed one is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic("reading config file: " + err.Error())
		}
	}
}

// ListenAddr is the server's default listen address.
func ListenAddr() string { return v.GetString("listen") }

// FPS is the capture loop's target frame rate.
func FPS() int { return v.GetInt("fps") }

// DisplayIndex selects the display to capture (0 = primary).
func DisplayIndex() int { return v.GetInt("display") }

// ViewOnly disables input injection server-side.
func ViewOnly() bool { return v.GetBool("view_only") }

// MetricsAddr is the optional Prometheus listen address ("" = off).
func MetricsAddr() string { return v.GetString("metrics_addr") }

// DialTimeout bounds the client's connection attempt.
func DialTimeout() time.Duration { return v.GetDuration("dial_timeout") }

// Quality returns the adaptive encoder tuning.
func Quality() quality.Config {
	return quality.Config{
		Initial:   v.GetInt("quality.initial"),
		Min:       v.GetInt("quality.min"),
		Max:       v.GetInt("quality.max"),
		Step:      v.GetInt("quality.step"),
		LowWater:  v.GetInt("quality.low_water"),
		HighWater: v.GetInt("quality.high_water"),
	}
}
