package config

import (
	"fmt"

	"github.com/chazu/ferris/pkg/ride"
	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "ferris.cfg.json"

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// SetDefaults registers the default ride and logging values.
func SetDefaults() {
	d := ride.DefaultConfig()

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "")

	viper.SetDefault("cabinCount", d.CabinCount)
	viper.SetDefault("wheelRadius", d.WheelRadius)
	viper.SetDefault("rotationSpeed", d.RotationSpeed)
	viper.SetDefault("cabinSize", d.CabinSize)
	viper.SetDefault("stepHeight", d.StepHeight)
	viper.SetDefault("stepDepth", d.StepDepth)
	viper.SetDefault("seed", d.Seed)

	viper.SetDefault("origin.x", d.Origin.X())
	viper.SetDefault("origin.y", d.Origin.Y())
	viper.SetDefault("origin.z", d.Origin.Z())

	setColorDefault("frame", d.Colors.Frame)
	setColorDefault("wheel", d.Colors.Wheel)
	setColorDefault("accent", d.Colors.Accent)
	setColorDefault("cabin", d.Colors.Cabin)
	setColorDefault("light", d.Colors.Light)
}

func setColorDefault(name string, c scene.Color) {
	prefix := "colors." + name + "."
	viper.SetDefault(prefix+"r", c.R)
	viper.SetDefault(prefix+"g", c.G)
	viper.SetDefault(prefix+"b", c.B)
	viper.SetDefault(prefix+"a", c.A)
}

// Ride maps the loaded keys onto a ride configuration and validates it.
func Ride() (ride.Config, error) {
	cfg := ride.Config{
		CabinCount:    viper.GetInt("cabinCount"),
		WheelRadius:   viper.GetFloat64("wheelRadius"),
		RotationSpeed: viper.GetFloat64("rotationSpeed"),
		CabinSize:     viper.GetFloat64("cabinSize"),
		StepHeight:    viper.GetFloat64("stepHeight"),
		StepDepth:     viper.GetInt("stepDepth"),
		Seed:          viper.GetInt64("seed"),
		Origin: mgl64.Vec3{
			viper.GetFloat64("origin.x"),
			viper.GetFloat64("origin.y"),
			viper.GetFloat64("origin.z"),
		},
		Colors: ride.Colors{
			Frame:  color("frame"),
			Wheel:  color("wheel"),
			Accent: color("accent"),
			Cabin:  color("cabin"),
			Light:  color("light"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return ride.Config{}, err
	}
	return cfg, nil
}

func color(name string) scene.Color {
	prefix := "colors." + name + "."
	return scene.RGBA(
		viper.GetFloat64(prefix+"r"),
		viper.GetFloat64(prefix+"g"),
		viper.GetFloat64(prefix+"b"),
		viper.GetFloat64(prefix+"a"),
	)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}
