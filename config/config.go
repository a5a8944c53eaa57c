package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/shoaibsidiki/deltaT-calculator/calculator"
	"github.com/shoaibsidiki/deltaT-calculator/model"
	"github.com/shoaibsidiki/deltaT-calculator/sweep"
)

// DefaultPath is where the binary looks for its configuration.
const DefaultPath = "conf/config.ini"

const (
	DefaultAddr       = ":9000"
	DefaultBufferSize = 1024
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultWorkers    = 4
	DefaultDomainMode = "warn"
)

type Config struct {
	Server ServerConfig
	Log    LogConfig
	Sweep  SweepConfig
	Domain DomainConfig
}

type ServerConfig struct {
	Addr        string
	ReadBuffer  int
	WriteBuffer int
}

type LogConfig struct {
	Level  string // logrus level name
	Format string // text | json
}

// SweepConfig holds the range used for every field when a request does not
// carry its own, and the number of grid workers.
type SweepConfig struct {
	Count     int
	GridCount int
	Workers   int
	Ranges    map[model.Field]sweep.RangeSpec
}

type DomainConfig struct {
	Mode   calculator.DomainMode
	Bounds map[model.Field]model.Bound
}

// Load reads an ini file. Missing keys take their default value.
func Load(path string) (Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return loadCfg(file)
}

// Default is the configuration used when no file is given.
func Default() Config {
	cfg, err := loadCfg(ini.Empty(ini.LoadOptions{Insensitive: true}))
	if err != nil {
		// defaults are constants, this only fires on a programming error
		panic(err)
	}
	return cfg
}

func loadCfg(file *ini.File) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Addr:        file.Section("server").Key("addr").MustString(DefaultAddr),
			ReadBuffer:  file.Section("server").Key("read_buffer").MustInt(DefaultBufferSize),
			WriteBuffer: file.Section("server").Key("write_buffer").MustInt(DefaultBufferSize),
		},
		Log: LogConfig{
			Level:  file.Section("log").Key("level").MustString(DefaultLogLevel),
			Format: file.Section("log").Key("format").MustString(DefaultLogFormat),
		},
		Sweep: SweepConfig{
			Count:     file.Section("sweep").Key("count").MustInt(sweep.DefaultCount),
			GridCount: file.Section("sweep").Key("grid_count").MustInt(sweep.DefaultGridCount),
			Workers:   file.Section("sweep").Key("workers").MustInt(DefaultWorkers),
			Ranges:    make(map[model.Field]sweep.RangeSpec, len(model.Fields)),
		},
		Domain: DomainConfig{
			Bounds: make(map[model.Field]model.Bound, len(model.Fields)),
		},
	}
	if cfg.Sweep.Count < 1 {
		return Config{}, fmt.Errorf("config: sweep.count must be positive, got %d", cfg.Sweep.Count)
	}
	if cfg.Sweep.GridCount < 1 {
		return Config{}, fmt.Errorf("config: sweep.grid_count must be positive, got %d", cfg.Sweep.GridCount)
	}

	builtin := sweep.BuiltinDefaults()
	for _, f := range model.Fields {
		def := builtin.Spec(f)
		sec := file.Section("sweep." + f.String())
		policy, err := sweep.ParsePolicy(sec.Key("policy").MustString(def.Policy.String()))
		if err != nil {
			return Config{}, fmt.Errorf("config: sweep.%s: %w", f, err)
		}
		spec := sweep.RangeSpec{
			Policy: policy,
			Lower:  sec.Key("lower").MustFloat64(def.Lower),
			Upper:  sec.Key("upper").MustFloat64(def.Upper),
			Count:  sec.Key("count").MustInt(cfg.Sweep.Count),
		}
		if err := spec.Validate(); err != nil {
			return Config{}, fmt.Errorf("config: sweep.%s: %w", f, err)
		}
		cfg.Sweep.Ranges[f] = spec
	}

	mode, err := calculator.ParseDomainMode(file.Section("domain").Key("policy").MustString(DefaultDomainMode))
	if err != nil {
		return Config{}, fmt.Errorf("config: domain: %w", err)
	}
	cfg.Domain.Mode = mode
	formBounds := model.FormBounds()
	for _, f := range model.Fields {
		sec := file.Section("domain." + f.String())
		def, ok := formBounds[f]
		if !ok && !sec.HasKey("min") && !sec.HasKey("max") {
			continue
		}
		if !ok {
			def = model.Bound{Min: 0, Max: 0}
		}
		b := model.Bound{
			Min: sec.Key("min").MustFloat64(def.Min),
			Max: sec.Key("max").MustFloat64(def.Max),
		}
		if b.Min > b.Max {
			return Config{}, fmt.Errorf("config: domain.%s: min %g greater than max %g", f, b.Min, b.Max)
		}
		cfg.Domain.Bounds[f] = b
	}
	return cfg, nil
}

// SweepDefaults is the range table for the sweep engine.
func (c Config) SweepDefaults() sweep.Defaults {
	specs := make(map[model.Field]sweep.RangeSpec, len(c.Sweep.Ranges))
	for f, s := range c.Sweep.Ranges {
		specs[f] = s
	}
	return sweep.Defaults{Specs: specs, GridCount: c.Sweep.GridCount}
}

func (c Config) DomainPolicy() calculator.DomainPolicy {
	bounds := make(map[model.Field]model.Bound, len(c.Domain.Bounds))
	for f, b := range c.Domain.Bounds {
		bounds[f] = b
	}
	return calculator.DomainPolicy{Mode: c.Domain.Mode, Bounds: bounds}
}
