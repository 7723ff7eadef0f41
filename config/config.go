// Package config provides configuration loading and access for the simulation
// and the training driver.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/gridlife/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Agent       AgentConfig       `yaml:"agent"`
	Interaction InteractionConfig `yaml:"interaction"`
	Build       BuildConfig       `yaml:"build"`
	Generation  GenerationConfig  `yaml:"generation"`
	Objects     []ObjectConfig    `yaml:"objects"`
	Policy      PolicyConfig      `yaml:"policy"`
	Perception  PerceptionConfig  `yaml:"perception"`
	Training    TrainingConfig    `yaml:"training"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Visualizer  VisualizerConfig  `yaml:"visualizer"`
	Stream      StreamConfig      `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid dimensions in cells.
type WorldConfig struct {
	Width  int32 `yaml:"width"`
	Height int32 `yaml:"height"`
}

// AgentConfig holds the agent's spawn cell and starting stats.
type AgentConfig struct {
	SpawnX     int32  `yaml:"spawn_x"`
	SpawnY     int32  `yaml:"spawn_y"`
	HP         int32  `yaml:"hp"`
	Ability    uint32 `yaml:"ability"`
	ViewRadius uint32 `yaml:"view_radius"`
}

// InteractionConfig holds the interaction roll parameters.
type InteractionConfig struct {
	RollSides int `yaml:"roll_sides"` // roll is uniform in [0, roll_sides)
}

// BuildConfig controls the Build action.
type BuildConfig struct {
	Cost int32 `yaml:"cost"`
	// AllowFatal lets Build proceed when it would drop hp to zero or below.
	AllowFatal bool `yaml:"allow_fatal"`
	// SpawnAtOrigin places structures at cell (0,0) instead of the agent's cell.
	SpawnAtOrigin bool `yaml:"spawn_at_origin"`
}

// GenerationConfig holds the per-cell object placement draw.
// Each interior cell draws rng.Intn(RollRange); the first band whose Min is
// at or below the draw places its object.
type GenerationConfig struct {
	RollRange int              `yaml:"roll_range"`
	Bands     []GenerationBand `yaml:"bands"`
}

// GenerationBand maps a draw threshold to an object tag.
type GenerationBand struct {
	Object string `yaml:"object"`
	Min    int    `yaml:"min"`
}

// ObjectConfig is the template for one object tag.
type ObjectConfig struct {
	Tag           string   `yaml:"tag"`
	AutoInteract  bool     `yaml:"auto_interact"`
	HP            int32    `yaml:"hp"`
	Difficulty    uint32   `yaml:"difficulty"`
	Penalty       uint32   `yaml:"penalty"`
	RewardHP      uint32   `yaml:"reward_hp"`
	RewardAbility uint32   `yaml:"reward_ability"`
	Draw          string   `yaml:"draw"`
	Color         [4]uint8 `yaml:"color"`
	Size          uint8    `yaml:"size"`
}

// PolicyConfig holds the weights every new policy entry starts with.
type PolicyConfig struct {
	DefaultWeights map[string]uint32 `yaml:"default_weights"`
}

// PerceptionConfig holds state discretization parameters.
type PerceptionConfig struct {
	HPBucket int32 `yaml:"hp_bucket"` // hp values per vitals bucket
}

// TrainingConfig holds the evolutionary loop parameters.
type TrainingConfig struct {
	Generations int    `yaml:"generations"`
	Samples     int    `yaml:"samples"`
	Mutation    uint32 `yaml:"mutation"`
	Reward      uint32 `yaml:"reward"`
	MaxTicks    int    `yaml:"max_ticks"` // hard cap per run
	Workers     int    `yaml:"workers"`   // 0 = GOMAXPROCS
}

// TelemetryConfig holds logging parameters.
type TelemetryConfig struct {
	LogGenerations bool `yaml:"log_generations"`
}

// VisualizerConfig holds viewer window parameters.
type VisualizerConfig struct {
	CellSize     int32 `yaml:"cell_size"`
	PanelWidth   int32 `yaml:"panel_width"`
	TargetFPS    int32 `yaml:"target_fps"`
	TicksPerDraw int   `yaml:"ticks_per_draw"`
}

// StreamConfig holds the websocket snapshot stream parameters.
type StreamConfig struct {
	Addr       string `yaml:"addr"` // empty = disabled
	BufferSize int    `yaml:"buffer_size"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ObjectIndex map[components.ObjectTag]int // tag -> index into Objects
	BandTags    []components.ObjectTag       // parsed Generation.Bands tags
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := cfg.merge(data); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge decodes a user file over c. Only fields present in the file are
// overwritten. Entries of objects merge into the template with the same tag;
// every other list, generation.bands included, replaces the default whole.
func (c *Config) merge(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.ShortTag() == "!!null" {
		return nil
	}

	var objects *yaml.Node
	if root.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == "objects" {
				objects = root.Content[i+1]
				root.Content = append(root.Content[:i:i], root.Content[i+2:]...)
				break
			}
		}
	}
	if err := root.Decode(c); err != nil {
		return err
	}
	if objects == nil {
		return nil
	}
	return c.mergeObjects(objects)
}

func (c *Config) mergeObjects(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: objects must be a list", node.Line)
	}
	for _, item := range node.Content {
		var head struct {
			Tag string `yaml:"tag"`
		}
		if err := item.Decode(&head); err != nil {
			return err
		}
		i := slices.IndexFunc(c.Objects, func(o ObjectConfig) bool { return o.Tag == head.Tag })
		if i < 0 {
			var obj ObjectConfig
			if err := item.Decode(&obj); err != nil {
				return err
			}
			c.Objects = append(c.Objects, obj)
			continue
		}
		if err := item.Decode(&c.Objects[i]); err != nil {
			return err
		}
	}
	return nil
}

// Default returns the embedded defaults. Panics if they fail to load.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.ObjectIndex = make(map[components.ObjectTag]int, len(c.Objects))
	for i, obj := range c.Objects {
		tag, err := components.ParseObjectTag(obj.Tag)
		if err != nil {
			return fmt.Errorf("objects[%d]: %w", i, err)
		}
		c.Derived.ObjectIndex[tag] = i
	}

	// Built structures fall back to shelter stats
	if _, ok := c.Derived.ObjectIndex[components.TagStructure]; !ok {
		if i, ok := c.Derived.ObjectIndex[components.TagShelter]; ok {
			structure := c.Objects[i]
			structure.Tag = components.TagStructure.String()
			c.Objects = append(c.Objects, structure)
			c.Derived.ObjectIndex[components.TagStructure] = len(c.Objects) - 1
		}
	}

	c.Derived.BandTags = make([]components.ObjectTag, len(c.Generation.Bands))
	for i, band := range c.Generation.Bands {
		tag, err := components.ParseObjectTag(band.Object)
		if err != nil {
			return fmt.Errorf("generation.bands[%d]: %w", i, err)
		}
		c.Derived.BandTags[i] = tag
	}

	if c.Perception.HPBucket <= 0 {
		c.Perception.HPBucket = 1
	}
	return nil
}

// Validate checks invariants the simulation relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world: size must be positive, got %dx%d", c.World.Width, c.World.Height))
	}
	if c.Agent.SpawnX < 0 || c.Agent.SpawnX >= c.World.Width || c.Agent.SpawnY < 0 || c.Agent.SpawnY >= c.World.Height {
		errs = append(errs, fmt.Errorf("agent: spawn (%d,%d) outside world", c.Agent.SpawnX, c.Agent.SpawnY))
	}
	if c.Interaction.RollSides <= 0 {
		errs = append(errs, errors.New("interaction: roll_sides must be positive"))
	}
	if c.Generation.RollRange <= 0 {
		errs = append(errs, errors.New("generation: roll_range must be positive"))
	}
	for i, tag := range c.Derived.BandTags {
		if _, ok := c.Derived.ObjectIndex[tag]; !ok {
			errs = append(errs, fmt.Errorf("generation.bands[%d]: no object template for %q", i, tag))
		}
	}
	for i, obj := range c.Objects {
		if _, err := components.ParseDrawType(obj.Draw); err != nil {
			errs = append(errs, fmt.Errorf("objects[%d]: %w", i, err))
		}
	}
	for name := range c.Policy.DefaultWeights {
		if _, err := components.ParseAction(name); err != nil {
			errs = append(errs, fmt.Errorf("policy.default_weights: %w", err))
		}
	}
	if c.Training.Samples < 0 || c.Training.Generations < 0 {
		errs = append(errs, errors.New("training: generations and samples must not be negative"))
	}
	if c.Training.MaxTicks <= 0 {
		errs = append(errs, errors.New("training: max_ticks must be positive"))
	}
	return errors.Join(errs...)
}

// Object returns the template for tag, or false if none is configured.
func (c *Config) Object(tag components.ObjectTag) (ObjectConfig, bool) {
	i, ok := c.Derived.ObjectIndex[tag]
	if !ok {
		return ObjectConfig{}, false
	}
	return c.Objects[i], true
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
