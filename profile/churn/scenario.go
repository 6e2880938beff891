package main

import (
	"os"

	"github.com/TheBitDrifter/silo"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Scenario describes one churn run.
type Scenario struct {
	Rounds      int    `yaml:"rounds"`
	Groups      int    `yaml:"groups"`
	Entities    int    `yaml:"entities_per_group"`
	Preallocate bool   `yaml:"preallocate"`
	Kinds       []Kind `yaml:"kinds"`
}

// Kind is one entity kind built by the scenario, cycled through by entity id.
type Kind struct {
	Name       string   `yaml:"name"`
	Components []string `yaml:"components"`
}

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

type comp4 struct {
	V int64
	W int64
}

var (
	component1 = silo.FactoryNewComponent[comp1]()
	component2 = silo.FactoryNewComponent[comp2]()
	component3 = silo.FactoryNewComponent[comp3]()
	component4 = silo.FactoryNewComponent[comp4]()

	builders = map[string]silo.ComponentBuilder{
		"comp1": silo.NewBuilder(component1, nil),
		"comp2": silo.NewBuilder(component2, nil),
		"comp3": silo.NewBuilder(component3, nil),
		"comp4": silo.NewBuilder(component4, nil),
	}
)

var defaultScenario = Scenario{
	Rounds:   50,
	Groups:   4,
	Entities: 1000,
	Kinds: []Kind{
		{Name: "small", Components: []string{"comp1", "comp2"}},
		{Name: "large", Components: []string{"comp1", "comp2", "comp3", "comp4"}},
	},
}

// LoadScenario reads a YAML scenario. An empty path falls back to SILO_CHURN_SCENARIO and
// then to the built-in scenario.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		path = os.Getenv("SILO_CHURN_SCENARIO")
	}
	if path == "" {
		sc := defaultScenario
		return &sc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read scenario %s", path)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, eris.Wrapf(err, "failed to parse scenario %s", path)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) validate() error {
	if s.Rounds <= 0 || s.Groups <= 0 || s.Entities <= 0 {
		return eris.New("rounds, groups and entities_per_group must be positive")
	}
	if len(s.Kinds) == 0 {
		return eris.New("scenario needs at least one kind")
	}
	for _, kind := range s.Kinds {
		if len(kind.Components) == 0 {
			return eris.Errorf("kind %q has no components", kind.Name)
		}
		for _, name := range kind.Components {
			if _, ok := builders[name]; !ok {
				return eris.Errorf("kind %q uses unknown component %q", kind.Name, name)
			}
		}
	}
	return nil
}

// registry builds the descriptor registry for the scenario's kinds.
func (s *Scenario) registry() (*silo.DescriptorRegistry, error) {
	registry := silo.Factory.NewDescriptorRegistry(len(s.Kinds))
	for _, kind := range s.Kinds {
		kindBuilders := make([]silo.ComponentBuilder, 0, len(kind.Components))
		for _, name := range kind.Components {
			kindBuilders = append(kindBuilders, builders[name])
		}
		d, err := silo.NewDescriptor(kindBuilders...)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid kind %q", kind.Name)
		}
		if _, err := registry.Register(kind.Name, d); err != nil {
			return nil, eris.Wrapf(err, "invalid kind %q", kind.Name)
		}
	}
	return registry, nil
}
