package network

import (
	"cmp"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
)

// Manifest is the YAML representation of network configuration.
type Manifest struct {
	// A YAML array of networks.
	Networks []Network `yaml:"networks"`
	// A YAML array of polytone connections between the networks.
	Polytone []PolytoneConnection `yaml:"polytone"`
}

// Config represents the configuration of a collection of networks and the polytone
// connections between them. This is loaded from the YAML manifest file/s.
type Config struct {
	// networks is a map of networks by their chain id so we can ensure uniqueness and quickly
	// lookup a network.
	networks map[string]Network
	// polytone is keyed by source chain id, then note address.
	polytone map[string]map[string]PolytoneConnection
}

// NewConfig creates a new config. Any duplicate chain ids or notes are overwritten.
func NewConfig(networks []Network, connections ...PolytoneConnection) *Config {
	cfg := &Config{
		networks: make(map[string]Network, len(networks)),
		polytone: make(map[string]map[string]PolytoneConnection),
	}

	for _, network := range networks {
		cfg.networks[network.ChainID] = network
	}
	for _, conn := range connections {
		cfg.addConnection(conn)
	}

	return cfg
}

func (c *Config) addConnection(conn PolytoneConnection) {
	notes, ok := c.polytone[conn.SourceChainID]
	if !ok {
		notes = make(map[string]PolytoneConnection)
		c.polytone[conn.SourceChainID] = notes
	}
	notes[conn.Note] = conn
}

// Validate ensures that all networks and connections are valid, and that every connection
// links configured networks.
func (c *Config) Validate() error {
	for _, network := range c.Networks() {
		if err := network.Validate(); err != nil {
			return fmt.Errorf("network %s: %w", network.ChainID, err)
		}
	}

	for _, conn := range c.Connections() {
		if err := conn.Validate(); err != nil {
			return fmt.Errorf("polytone note %s: %w", conn.Note, err)
		}
		for _, id := range []string{conn.SourceChainID, conn.DestinationChainID} {
			if _, ok := c.networks[id]; !ok {
				return fmt.Errorf("polytone note %s: network %s not configured", conn.Note, id)
			}
		}
	}

	return nil
}

// Networks returns all networks sorted by chain id.
func (c *Config) Networks() []Network {
	return slices.SortedFunc(maps.Values(c.networks), func(a, b Network) int {
		return cmp.Compare(a.ChainID, b.ChainID)
	})
}

// ChainIDs returns the sorted chain ids of all networks.
func (c *Config) ChainIDs() []string {
	return slices.Sorted(maps.Keys(c.networks))
}

// NetworkByChainID retrieves a network by its chain id. If the network is not found, an error
// is returned.
func (c *Config) NetworkByChainID(chainID string) (Network, error) {
	network, ok := c.networks[chainID]
	if !ok {
		return Network{}, fmt.Errorf("network with chain id %s not found in configuration", chainID)
	}

	return network, nil
}

// Connections returns every polytone connection, ordered by source chain then note.
func (c *Config) Connections() []PolytoneConnection {
	conns := make([]PolytoneConnection, 0)
	for _, source := range slices.Sorted(maps.Keys(c.polytone)) {
		conns = append(conns, c.PolytoneFrom(source)...)
	}

	return conns
}

// PolytoneFrom returns the connections whose note lives on sourceChainID, ordered by
// destination chain.
func (c *Config) PolytoneFrom(sourceChainID string) []PolytoneConnection {
	conns := slices.Collect(maps.Values(c.polytone[sourceChainID]))
	slices.SortFunc(conns, func(a, b PolytoneConnection) int {
		return cmp.Or(
			cmp.Compare(a.DestinationChainID, b.DestinationChainID),
			cmp.Compare(a.Note, b.Note),
		)
	})

	return conns
}

// PolytoneNote looks up the connection for a note contract on sourceChainID.
func (c *Config) PolytoneNote(sourceChainID, note string) (PolytoneConnection, bool) {
	conn, ok := c.polytone[sourceChainID][note]

	return conn, ok
}

// Merge merges another config into the current config.
// It overwrites any networks with the same chain id and connections with the same note.
func (c *Config) Merge(other *Config) {
	maps.Copy(c.networks, other.networks)
	for _, conn := range other.Connections() {
		c.addConnection(conn)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for the Config struct.
func (c *Config) MarshalYAML() (any, error) {
	return Manifest{
		Networks: c.Networks(),
		Polytone: c.Connections(),
	}, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for the Config struct.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	node := Manifest{}

	if err := value.Decode(&node); err != nil {
		return err
	}

	*c = *NewConfig(node.Networks, node.Polytone...)

	return nil
}

// NetworkFilter defines a function type that filters networks based on certain criteria.
type NetworkFilter func(Network) bool

// FilterWith returns a new Config containing only Networks that pass all provided filter
// functions, and the connections between them.
func (c *Config) FilterWith(filters ...NetworkFilter) *Config {
	networks := c.Networks()

	for _, filter := range filters {
		networks = slices.DeleteFunc(networks, func(network Network) bool {
			return !filter(network)
		})
	}

	kept := NewConfig(networks)
	for _, conn := range c.Connections() {
		_, src := kept.networks[conn.SourceChainID]
		_, dst := kept.networks[conn.DestinationChainID]
		if src && dst {
			kept.addConnection(conn)
		}
	}

	return kept
}

// TypesFilter returns a filter function that matches networks with the specified types.
func TypesFilter(networkTypes ...NetworkType) NetworkFilter {
	return func(network Network) bool {
		return slices.Contains(networkTypes, network.Type)
	}
}

// ChainIDFilter returns a filter function that matches the specified chain ids.
func ChainIDFilter(chainIDs ...string) NetworkFilter {
	return func(network Network) bool {
		return slices.Contains(chainIDs, network.ChainID)
	}
}

// Load loads configuration from the specified file paths, and merges them into a single Config.
func Load(filePaths ...string) (*Config, error) {
	cfg := NewConfig(nil)

	for _, fp := range filePaths {
		data, err := os.ReadFile(fp)
		if err != nil {
			return nil, fmt.Errorf("failed to read networks file: %w", err)
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal networks YAML: %w", err)
		}

		cfg.Merge(&fileCfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate networks configuration: %w", err)
	}

	return cfg, nil
}

// FamilyFilter returns a filter function that matches networks of the given contract family.
func FamilyFilter(family chain.Family) NetworkFilter {
	return func(network Network) bool {
		return network.Family == family
	}
}
