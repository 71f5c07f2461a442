package tracks

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"genoscope/models/constants"
	trackKind "genoscope/models/constants/track-kind"
)

// layoutFile is the YAML shape persisted between sessions; track
// state survives file loads and process restarts.
type layoutFile struct {
	Visible       []string       `yaml:"visible"`
	Heights       map[string]int `yaml:"heights,omitempty"`
	Filters       map[string]bool `yaml:"filters,omitempty"`
	SequencePanel bool           `yaml:"sequencePanel"`
}

// DefaultLayoutPath resolves to ~/.genoscope.yaml.
func DefaultLayoutPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".genoscope.yaml"
	}
	return filepath.Join(home, ".genoscope.yaml")
}

// Save writes the state to path.
func (s *State) Save(path string) error {
	file := layoutFile{
		Heights:       map[string]int{},
		Filters:       map[string]bool{},
		SequencePanel: s.sequencePanel,
	}
	for _, kind := range trackKind.VerticalOrder() {
		if kind != trackKind.Ruler && s.visible.Has(kind) {
			file.Visible = append(file.Visible, string(kind))
		}
	}
	for kind, height := range s.heights {
		file.Heights[string(kind)] = height
	}
	for ft, enabled := range s.filters {
		file.Filters[string(ft)] = enabled
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadState reads a layout file; a missing file yields the defaults.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultState(), nil
	}
	if err != nil {
		return nil, err
	}
	var file layoutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	s := DefaultState()
	s.visible.Clear()
	for _, name := range file.Visible {
		if kind, ok := trackKind.CastToTrackKind(name); ok {
			s.visible.Add(kind)
		}
	}
	for name, height := range file.Heights {
		if kind, ok := trackKind.CastToTrackKind(name); ok {
			s.SetHeight(kind, height)
		}
	}
	for name, enabled := range file.Filters {
		s.filters[constants.FeatureType(name)] = enabled
	}
	s.sequencePanel = file.SequencePanel
	return s, nil
}
