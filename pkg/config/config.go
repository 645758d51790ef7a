package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/civic-lab/partes/pkg/domain/types"
)

// Unit is a technical unit a request can be routed to
type Unit struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks if the Unit is valid
func (u *Unit) Validate() error {
	id := types.UnitID(u.ID)
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid unit ID")
	}
	if u.Name == "" {
		return goerr.New("unit name is required", goerr.V("id", u.ID))
	}
	return nil
}

// Thresholds are the expected maximum whole-day durations per stage.
// A stage running longer than its threshold is flagged as exceeded.
type Thresholds struct {
	Reception     int `toml:"reception"`
	Derivation    int `toml:"derivation"`
	UnitExecution int `toml:"unit_execution"`
	Resolution    int `toml:"resolution"`
}

// Validate checks if every threshold is a positive day count
func (t *Thresholds) Validate() error {
	checks := []struct {
		name string
		days int
	}{
		{"reception", t.Reception},
		{"derivation", t.Derivation},
		{"unit_execution", t.UnitExecution},
		{"resolution", t.Resolution},
	}
	for _, c := range checks {
		if c.days <= 0 {
			return goerr.New("stage threshold must be positive",
				goerr.V("stage", c.name), goerr.V("days", c.days))
		}
	}
	return nil
}

// Storage selects the persistence backend
type Storage struct {
	// Mode is one of: memory, file, sqlite, remote, gcs, firestore
	Mode string `toml:"mode"`

	Path             string `toml:"path"`              // file, sqlite
	URL              string `toml:"url"`               // remote
	Bucket           string `toml:"bucket"`            // gcs
	Object           string `toml:"object"`            // gcs
	ProjectID        string `toml:"project_id"`        // firestore
	CollectionPrefix string `toml:"collection_prefix"` // firestore
}

var storageModes = map[string]bool{
	"": true, "memory": true, "file": true, "sqlite": true,
	"remote": true, "gcs": true, "firestore": true,
}

// Validate checks if the Storage selection is consistent
func (s *Storage) Validate() error {
	if !storageModes[s.Mode] {
		return goerr.New("unknown storage mode", goerr.V("mode", s.Mode))
	}
	switch s.Mode {
	case "file", "sqlite":
		if s.Path == "" {
			return goerr.New("storage path is required", goerr.V("mode", s.Mode))
		}
	case "remote":
		if s.URL == "" {
			return goerr.New("storage url is required", goerr.V("mode", s.Mode))
		}
	case "gcs":
		if s.Bucket == "" || s.Object == "" {
			return goerr.New("storage bucket and object are required", goerr.V("mode", s.Mode))
		}
	case "firestore":
		if s.ProjectID == "" {
			return goerr.New("storage project_id is required", goerr.V("mode", s.Mode))
		}
	}
	return nil
}

// AppConfig is the application configuration loaded from TOML
type AppConfig struct {
	Units      []Unit     `toml:"unit"`
	Thresholds Thresholds `toml:"thresholds"`
	Storage    Storage    `toml:"storage"`
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	unitIDs := make(map[string]bool)
	for i := range a.Units {
		if err := a.Units[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid unit")
		}
		if unitIDs[a.Units[i].ID] {
			return goerr.New("duplicate unit ID", goerr.V("id", a.Units[i].ID))
		}
		unitIDs[a.Units[i].ID] = true
	}

	if err := a.Thresholds.Validate(); err != nil {
		return goerr.Wrap(err, "invalid thresholds")
	}
	if err := a.Storage.Validate(); err != nil {
		return goerr.Wrap(err, "invalid storage")
	}
	return nil
}

// UnitNames returns the display-name catalog keyed by unit ID
func (a *AppConfig) UnitNames() map[types.UnitID]string {
	names := make(map[types.UnitID]string, len(a.Units))
	for _, u := range a.Units {
		names[types.UnitID(u.ID)] = u.Name
	}
	return names
}

// Load reads and validates an AppConfig from a TOML file. Missing
// units or zero thresholds fall back to the defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var cfg AppConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}

	if len(cfg.Units) == 0 {
		cfg.Units = DefaultUnits()
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid config", goerr.V("path", path))
	}
	return &cfg, nil
}

// DefaultUnits returns the municipal technical unit catalog
func DefaultUnits() []Unit {
	return []Unit{
		{ID: "desarrollo-economico", Name: "Desarrollo Económico"},
		{ID: "dat", Name: "DAT"},
		{ID: "parques-jardines", Name: "Parques y Jardines"},
		{ID: "alumbrado-publico", Name: "Alumbrado Público"},
		{ID: "fiscalizacion", Name: "Fiscalización"},
		{ID: "transito", Name: "Tránsito"},
		{ID: "patentes-comerciales", Name: "Patentes Comerciales"},
	}
}

// DefaultThresholds returns the stage thresholds in days
func DefaultThresholds() Thresholds {
	return Thresholds{
		Reception:     3,
		Derivation:    2,
		UnitExecution: 10,
		Resolution:    5,
	}
}
