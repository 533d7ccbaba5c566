package repositories

import (
	"fmt"
	"io"
	"os"
	"strings"

	"mdvrp-planner/internal/domain"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout of scenario seed and check files.
// Vehicles reference their depot by name; ids are assigned on load.
type SeedFile struct {
	Scenarios []SeedScenario `yaml:"scenarios"`
}

type SeedScenario struct {
	Name      string         `yaml:"name"`
	Date      string         `yaml:"date"`
	Customers []SeedCustomer `yaml:"customers"`
	Depots    []SeedDepot    `yaml:"depots"`
	Vehicles  []SeedVehicle  `yaml:"vehicles"`
}

type SeedCustomer struct {
	Name   string  `yaml:"name"`
	Lat    float64 `yaml:"lat"`
	Lng    float64 `yaml:"lng"`
	Demand float64 `yaml:"demand"`
}

type SeedDepot struct {
	Name        string   `yaml:"name"`
	Lat         float64  `yaml:"lat"`
	Lng         float64  `yaml:"lng"`
	Capacity    float64  `yaml:"capacity"`
	MaxDistance *float64 `yaml:"max_distance"`
	Type        string   `yaml:"type"`
}

type SeedVehicle struct {
	Capacity float64 `yaml:"capacity"`
	Depot    string  `yaml:"depot"`
}

// LoadSeedFile reads and converts a YAML scenario file.
func LoadSeedFile(path string) ([]domain.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}
	defer f.Close()

	out, err := DecodeSeed(f)
	if err != nil {
		return nil, fmt.Errorf("load seed %s: %w", path, err)
	}
	return out, nil
}

func DecodeSeed(r io.Reader) ([]domain.Scenario, error) {
	var file SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	out := make([]domain.Scenario, 0, len(file.Scenarios))
	for i, s := range file.Scenarios {
		sc, err := s.toDomain()
		if err != nil {
			return nil, fmt.Errorf("scenario #%d %q: %w", i+1, s.Name, err)
		}
		out = append(out, sc)
	}
	return out, nil
}

func (s SeedScenario) toDomain() (domain.Scenario, error) {
	sc := domain.Scenario{
		ID:   uuid.NewString(),
		Name: strings.TrimSpace(s.Name),
		Date: s.Date,
	}

	depotIDs := make(map[string]string, len(s.Depots))
	for _, d := range s.Depots {
		id := uuid.NewString()
		depotIDs[strings.ToLower(strings.TrimSpace(d.Name))] = id
		sc.Depots = append(sc.Depots, domain.Depot{
			ID:          id,
			Name:        d.Name,
			Location:    domain.Coordinates{Lat: d.Lat, Lon: d.Lng},
			Capacity:    d.Capacity,
			MaxDistance: d.MaxDistance,
			Type:        d.Type,
		})
	}

	for _, c := range s.Customers {
		sc.Customers = append(sc.Customers, domain.Customer{
			ID:       uuid.NewString(),
			Name:     c.Name,
			Location: domain.Coordinates{Lat: c.Lat, Lon: c.Lng},
			Demand:   c.Demand,
		})
	}

	for i, v := range s.Vehicles {
		var depotID string
		if ref := strings.ToLower(strings.TrimSpace(v.Depot)); ref != "" {
			id, ok := depotIDs[ref]
			if !ok {
				return domain.Scenario{}, fmt.Errorf("vehicle #%d: unknown depot %q", i+1, v.Depot)
			}
			depotID = id
		}
		sc.Vehicles = append(sc.Vehicles, domain.Vehicle{
			ID:       uuid.NewString(),
			Capacity: v.Capacity,
			DepotID:  depotID,
		})
	}

	return sc, nil
}
