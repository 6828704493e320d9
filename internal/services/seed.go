package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedCatalog is the starter set written on first boot. Matches reference
// teams by name within the same catalog.
type SeedCatalog struct {
	Teams     []SeedTeam    `yaml:"teams"`
	Matches   []SeedMatch   `yaml:"matches"`
}

type SeedTeam struct {
	Name   string   `yaml:"name"`
	Logo   string   `yaml:"logo"`
	Form   string   `yaml:"form"`
}

type SeedMatch struct {
	League     string    `yaml:"league"`
	Time       string    `yaml:"time"`
	HomeTeam   string    `yaml:"homeTeam"`
	AwayTeam   string    `yaml:"awayTeam"`
	P1         float64   `yaml:"p1"`
	X          float64   `yaml:"x"`
	P2         float64   `yaml:"p2"`
	IsLive     bool      `yaml:"isLive"`
	Score      *string   `yaml:"score"`
}

func DefaultSeedCatalog() SeedCatalog {
	return SeedCatalog{
		Teams: []SeedTeam{
			{Name: "Bologna", Logo: "🔵", Form: "8-6-8"},
			{Name: "Milan", Logo: "🔴⚫", Form: "13-8-1"},
			{Name: "Bayer L", Logo: "🔴", Form: "8-6-8"},
			{Name: "St. Pauli", Logo: "⚪", Form: "13-8-1"},
			{Name: "Albacete", Logo: "⚪", Form: "8-6-8"},
			{Name: "Barcelona", Logo: "🔵🔴", Form: "13-8-1"},
		},
		Matches: []SeedMatch{
			{League: "Football. Serie A", Time: "Today 22:45", HomeTeam: "Bologna", AwayTeam: "Milan", P1: 2.94, X: 3.09, P2: 2.56},
			{League: "Football. Bundesliga", Time: "Today 22:45", HomeTeam: "Bayer L", AwayTeam: "St. Pauli", P1: 1.47, X: 4.59, P2: 6.42},
			{League: "Football. La Liga", Time: "Today 23:00", HomeTeam: "Albacete", AwayTeam: "Barcelona", P1: 11.03, X: 7.22, P2: 1.21},
		},
	}
}

func LoadSeedCatalog(path string) (SeedCatalog, error) {
	var catalog SeedCatalog

	raw, err := os.ReadFile(path)
	if err != nil {
		return catalog, fmt.Errorf("failed to read seed file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return catalog, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return catalog, err
	}
	return catalog, nil
}

func (sc SeedCatalog) Validate() error {
	if len(sc.Teams) == 0 {
		return fmt.Errorf("seed catalog has no teams")
	}
	teamNames := make(map[string]bool, len(sc.Teams))
	for _, t := range sc.Teams {
		if t.Name == "" {
			return fmt.Errorf("seed team with empty name")
		}
		if teamNames[t.Name] {
			return fmt.Errorf("duplicate seed team %q", t.Name)
		}
		teamNames[t.Name] = true
	}
	for i, m := range sc.Matches {
		if !teamNames[m.HomeTeam] {
			return fmt.Errorf("seed match %d references unknown home team %q", i, m.HomeTeam)
		}
		if !teamNames[m.AwayTeam] {
			return fmt.Errorf("seed match %d references unknown away team %q", i, m.AwayTeam)
		}
		if m.HomeTeam == m.AwayTeam {
			return fmt.Errorf("seed match %d has the same team on both sides", i)
		}
		if m.P1 <= 0 || m.X <= 0 || m.P2 <= 0 {
			return fmt.Errorf("seed match %d has non-positive odds", i)
		}
	}
	return nil
}
