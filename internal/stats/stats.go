// Package stats decodes the statistics document served by the API
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DecodeError is returned when the payload is not a statistics document
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse statistics: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Statistics is the top level API response
type Statistics struct {
	Message string `json:"message"`
	Data    Data   `json:"data"`
}

// Data holds the counters for one reporting day
type Data struct {
	Date     string   `json:"date"`
	Day      int64    `json:"day"`
	Resource string   `json:"resource"`
	Stats    Counters `json:"stats"`
	Increase Counters `json:"increase"`
}

// Counters is used for both the running totals and the daily increase
type Counters struct {
	PersonnelUnits           int64 `json:"personnel_units"`
	Tanks                    int64 `json:"tanks"`
	ArmouredFightingVehicles int64 `json:"armoured_fighting_vehicles"`
	ArtillerySystems         int64 `json:"artillery_systems"`
	MLRS                     int64 `json:"mlrs"`
	AAWarfareSystems         int64 `json:"aa_warfare_systems"`
	Planes                   int64 `json:"planes"`
	Helicopters              int64 `json:"helicopters"`
	VehiclesFuelTanks        int64 `json:"vehicles_fuel_tanks"`
	WarshipsCutters          int64 `json:"warships_cutters"`
	CruiseMissiles           int64 `json:"cruise_missiles"`
	UAVSystems               int64 `json:"uav_systems"`
	SpecialMilitaryEquip     int64 `json:"special_military_equip"`
	ATGMSRBMSystems          int64 `json:"atgm_srbm_systems"`
}

// Counter is a single named value, used for tabular output
type Counter struct {
	Name  string
	Value int64
}

// List returns the counters in the order the API documents them
func (c Counters) List() []Counter {
	return []Counter{
		{"personnel_units", c.PersonnelUnits},
		{"tanks", c.Tanks},
		{"armoured_fighting_vehicles", c.ArmouredFightingVehicles},
		{"artillery_systems", c.ArtillerySystems},
		{"mlrs", c.MLRS},
		{"aa_warfare_systems", c.AAWarfareSystems},
		{"planes", c.Planes},
		{"helicopters", c.Helicopters},
		{"vehicles_fuel_tanks", c.VehiclesFuelTanks},
		{"warships_cutters", c.WarshipsCutters},
		{"cruise_missiles", c.CruiseMissiles},
		{"uav_systems", c.UAVSystems},
		{"special_military_equip", c.SpecialMilitaryEquip},
		{"atgm_srbm_systems", c.ATGMSRBMSystems},
	}
}

// Parse decodes raw response text
func Parse(text string) (*Statistics, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &DecodeError{Err: errors.New("empty payload")}
	}

	var s Statistics
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, &DecodeError{Err: err}
	}

	if err := checkShape(text); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &s, nil
}

// shape mirrors the sections every document must carry. Missing or null
// sections decode to nil here, where Statistics would silently zero them.
type shape struct {
	Data *struct {
		Stats    *Counters `json:"stats"`
		Increase *Counters `json:"increase"`
	} `json:"data"`
}

func checkShape(text string) error {
	var sh shape
	if err := json.Unmarshal([]byte(text), &sh); err != nil {
		return err
	}

	switch {
	case sh.Data == nil:
		return errors.New("missing data section")
	case sh.Data.Stats == nil:
		return errors.New("missing data.stats section")
	case sh.Data.Increase == nil:
		return errors.New("missing data.increase section")
	}

	return nil
}
