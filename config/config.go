/*
 * config.go, part of mdsim
 *
 * Copyright 2026 The mdsim developers
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as published by
 * the Free Software Foundation, either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

//Package config holds the YAML run configuration for mdsim jobs.
package config

import (
	"os"

	"github.com/quimlab/mdsim/md"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEngine         = "openmm"
	DefaultForceField     = "amber14-all.xml"
	DefaultWaterModel     = "amber14/tip3pfb.xml"
	DefaultPadding        = 1.0
	DefaultTemperature    = 300.0
	DefaultPressure       = 1.0
	DefaultTimeStep       = 0.002
	DefaultFriction       = 1.0
	DefaultSteps          = 10000
	DefaultReportInterval = 100
)

type Config struct {
	Structure      string  `yaml:"structure"`       //input PDB
	Engine         string  `yaml:"engine"`          //openmm or gromacs
	JobName        string  `yaml:"job_name"`
	ForceField     string  `yaml:"force_field"`
	WaterModel     string  `yaml:"water_model"`
	Padding        float64 `yaml:"padding"`         //nm
	Temperature    float64 `yaml:"temperature"`     //K
	Pressure       float64 `yaml:"pressure"`        //bar
	TimeStep       float64 `yaml:"time_step"`       //ps
	Friction       float64 `yaml:"friction"`        //1/ps
	Steps          int     `yaml:"steps"`
	ReportInterval int     `yaml:"report_interval"`
	ConstrainHBond bool    `yaml:"constrain_hbond"`
	OutputDir      string  `yaml:"output_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine:         DefaultEngine,
		JobName:        "mdsim",
		ForceField:     DefaultForceField,
		WaterModel:     DefaultWaterModel,
		Padding:        DefaultPadding,
		Temperature:    DefaultTemperature,
		Pressure:       DefaultPressure,
		TimeStep:       DefaultTimeStep,
		Friction:       DefaultFriction,
		Steps:          DefaultSteps,
		ReportInterval: DefaultReportInterval,
		ConstrainHBond: true,
		OutputDir:      ".",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

//Spec translates the configuration into simulation parameters for a
//md.Handle.
func (c *Config) Spec() *md.Spec {
	S := new(md.Spec)
	S.SetDefaults()
	S.ForceField = c.ForceField
	S.WaterModel = c.WaterModel
	S.Padding = c.Padding
	S.Temperature = c.Temperature
	S.Pressure = c.Pressure
	S.TimeStep = c.TimeStep
	S.Friction = c.Friction
	S.Steps = c.Steps
	S.ReportInterval = c.ReportInterval
	S.ConstrainHBond = c.ConstrainHBond
	return S
}

//Handle returns the driver selected by the configuration. An unknown
//engine name falls back to OpenMM.
func (c *Config) Handle() md.Handle {
	var h md.Handle
	switch c.Engine {
	case "gromacs":
		h = md.NewGromacsHandle()
	default:
		h = md.NewOpenMMHandle()
	}
	h.SetName(c.JobName)
	return h
}
