/*
 * config_test.go
 *
 * Copyright 2026 The mdsim developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quimlab/mdsim/md"
)

func TestDefaults(Te *testing.T) {
	cfg := DefaultConfig()
	if cfg.Engine != "openmm" || cfg.Temperature != 300 || cfg.Steps != 10000 {
		Te.Errorf("unexpected defaults: %+v", cfg)
	}
	if _, ok := cfg.Handle().(*md.OpenMMHandle); !ok {
		Te.Error("default engine is not OpenMM")
	}
}

func TestLoadPartial(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "run.yaml")
	content := "structure: prot.pdb\nengine: gromacs\ntemperature: 310\nsteps: 500\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		Te.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		Te.Fatal(err)
	}
	if cfg.Structure != "prot.pdb" || cfg.Temperature != 310 || cfg.Steps != 500 {
		Te.Errorf("values not loaded: %+v", cfg)
	}
	//unset keys keep the defaults
	if cfg.Pressure != DefaultPressure || cfg.TimeStep != DefaultTimeStep {
		Te.Errorf("defaults lost: %+v", cfg)
	}
	if _, ok := cfg.Handle().(*md.GromacsHandle); !ok {
		Te.Error("engine selection ignored")
	}
	S := cfg.Spec()
	if S.Temperature != 310 || S.Steps != 500 {
		Te.Errorf("spec does not reflect the config: %+v", S)
	}
}

func TestSaveRoundTrip(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "saved.yaml")
	cfg := DefaultConfig()
	cfg.Structure = "input.pdb"
	cfg.Steps = 777
	if err := Save(path, cfg); err != nil {
		Te.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		Te.Fatal(err)
	}
	if got.Structure != "input.pdb" || got.Steps != 777 || got.Engine != cfg.Engine {
		Te.Errorf("round trip lost data: %+v", got)
	}
}
