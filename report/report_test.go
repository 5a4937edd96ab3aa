/*
 * report_test.go
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

package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTableWriteRead(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "observables.csv")
	w, err := NewWriter(name)
	if err != nil {
		Te.Fatal(err)
	}
	steps := []int{100, 200, 300}
	for i, s := range steps {
		err := w.WNext(s, float64(s)*0.002, -5000.5+float64(i), -4800.25+float64(i), 298.15)
		if err != nil {
			Te.Fatal(err)
		}
	}
	w.Close()

	raw, err := os.ReadFile(name)
	if err != nil {
		Te.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != Header {
		Te.Errorf("wrong header: %s", lines[0])
	}
	if len(lines) != len(steps)+1 {
		Te.Errorf("wrong number of lines: got %d, want %d", len(lines), len(steps)+1)
	}

	T, err := ReadFile(name)
	if err != nil {
		Te.Fatal(err)
	}
	if T.Len() != len(steps) {
		Te.Fatalf("wrong table length: got %d, want %d", T.Len(), len(steps))
	}
	for i, s := range steps {
		if T.Step[i] != s {
			Te.Errorf("step %d: got %d, want %d", i, T.Step[i], s)
		}
		if math.Abs(T.Time[i]-float64(s)*0.002) > 1e-4 {
			Te.Errorf("time %d: got %f", i, T.Time[i])
		}
		if math.Abs(T.Epot[i]-(-5000.5+float64(i))) > 1e-6 {
			Te.Errorf("epot %d: got %f", i, T.Epot[i])
		}
		if T.Temp[i] != 298.15 {
			Te.Errorf("temp %d: got %f", i, T.Temp[i])
		}
	}
}

func TestTableSeries(Te *testing.T) {
	T := &Table{
		Step: []int{1, 2},
		Time: []float64{0.002, 0.004},
		Epot: []float64{-10, -11},
		Etot: []float64{-8, -9},
		Temp: []float64{300, 301},
	}
	s, err := T.Series("Temperature (K)")
	if err != nil {
		Te.Fatal(err)
	}
	if len(s) != 2 || s[0] != 300 {
		Te.Errorf("wrong series: %v", s)
	}
	if _, err := T.Series("Pressure"); err == nil {
		Te.Error("expected an error for an unknown column")
	}
}

func TestTableReadMalformed(Te *testing.T) {
	good := Header + "\n100,0.2,-5000,-4800,298.15\n\n"
	if T, err := Read(strings.NewReader(good)); err != nil || T.Len() != 1 {
		Te.Errorf("valid table rejected: %v", err)
	}
	bad := Header + "\n100,0.2,-5000\n"
	if _, err := Read(strings.NewReader(bad)); err == nil {
		Te.Error("expected an error for too few fields")
	}
	bad2 := Header + "\nxx,0.2,-5000,-4800,298.15\n"
	if _, err := Read(strings.NewReader(bad2)); err == nil {
		Te.Error("expected an error for a non-numeric step")
	}
}
