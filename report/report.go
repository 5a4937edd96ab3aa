/*
 * report.go, part of mdsim
 *
 * Copyright 2026 The mdsim developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

//Package report reads and writes tables of scalar observables sampled
//along a simulation, in the comma-separated format produced by the usual
//MD state-data reporters.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//Header is the column header written at the top of every observable
//table. The leading '#' marks it as a comment for naive CSV readers.
const Header = `#"Step","Time (ps)","Potential Energy (kJ/mole)","Total Energy (kJ/mole)","Temperature (K)"`

//Names of the data columns, in file order.
var Columns = []string{"Time (ps)", "Potential Energy (kJ/mole)", "Total Energy (kJ/mole)", "Temperature (K)"}

//Writer writes an observable table to a file, one sampled step per line.
type Writer struct {
	f         *os.File
	w         *bufio.Writer
	filename  string
	writeable bool
}

//NewWriter creates the file name and writes the column header to it.
func NewWriter(name string) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Create", "NewWriter"}, true}
	}
	W := &Writer{f: f, w: bufio.NewWriter(f), filename: name, writeable: true}
	if _, err := W.w.WriteString(Header + "\n"); err != nil {
		f.Close()
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	return W, nil
}

//WNext appends one sampled step to the table. time is in ps, the
//energies in kJ/mol and the temperature in K.
func (W *Writer) WNext(step int, time, epot, etot, temp float64) error {
	if !W.writeable {
		return Error{TableUnIniWrite, W.filename, []string{"WNext"}, true}
	}
	_, err := fmt.Fprintf(W.w, "%d,%.4f,%.6f,%.6f,%.6f\n", step, time, epot, etot, temp)
	if err != nil {
		return Error{err.Error(), W.filename, []string{"WNext"}, true}
	}
	return nil
}

//Close flushes and closes the table. W can not be written after this
//call.
func (W *Writer) Close() {
	if !W.writeable {
		return
	}
	W.w.Flush()
	W.f.Close()
	W.writeable = false
}

//A Table holds the scalar observables sampled along a simulation, one
//slice per column.
type Table struct {
	Step []int
	Time []float64 //ps
	Epot []float64 //kJ/mol
	Etot []float64 //kJ/mol
	Temp []float64 //K
}

//Len returns the number of sampled steps in the table.
func (T *Table) Len() int {
	return len(T.Step)
}

//Series returns the column with the given name, to be plotted against
//time. The names are those in Columns.
func (T *Table) Series(name string) ([]float64, error) {
	switch name {
	case "Time (ps)":
		return T.Time, nil
	case "Potential Energy (kJ/mole)":
		return T.Epot, nil
	case "Total Energy (kJ/mole)":
		return T.Etot, nil
	case "Temperature (K)":
		return T.Temp, nil
	}
	return nil, Error{fmt.Sprintf("No column named '%s' in table", name), "", []string{"Series"}, true}
}

//Read parses an observable table from r. Lines starting with '#' are
//taken as headers and skipped, empty lines are ignored.
func Read(r io.Reader) (*Table, error) {
	T := new(Table)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		str := strings.TrimSpace(scanner.Text())
		if str == "" || strings.HasPrefix(str, "#") {
			continue
		}
		fields := strings.Split(str, ",")
		if len(fields) != 5 {
			return nil, Error{fmt.Sprintf("Wrong number of fields in line %d: %s", line, str), "", []string{"Read"}, true}
		}
		step, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, Error{fmt.Sprintf("Can't parse step in line %d: %s", line, err.Error()), "", []string{"Read"}, true}
		}
		vals := make([]float64, 4)
		for i, v := range fields[1:] {
			vals[i], err = strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, Error{fmt.Sprintf("Can't parse field %d in line %d: %s", i+1, line, err.Error()), "", []string{"Read"}, true}
			}
		}
		T.Step = append(T.Step, step)
		T.Time = append(T.Time, vals[0])
		T.Epot = append(T.Epot, vals[1])
		T.Etot = append(T.Etot, vals[2])
		T.Temp = append(T.Temp, vals[3])
	}
	if err := scanner.Err(); err != nil {
		return nil, Error{err.Error(), "", []string{"Read"}, true}
	}
	return T, nil
}

//ReadFile parses the observable table in the file name.
func ReadFile(name string) (*Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Open", "ReadFile"}, true}
	}
	defer f.Close()
	T, err := Read(f)
	if err != nil {
		return nil, errDecorate(err, "ReadFile")
	}
	return T, nil
}

//errDecorate asserts that the error implements the Decorate method and
//decorates it with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.deco = append(err2.deco, caller)
	return err2
}

//Error is the general structure for observable-table errors.
type Error struct {
	message  string
	filename string //the table file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("report error: %s", err.message)
	}
	return fmt.Sprintf("report file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error.
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file to which the failing table was associated.
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	TableUnIniWrite = "Table object uninitialized to write"
)
