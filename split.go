/*
 * split.go, part of mdsim.
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
 *
 */

package mdsim

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//Crystallographic structures sometimes resolve parts of the molecule in two
//or more alternate conformations, marked per atom with a letter in the
//alternate-location column. A structure like that is not usable as
//simulation input as-is: the conformations overlap in space. The functions
//here take such a structure apart, producing one self-consistent structure
//per conformation.

const altLocCol = 16 //0-based column of the alternate-location indicator.

// An AltLocGroup is one alternate conformation of a structure: the records
// common to all conformations merged, in original record order, with the
// records carrying one particular alternate-location marker. The marker
// column is blanked in every record, so the group is a standard,
// unambiguous set of PDB coordinate records.
type AltLocGroup struct {
	Marker  byte
	Records []string
}

// altLocOf returns the alternate-location marker of a coordinate record.
func altLocOf(line string) byte {
	return line[altLocCol]
}

// blankAltLoc returns the record with the alternate-location column blanked.
func blankAltLoc(line string) string {
	return line[:altLocCol] + " " + line[altLocCol+1:]
}

// SplitAltLoc reads PDB records from r and returns one AltLocGroup per
// distinct non-default alternate-location marker found. If no atom carries
// a marker, it returns an empty slice. Only ATOM/HETATM records are
// considered; anything else, including coordinate records too short to
// carry the full fixed-width fields, is skipped silently.
func SplitAltLoc(r io.Reader) ([]*AltLocGroup, error) {
	type record struct {
		altloc byte
		line   string
	}
	records := make([]record, 0, 100)
	markers := make([]byte, 0, 2)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !isCoordRecord(line) || len(line) < 54 {
			continue
		}
		al := altLocOf(line)
		records = append(records, record{altloc: al, line: line})
		if al != ' ' && !strings.Contains(string(markers), string(al)) {
			markers = append(markers, al)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, CError{"Failed reading input: " + err.Error(), []string{"SplitAltLoc"}}
	}
	if len(markers) == 0 {
		return []*AltLocGroup{}, nil
	}
	//sorted markers give a deterministic output order regardless of where
	//each conformation shows up first in the file.
	sort.Slice(markers, func(i, j int) bool { return markers[i] < markers[j] })
	groups := make([]*AltLocGroup, 0, len(markers))
	for _, m := range markers {
		g := &AltLocGroup{Marker: m, Records: make([]string, 0, len(records))}
		for _, rec := range records {
			if rec.altloc == ' ' || rec.altloc == m {
				g.Records = append(g.Records, blankAltLoc(rec.line))
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// SplitAltLocFile splits the PDB file with the given name into one file per
// alternate conformation, named <base>_<marker>.pdb, and returns the names
// of the files written. A file without alternate locations produces no
// output files and no error.
func SplitAltLocFile(pdbname string) ([]string, error) {
	pdbfile, err := os.Open(pdbname)
	if err != nil {
		return nil, err
	}
	groups, err := SplitAltLoc(pdbfile)
	pdbfile.Close()
	if err != nil {
		return nil, errDecorate(err, "SplitAltLocFile "+pdbname)
	}
	if len(groups) == 0 {
		return []string{}, nil
	}
	base := strings.TrimSuffix(pdbname, ".pdb")
	written := make([]string, 0, len(groups))
	for _, g := range groups {
		name := fmt.Sprintf("%s_%c.pdb", base, g.Marker)
		out, err := os.Create(name)
		if err != nil {
			return written, err
		}
		w := bufio.NewWriter(out)
		for _, rec := range g.Records {
			w.WriteString(rec)
			w.WriteByte('\n')
		}
		if err := w.Flush(); err != nil {
			out.Close()
			return written, CError{"Failed writing " + name + ": " + err.Error(), []string{"SplitAltLocFile"}}
		}
		if err := out.Close(); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}
