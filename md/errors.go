/*
 * errors.go, part of mdsim.
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
 */

package md

import (
	"fmt"
	"strings"
)

//Engine names, used in errors.
const (
	OpenMM  = "OpenMM"
	Gromacs = "Gromacs"
)

//Error is the general structure for MD driver errors. It fulfills
//mdsim.Error.
type Error struct {
	message    string
	engine     string //the engine that was being driven.
	inputname  string //the job name associated to the failure.
	additional string //any additional information, or an empty string.
	deco       []string
	critical   bool
}

func (err Error) Error() string {
	s := fmt.Sprintf("%s: %s, engine: %s, job: %s", strings.Join(err.deco, "/"), err.message, err.engine, err.inputname)
	if err.additional != "" {
		s = s + " (" + err.additional + ")"
	}
	return s
}

//Decorate adds new information to the error.
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//Engine returns the name of the engine associated to the error.
func (err Error) Engine() string { return err.engine }

//InputName returns the name of the job associated to the error.
func (err Error) InputName() string { return err.inputname }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

//Error messages.
const (
	ErrMissingData  = "Missing structure or simulation parameters"
	ErrCantInput    = "Can't build input file"
	ErrNotRunning   = "Engine cannot be run"
	ErrNoGeometry   = "Can't obtain the geometry from the engine's output"
	ErrProbableFail = "Probable problem in the simulation"
)
