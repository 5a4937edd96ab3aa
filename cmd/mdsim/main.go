/*
 * main.go, part of mdsim
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

package main

import (
	"fmt"
	"log/slog"
	"os"

	mdsim "github.com/quimlab/mdsim"
	"github.com/quimlab/mdsim/config"
	"github.com/quimlab/mdsim/internal/logging"
	"github.com/quimlab/mdsim/ising"
	"github.com/quimlab/mdsim/mdplot"
	"github.com/quimlab/mdsim/report"
	"github.com/quimlab/mdsim/traj/dcd"
	"github.com/quimlab/mdsim/vec3"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	logger   *slog.Logger
	// run
	configFile string
	noWait     bool
	// plot
	column   string
	plotOut  string
	terminal bool
	// ising
	rows      int
	cols      int
	sweeps    int
	every     int
	kT        float64
	seed      int64
	tableFile string
	// frame
	frameNum int
	frameOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mdsim",
		Short: "structure preparation, MD driving and analysis for the stat-mech course",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(os.Stderr, logging.ParseLevel(logLevel))
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	splitCmd := &cobra.Command{
		Use:   "split [structure.pdb]",
		Short: "split a PDB structure by alternate locations",
		Args:  cobra.ExactArgs(1),
		RunE:  runSplit,
	}

	runCmd := &cobra.Command{
		Use:   "run [structure.pdb]",
		Short: "solvate, minimize and simulate a structure with an external engine",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().BoolVar(&noWait, "no-wait", false, "don't wait for the engine to finish")

	plotCmd := &cobra.Command{
		Use:   "plot [observables.csv]",
		Short: "plot an observable time series from a table file",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVar(&column, "column", "Potential Energy (kJ/mole)", "column to plot")
	plotCmd.Flags().StringVar(&plotOut, "out", "", "write a png with this base name instead of drawing in the terminal")
	plotCmd.Flags().BoolVar(&terminal, "term", true, "draw the series in the terminal")

	isingCmd := &cobra.Command{
		Use:   "ising",
		Short: "run a 2D Ising lattice Monte Carlo simulation",
		RunE:  runIsing,
	}
	isingCmd.Flags().IntVar(&rows, "rows", 64, "lattice rows")
	isingCmd.Flags().IntVar(&cols, "cols", 64, "lattice columns")
	isingCmd.Flags().IntVar(&sweeps, "sweeps", 200, "number of sweeps")
	isingCmd.Flags().IntVar(&every, "every", 5, "sweeps between samples")
	isingCmd.Flags().Float64Var(&kT, "kt", ising.CriticalkT, "temperature, in coupling units")
	isingCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	isingCmd.Flags().StringVar(&tableFile, "table", "", "write sampled energies to this table file")

	frameCmd := &cobra.Command{
		Use:   "frame [traj.dcd] [structure.pdb]",
		Short: "export one trajectory frame as a PDB file",
		Args:  cobra.ExactArgs(2),
		RunE:  runFrame,
	}
	frameCmd.Flags().IntVar(&frameNum, "n", 0, "frame to export, starting from 0")
	frameCmd.Flags().StringVar(&frameOut, "out", "frame.pdb", "output PDB file")

	rootCmd.AddCommand(splitCmd, runCmd, plotCmd, isingCmd, frameCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSplit(cmd *cobra.Command, args []string) error {
	names, err := mdsim.SplitAltLocFile(args[0])
	if err != nil {
		return err
	}
	if len(names) == 0 {
		logger.Info("no alternate locations found", "structure", args[0])
		return nil
	}
	for _, n := range names {
		logger.Info("wrote structure", "file", n)
	}
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if len(args) > 0 {
		cfg.Structure = args[0]
	}
	if cfg.Structure == "" {
		return fmt.Errorf("no input structure given")
	}
	mol, err := mdsim.PDBFileRead(cfg.Structure)
	if err != nil {
		return err
	}
	logger.Info("structure read", "file", cfg.Structure, "atoms", mol.Len())
	h := cfg.Handle()
	if err := h.BuildInput(mol, cfg.Spec()); err != nil {
		return err
	}
	logger.Info("engine input built", "engine", cfg.Engine, "job", cfg.JobName,
		"steps", cfg.Steps, "temperature", cfg.Temperature)
	if err := h.Run(!noWait); err != nil {
		return err
	}
	if noWait {
		logger.Info("engine started in the background", "trajectory", h.TrajFile(), "observables", h.DataFile())
		return nil
	}
	logger.Info("simulation finished", "trajectory", h.TrajFile(), "observables", h.DataFile())
	if _, err := h.MinimizedGeometry(); err != nil {
		logger.Warn("minimized structure not recovered", "error", err)
	}
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	T, err := report.ReadFile(args[0])
	if err != nil {
		return err
	}
	if T.Len() == 0 {
		return fmt.Errorf("no data to plot in %s", args[0])
	}
	y, err := T.Series(column)
	if err != nil {
		return err
	}
	if plotOut != "" {
		if err := mdplot.TimeSeries(T.Time, y, column, "Time (ps)", column, plotOut); err != nil {
			return err
		}
		logger.Info("wrote plot", "file", plotOut+".png")
		return nil
	}
	if terminal {
		fmt.Println(mdplot.Terminal(y, column, 12))
	}
	return nil
}

func runIsing(cmd *cobra.Command, args []string) error {
	if sweeps < 1 {
		return fmt.Errorf("at least one sweep is needed, got %d", sweeps)
	}
	if every < 1 {
		return fmt.Errorf("the sampling interval must be positive, got %d", every)
	}
	L := ising.New(rows, cols, seed)
	L.SetkT(kT)
	logger.Info("lattice built", "rows", rows, "cols", cols, "kT", kT)
	var w *report.Writer
	if tableFile != "" {
		var err error
		w, err = report.NewWriter(tableFile)
		if err != nil {
			return err
		}
		defer w.Close()
	}
	mags := make([]float64, 0, sweeps/every+1)
	enes := make([]float64, 0, sweeps/every+1)
	L.Run(sweeps, every, func(sweep int, m, e float64) {
		mags = append(mags, m)
		enes = append(enes, e)
		if w != nil {
			//the lattice has no kinetic energy, so both energy columns
			//carry the interaction energy per spin.
			if err := w.WNext(sweep, float64(sweep), e, e, kT); err != nil {
				logger.Warn("failed to write sample", "sweep", sweep, "error", err)
			}
		}
	})
	fmt.Println(mdplot.Terminal(mags, "magnetization per spin", 12))
	fmt.Println()
	fmt.Println(mdplot.Terminal(enes, "energy per spin", 12))
	logger.Info("run finished", "sweeps", sweeps,
		"magnetization", mags[len(mags)-1], "energy", enes[len(enes)-1])
	return nil
}

func runFrame(cmd *cobra.Command, args []string) error {
	mol, err := mdsim.PDBFileRead(args[1])
	if err != nil {
		return err
	}
	traj, err := dcd.New(args[0])
	if err != nil {
		return err
	}
	defer traj.Close()
	if traj.Len() != mol.Len() {
		return fmt.Errorf("trajectory has %d atoms but the structure has %d", traj.Len(), mol.Len())
	}
	coords := vec3.Zeros(traj.Len())
	for i := 0; i <= frameNum; i++ {
		if err := traj.Next(coords); err != nil {
			if _, ok := err.(mdsim.LastFrameError); ok {
				return fmt.Errorf("trajectory ended before frame %d", frameNum)
			}
			return err
		}
	}
	mol.Coords = []*vec3.Matrix{coords}
	mol.Bfactors = nil
	if err := mol.Corrupted(); err != nil {
		return err
	}
	if err := mdsim.FrameToPDB(frameOut, mol, 0); err != nil {
		return err
	}
	logger.Info("wrote frame", "trajectory", args[0], "frame", frameNum, "file", frameOut)
	return nil
}
