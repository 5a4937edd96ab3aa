/*
 * mdplot.go, part of mdsim
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

//Package mdplot renders time series of simulation observables, either
//to PNG files or to a terminal.
package mdplot

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//TimeSeries plots y against x and saves the plot, in png format, to
//plotname (the extension is added). Returns an error or nil.
func TimeSeries(x, y []float64, title, xlabel, ylabel, plotname string) error {
	if x == nil || y == nil {
		panic("Given nil data")
	}
	if len(x) != len(y) {
		return fmt.Errorf("mdplot: mismatched series lengths: %d vs %d", len(x), len(y))
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(l)
	p.Add(plotter.NewGrid())
	filename := fmt.Sprintf("%s.png", plotname)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return err
	}
	return nil
}

//Terminal renders y as a terminal line graph with the given caption and
//height, to be printed as-is.
func Terminal(y []float64, caption string, height int) string {
	if len(y) == 0 {
		return ""
	}
	if height <= 0 {
		height = 10
	}
	return asciigraph.Plot(y,
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}
