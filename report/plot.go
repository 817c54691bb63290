package report

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"sort"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sarchlab/lwsn/wsn/observe"
)

var gatewayStyles = []draw.GlyphStyle{
	{Color: color.RGBA{R: 200, A: 255}, Radius: vg.Points(3), Shape: draw.CircleGlyph{}},
	{Color: color.RGBA{B: 200, A: 255}, Radius: vg.Points(3), Shape: draw.TriangleGlyph{}},
	{Color: color.RGBA{G: 150, A: 255}, Radius: vg.Points(3), Shape: draw.BoxGlyph{}},
}

// LatencyPlot draws the elapsed time of every delivery against the time the
// packet was originated, one series per gateway.
func LatencyPlot(title string, deliveries []observe.Delivery) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Origination Time (s)"
	p.Y.Label.Text = "Elapsed (s)"

	series := make(map[uint16]plotter.XYs)
	for _, d := range deliveries {
		series[d.Gateway] = append(series[d.Gateway], plotter.XY{
			X: d.Time - d.Elapsed,
			Y: d.Elapsed,
		})
	}

	gateways := make([]uint16, 0, len(series))
	for gid := range series {
		gateways = append(gateways, gid)
	}

	sort.Slice(gateways, func(i, j int) bool { return gateways[i] < gateways[j] })

	for i, gid := range gateways {
		s, err := plotter.NewScatter(series[gid])
		if err != nil {
			return nil, err
		}

		s.GlyphStyle = gatewayStyles[i%len(gatewayStyles)]

		p.Add(s)
		p.Legend.Add(fmt.Sprintf("Gateway %d", gid), s)
	}

	p.Add(plotter.NewGrid())

	return p, nil
}

// WritePlot renders the plot in the given format, such as "png" or "svg".
func WritePlot(
	p *plot.Plot,
	width, height vg.Length,
	output io.Writer,
	format string,
) error {
	w, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}

	_, err = w.WriteTo(output)

	return err
}

// WriteClosePlot renders the plot and closes the output.
func WriteClosePlot(
	p *plot.Plot,
	width, height vg.Length,
	output io.WriteCloser,
	format string,
) (err error) {
	defer func() {
		e := output.Close()
		err = combineErrors(err, e)
	}()

	return WritePlot(p, width, height, output, format)
}

// SavePlot renders the plot into a file.
func SavePlot(
	p *plot.Plot,
	width, height vg.Length,
	path string,
	format string,
) error {
	output, err := os.Create(path)
	if err != nil {
		return err
	}

	return WriteClosePlot(p, width, height, output, format)
}

func combineErrors(errors ...error) (err error) {
	for _, e := range errors {
		switch {
		case e == nil:
			// ignore
		case err == nil:
			err = e
		default:
			err = multierror.Append(err, e)
		}
	}

	return err
}
