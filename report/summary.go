// Package report summarizes the deliveries of a simulation.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/sarchlab/lwsn/wsn/observe"
)

// GatewaySummary describes the latency observed at one gateway.
type GatewaySummary struct {
	Gateway  uint16
	Count    int
	Packets  int
	Min      float64
	Max      float64
	Mean     float64
	LastTime float64
}

type packetKey struct {
	origin uint16
	id     uint32
}

// Summarize groups the deliveries by gateway. Duplicated deliveries of the
// same packet are counted in Count but not in Packets.
func Summarize(deliveries []observe.Delivery) []GatewaySummary {
	byGateway := make(map[uint16]*GatewaySummary)
	seen := make(map[uint16]map[packetKey]bool)

	for _, d := range deliveries {
		s, ok := byGateway[d.Gateway]
		if !ok {
			s = &GatewaySummary{
				Gateway: d.Gateway,
				Min:     math.Inf(1),
				Max:     math.Inf(-1),
			}
			byGateway[d.Gateway] = s
			seen[d.Gateway] = make(map[packetKey]bool)
		}

		key := packetKey{origin: d.OriginSID, id: d.PacketID}
		if !seen[d.Gateway][key] {
			seen[d.Gateway][key] = true
			s.Packets++
		}

		s.Count++
		s.Min = math.Min(s.Min, d.Elapsed)
		s.Max = math.Max(s.Max, d.Elapsed)
		s.Mean += d.Elapsed
		s.LastTime = math.Max(s.LastTime, d.Time)
	}

	summaries := make([]GatewaySummary, 0, len(byGateway))
	for _, s := range byGateway {
		s.Mean /= float64(s.Count)
		summaries = append(summaries, *s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Gateway < summaries[j].Gateway
	})

	return summaries
}

// WriteText prints the summaries as a table.
func WriteText(w io.Writer, summaries []GatewaySummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "GATEWAY\tDELIVERIES\tPACKETS\tMIN\tMEAN\tMAX\tLAST")

	for _, s := range summaries {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\n",
			s.Gateway, s.Count, s.Packets, s.Min, s.Mean, s.Max, s.LastTime)
	}

	return tw.Flush()
}
