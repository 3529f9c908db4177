// Package visualize renders a solved schedule to Graphviz DOT text, for
// eyeballing a result outside the JSON views.
package visualize

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/schedule"
)

const dotTemplate = `digraph schedule {
  rankdir=LR;
  node [shape=box];
{{- range .Tours }}
  subgraph cluster_{{ .Slot }} {
    label="{{ .Label }}";
{{- range .Edges }}
    "{{ .From }}" -> "{{ .To }}";
{{- end }}
  }
{{- end }}
}
`

var tpl = template.Must(template.New("dot").Parse(dotTemplate))

type edge struct {
	From, To string
}

type tour struct {
	Slot  int32
	Label string
	Edges []edge
}

type document struct {
	Tours []tour
}

// Render writes s's real vehicle tours as one Graphviz DOT cluster per
// vehicle, one edge per consecutive node pair, labelled with the node kind
// and location — enough to eyeball a schedule's shape without reproducing
// the full objective/instance detail.
func Render(inst *instance.Instance, s *schedule.Schedule) (string, error) {
	var doc document
	for _, slot := range s.Vehicles() {
		vt, ok := s.Vehicle(slot)
		if !ok {
			continue
		}
		t := tour{Slot: int32(slot), Label: fmt.Sprintf("%s (%s)", vt.Vehicle.ID.String()[:8], inst.VehicleType(vt.Vehicle.VehicleType).Name)}
		nodes := vt.Tour.Nodes()
		for i := 0; i+1 < len(nodes); i++ {
			t.Edges = append(t.Edges, edge{From: nodeLabel(inst, nodes[i]), To: nodeLabel(inst, nodes[i+1])})
		}
		doc.Tours = append(doc.Tours, t)
	}

	var sb strings.Builder
	if err := tpl.Execute(&sb, doc); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func nodeLabel(inst *instance.Instance, idx int) string {
	n := inst.Nodes[idx]

	return fmt.Sprintf("%s#%d@%s", n.Kind().String(), idx, locationName(inst, n.StartLocation()))
}

func locationName(inst *instance.Instance, loc instance.LocationIndex) string {
	if int(loc) < 0 || int(loc) >= len(inst.Locations) {
		return "?"
	}

	return inst.Locations[loc].Name
}
