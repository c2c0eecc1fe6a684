package flowchart_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/flowmap/pkg/flowchart"
)

func ExampleEditor() {
	ctx := context.Background()
	ed := flowchart.NewEditor(nil)

	plan, _ := ed.AddNode(flowchart.KindTask, flowchart.Position{X: 0, Y: 0})
	ship, _ := ed.AddNode(flowchart.KindTask, flowchart.Position{X: 0, Y: 120})
	ed.SetLabel(ctx, plan.ID, "Plan")
	ed.SetLabel(ctx, ship.ID, "Ship")
	ed.Connect(flowchart.Connection{Source: plan.ID, Target: ship.ID})
	ed.SetCompleted(plan.ID, true)

	fc := ed.Flowchart()
	s := fc.Stats()
	fmt.Println(fc.Title)
	fmt.Printf("%d nodes, %d edge, %d/%d done (%d%%)\n", len(fc.Nodes), len(fc.Edges), s.Completed, s.Total, s.Percent)
	// Output:
	// Untitled Flowchart
	// 2 nodes, 1 edge, 1/2 done (50%)
}

func ExampleEditor_Resize() {
	ed := flowchart.NewEditor(nil)
	n, _ := ed.AddNode(flowchart.KindTask, flowchart.Position{})

	n, _ = ed.Resize(context.Background(), n.ID, 500, 50)
	fmt.Printf("%.0fx%.0f manual=%v\n", n.Width, n.Height, n.ManuallyResized)
	// Output: 400x80 manual=true
}
