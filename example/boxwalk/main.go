package main

import (
	"fmt"
	"os"

	"github.com/akmonengine/hyperbox"
	"github.com/akmonengine/hyperbox/compact"
	"github.com/akmonengine/hyperbox/logger"
	"github.com/pterm/pterm"
)

func main() {
	log := logger.New(logger.WithWriter(os.Stderr))
	space := hyperbox.NewSpace(2, log)

	boxes := map[string][2][]float64{
		"A": {{-3, -1}, {0, 1}},
		"B": {{-1, 0}, {2, 1.5}},
		"C": {{-3, 1}, {0, 4}},
		"D": {{-2, -0.5}, {-1, 0.5}},
	}
	names := []string{"A", "B", "C", "D"}

	built := make([]*compact.Compact, len(names))
	for i, name := range names {
		box, err := space.Box(boxes[name][0], boxes[name][1])
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
		defer box.Close()
		built[i] = box
	}

	pterm.DefaultSection.Println("Box algebra")
	data := pterm.TableData{{"pair", "relation", "union", "convex", "intersection"}}
	for i := range built {
		for j := i + 1; j < len(built); j++ {
			rel, _, _ := compact.Classify(built[i], built[j], space.Tolerance)
			data = append(data, []string{
				names[i] + names[j],
				rel.String(),
				describe(space.Union(built[i], built[j])),
				describe(space.Convex(built[i], built[j])),
				describe(space.Intersection(built[i], built[j])),
			})
		}
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}

	pterm.DefaultSection.Println("Overlapping pairs")
	pairs, err := space.OverlappingPairs(built)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	for _, pair := range pairs {
		pterm.Info.Printfln("%s ∩ %s", names[pair.IndexA], names[pair.IndexB])
	}

	pterm.DefaultSection.Println("Lattice walk over A, step (1, 0.5), y first")
	it, err := space.Walk(built[0], 1, 0.5)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	defer it.Close()
	if err := it.SetDirection([]int{1, 0}); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	a, b := space.NewSet(), space.NewSet()
	defer a.Close()
	defer b.Close()
	for p := range it.Points() {
		pterm.Println(p)
		_ = a.Insert(p, space.Norm, space.Tolerance)
		p.Close()
	}

	pterm.DefaultSection.Println("Point sets")
	for _, coords := range [][]float64{{0, 1}, {5, 5}, {-3, -1}} {
		_ = space.Insert(b, coords...)
	}
	inter, err := space.SetIntersection(a, b)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	defer inter.Close()
	pterm.Info.Printfln("|A| = %d, |B| = %d, |A ∩ B| = %d", a.Size(), b.Size(), inter.Size())
}

func describe(c *compact.Compact, err error) string {
	if err != nil {
		return pterm.Red(err.Error())
	}
	defer c.Close()
	return fmt.Sprintf("[%v, %v]", c.Begin(), c.End())
}
